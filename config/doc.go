// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads enrichit settings from an optional YAML file.
//
// Values from the file are laid over the package defaults; command-line flags
// and environment variables are applied on top by the caller.
//
// Example file:
//
//	provider:
//	  base_url: https://api.apollo.io
//	  timeout: 30s
//	enrich:
//	  batch_size: 10
//	  pace_interval: 4s
//	postgres:
//	  url: postgres://localhost:5432/crm
//	  schema: public
//	cache:
//	  path: industries.cached
//	capture:
//	  path: ./captures
package config
