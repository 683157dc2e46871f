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
// Package pipeline runs one enrichment pass end to end.
//
// A pass reads every customer, sorts by ID, derives one lookup key per
// customer, obtains one attribute per key from a Source, pairs IDs with
// attributes and writes the pairs back to the customer store:
//
//	connect → list customers → close          (read phase)
//	sort → domains → Source.Enrich → record   (no database connection held)
//	reconcile → connect → stage → merge → close (write phase)
//
// Each phase opens its own connection through the storage.Connector.
// Nothing is kept between runs.
package pipeline
