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


// Package apollo implements provider.BulkLookup against the Apollo
// organization bulk enrichment API.
//
// Each call is a single POST of at most provider.MaxBatchSize domains. The
// response is read positionally: the i-th entry of "organizations" belongs to
// the i-th requested domain and may be null.
//
// # Configuration
//
//	cfg := provider.NewConfig(
//	    provider.WithAPIKey(os.Getenv("APOLLO_API_KEY")),
//	    provider.WithTimeout(15*time.Second),
//	)
//	lookup, err := apollo.NewClient(cfg)
//
// The client performs no retries and no pacing; both are the caller's concern.
package apollo
