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


// Package provider defines the boundary to third-party company-data services.
//
// The enrichment pass depends only on the BulkLookup interface: one call
// resolves up to MaxBatchSize domains to organizations, positionally.
//
// # Implementation Packages
//
//   - provider/apollo: HTTP client for the Apollo bulk organization enrichment API
//   - provider/mock: Test double with injectable behavior
//
// # Constructor Return Type Pattern
//
// Public constructors (apollo.NewClient) return the provider.BulkLookup
// interface. Test utility constructors (mock.NewMockLookup) return concrete
// types so tests can inspect call counts and the batches that were sent.
//
// # Usage Example
//
//	cfg := provider.NewConfig(provider.WithAPIKey(os.Getenv("APOLLO_API_KEY")))
//	lookup, err := apollo.NewClient(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	orgs, err := lookup.LookupOrganizations(ctx, []core.Domain{"example.com"})
package provider
