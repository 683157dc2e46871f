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
// Package enrich resolves ordered lookup keys to industry attributes through a
// bulk company-data provider.
//
// The Enricher splits keys into provider-sized batches, paces calls with a rate
// limiter, optionally retries transient failures and maps every response
// position to a core.Attribute. The output is positional: attribute i belongs to
// key i.
//
// A failed batch ends the pass. The attributes gathered before the failure are
// returned in Result together with the error, so callers decide whether a
// shorter list is acceptable.
package enrich
