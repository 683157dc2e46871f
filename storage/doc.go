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
// Package storage provides the storage abstraction layer for enrichit.
//
// Two kinds of storage are involved in a pass:
//
//   - The customer database, reached through a Connector. Every phase of a
//     pass (read, write) opens its own Store and closes it when done.
//   - The capture store, a local CaptureRepository that keeps the result list
//     of each live pass so it can be replayed without calling the provider.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to keep callers independent of the
// backend:
//
//	connector, err := postgres.NewConnector(cfg)  // returns storage.Connector
//	captures, err := badger.NewCaptureRepository(path) // returns storage.CaptureRepository
//
// Internal constructors (newStore, newCaptureRepository) may return concrete
// types since they're only used within the implementation package.
//
// # Implementations
//
//   - storage/postgres: customer database on PostgreSQL (pgx, squirrel)
//   - storage/badger: capture store on BadgerDB
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
