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
// Package postgres implements the customer database on PostgreSQL.
//
// Reads use squirrel-built SELECTs; results are staged with COPY into a
// dedicated table and merged into the customer table with a join-update.
// Table and column names are configurable; the defaults match the layout
// the pass has always used:
//
//	public.customers  (id bigint, contact_email text, industry text)
//	public.industries (id bigint primary key, industry text)
//
// Every Store is backed by its own single-connection pool so that each phase
// of a pass holds exactly one database connection.
package postgres
