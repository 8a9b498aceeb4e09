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


// Package index implements the destination hybrid store: a single SQLite
// file holding the relational exchange table, the embedding vector table,
// and an FTS5 full-text table.
//
// The relational row is the source of truth for whether an exchange has
// been written. WriteExchange performs the whole fan-out in one
// transaction: it replaces the vector and full-text entries
// unconditionally, then inserts the relational row only if absent. Re-run
// against an unchanged source, every write lands on an existing row and
// reports WriteStatusSkipped without duplicating anything; a run
// interrupted mid-stream simply refreshes the sub-index entries the next
// time around.
//
// Backfilled exchanges use deterministic identifiers built from the date
// and the message's archive position (FormationalID), with ordering keys
// offset by BackfillSeqBase so they never collide with the per-date
// sequence range used by regular traffic.
package index
