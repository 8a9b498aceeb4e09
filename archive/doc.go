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


// Package archive implements recollect's per-date JSON archive files.
//
// Each calendar date maps to one pretty-printed JSON file holding the
// messages for that day. The files are jointly owned: the regular day
// indexer appends organic conversation and the backfill merges formational
// documents, so all mutation goes through Merge, which is idempotent and
// never drops entries that are already present.
//
// Archive files are a deliberate human surface. They can be inspected and
// hand-edited between runs; a file that fails to parse is reported as
// *CorruptError and treated by callers as absent rather than fatal.
package archive
