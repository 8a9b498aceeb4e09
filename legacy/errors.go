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


package legacy

import "errors"

var (
	// ErrNotFound indicates that the requested document was not found.
	ErrNotFound = errors.New("document not found")

	// ErrReadOnly indicates a write was attempted on a read-only store.
	ErrReadOnly = errors.New("store is read-only")

	// ErrInvalidOptions indicates an impossible option combination.
	ErrInvalidOptions = errors.New("invalid store options")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrMalformedMetadata indicates a document metadata blob that is not
	// valid JSON.
	ErrMalformedMetadata = errors.New("malformed metadata")

	// ErrEmptyDocument indicates a document with no text was offered for insert.
	ErrEmptyDocument = errors.New("document text cannot be empty")
)
