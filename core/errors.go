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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidExchange indicates an Exchange failed validation.
	ErrInvalidExchange = errors.New("invalid exchange")

	// ErrEmptyId indicates the Id field is empty.
	ErrEmptyId = errors.New("id cannot be empty")

	// ErrEmptyText indicates the CombinedText field is empty.
	ErrEmptyText = errors.New("combined text cannot be empty")

	// ErrInvalidDate indicates the Date field is not a YYYY-MM-DD date.
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

	// ErrInvalidSeq indicates a negative ordering key.
	ErrInvalidSeq = errors.New("ordering key cannot be negative")
)
