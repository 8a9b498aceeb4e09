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


package archive

import (
	"errors"
	"fmt"
)

// ErrInvalidDate indicates a date that is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// CorruptError indicates an archive file that exists but cannot be read as
// a day archive. Callers treat the archive as absent and start fresh; a
// corrupt intermediate file must not block forward progress.
type CorruptError struct {
	Date string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("archive for %s is corrupt: %v", e.Date, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}
