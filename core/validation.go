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

import (
	"fmt"
	"time"
)

// ValidateExchange validates an Exchange according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Date must be a YYYY-MM-DD calendar date
//   - CombinedText must not be empty
//   - Seq must not be negative
//
// NOT validated:
//   - UserText and AgentText (either side may be empty; backfilled
//     exchanges carry agent text only)
//   - Metadata (opaque to the store)
//   - CreatedAt (normalized upstream)
func ValidateExchange(ex *Exchange) error {
	if ex == nil {
		return fmt.Errorf("%w: exchange is nil", ErrInvalidExchange)
	}

	if ex.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidExchange, ErrEmptyId)
	}

	if !IsValidDate(ex.Date) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidExchange, ErrInvalidDate, ex.Date)
	}

	if ex.CombinedText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidExchange, ErrEmptyText)
	}

	if ex.Seq < 0 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidExchange, ErrInvalidSeq, ex.Seq)
	}

	return nil
}

// IsValidDate checks whether s is a YYYY-MM-DD calendar date.
func IsValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
