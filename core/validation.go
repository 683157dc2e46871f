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
	"strings"
)

// ValidateCustomer validates a Customer according to domain rules.
//
// Validation rules:
//   - ID must be positive
//   - Email must not be empty
//   - The derived domain must not be empty
//
// The enrichment pass itself does not drop invalid customers; every row read
// from the store is looked up so positions stay aligned with the source.
func ValidateCustomer(customer *Customer) error {
	if customer == nil {
		return fmt.Errorf("%w: customer is nil", ErrInvalidCustomer)
	}

	if customer.ID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCustomer, ErrInvalidCustomerID)
	}

	if strings.TrimSpace(customer.Email) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCustomer, ErrEmptyEmail)
	}

	if err := ValidateDomain(customer.Domain()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCustomer, err)
	}

	return nil
}

// ValidateDomain checks that a lookup key is usable.
func ValidateDomain(domain Domain) error {
	if strings.TrimSpace(string(domain)) == "" {
		return ErrEmptyDomain
	}
	return nil
}
