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
	// ErrInvalidCustomer indicates a Customer failed validation.
	ErrInvalidCustomer = errors.New("invalid customer")

	// ErrInvalidCustomerID indicates a non-positive customer ID.
	ErrInvalidCustomerID = errors.New("customer id must be positive")

	// ErrEmptyEmail indicates the Email field is empty.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrEmptyDomain indicates a lookup key is empty.
	ErrEmptyDomain = errors.New("domain cannot be empty")
)
