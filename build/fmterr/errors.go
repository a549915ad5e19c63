// Copyright 2025 Google LLC
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

package fmterr

import (
	"fmt"

	"go.uber.org/multierr"
)

// Errors accumulates independent errors found during one pass.
type Errors struct {
	err error
}

// Append an error to the list of errors.
// Always returns false so that callers can write `return errs.Append(err)`
// from functions reporting success.
func (errs *Errors) Append(err error) bool {
	errs.err = multierr.Append(errs.err, err)
	return false
}

// Empty returns true if no error has been appended.
func (errs *Errors) Empty() bool {
	return errs == nil || errs.err == nil
}

// Errors returns the list of all collected errors.
func (errs *Errors) Errors() []error {
	if errs == nil {
		return nil
	}
	return multierr.Errors(errs.err)
}

// ToError returns the errors as an error interface.
func (errs *Errors) ToError() error {
	if errs.Empty() {
		return nil
	}
	return errs.err
}

// Format writes the errors into the state of the formatter.
func (errs *Errors) Format(s fmt.State, verb rune) {
	flag := ""
	if s.Flag('+') {
		flag = "+"
	}
	for _, e := range errs.Errors() {
		fmt.Fprintf(s, fmt.Sprintf("%%%s%s\n", flag, string(verb)), e)
	}
}

// First returns the first error of a combined error.
func First(err error) error {
	all := multierr.Errors(err)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}
