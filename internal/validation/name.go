// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package validation

import (
	"errors"
	"regexp"
)

// namePattern is the shape of an extension name. Commas separate names in
// activation lists and a leading '-' excludes a name, so neither may appear here.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

const maxNameLength = 255

// reservedNames have a meaning of their own when selecting extensions
var reservedNames = map[string]struct{}{
	"true":    {},
	"default": {},
}

var (
	errNameTooLong  = errors.New("extension name must not exceed 255 characters")
	errNameReserved = errors.New("extension name is reserved")
	errNameInvalid  = errors.New("extension name must match [a-zA-Z0-9][a-zA-Z0-9._-]*")
)

// nameValidator validates an extension name
type nameValidator struct {
	name string
}

var _ Validator = nameValidator{}

// NewNameValidator creates a validator for extension names
func NewNameValidator(name string) Validator {
	return nameValidator{name: name}
}

// Validate implements Validator
func (v nameValidator) Validate() error {
	if len(v.name) > maxNameLength {
		return errNameTooLong
	}
	if _, ok := reservedNames[v.name]; ok {
		return errNameReserved
	}
	return NewPatternValidator(namePattern, v.name, errNameInvalid).Validate()
}
