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

// Package errors defines the errors returned by the extension registry and
// the adaptive dispatchers. Callers match them with errors.Is.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateName is returned when an extension name is registered twice for the same extension point.
	ErrDuplicateName = errors.New("extension name is already registered")

	// ErrUnknownExtension is returned when the requested extension name has no registered implementation.
	ErrUnknownExtension = errors.New("extension is not registered")

	// ErrNoExtensionNameResolved is returned when neither the request parameters nor the
	// declared default yield an extension name.
	ErrNoExtensionNameResolved = errors.New("no extension name resolved")

	// ErrNotExtensionPoint is returned when an extension point is used before it has been declared.
	ErrNotExtensionPoint = errors.New("type is not a declared extension point")

	// ErrPointAlreadyDeclared is returned when an extension point is declared twice on the same registry.
	ErrPointAlreadyDeclared = errors.New("extension point is already declared")

	// ErrInvalidExtensionName is returned when an extension name is empty, reserved or malformed.
	ErrInvalidExtensionName = errors.New("invalid extension name, must match [a-zA-Z0-9][a-zA-Z0-9._-]* and not be reserved")

	// ErrInstantiation is returned when an extension factory fails or panics.
	ErrInstantiation = errors.New("failed to create extension instance")

	// ErrNoParameters is returned when an adaptive call is made without request parameters.
	ErrNoParameters = errors.New("request parameters are required")

	// ErrNotAdaptive is returned when an adaptive instance is requested for an extension point
	// that has neither a hand-written adaptive extension nor an adapter.
	ErrNotAdaptive = errors.New("extension point has no adaptive extension")

	// ErrRegistryClosed is returned when the registry is used after Close.
	ErrRegistryClosed = errors.New("extension registry is closed")
)

// NewErrDuplicateName formats an ErrDuplicateName for the given extension point and name.
func NewErrDuplicateName(point, name string) error {
	return fmt.Errorf("point=(%s) name=(%s) %w", point, name, ErrDuplicateName)
}

// NewErrUnknownExtension formats an ErrUnknownExtension and lists the names that are registered.
func NewErrUnknownExtension(point, name string, available []string) error {
	return fmt.Errorf("point=(%s) name=(%s) available=[%s] %w", point, name, strings.Join(available, ","), ErrUnknownExtension)
}

// NewErrNoExtensionNameResolved formats an ErrNoExtensionNameResolved with the keys that were tried.
func NewErrNoExtensionNameResolved(point, method string, keys []string, params string) error {
	return fmt.Errorf("point=(%s) method=(%s) keys=[%s] params=(%s) %w", point, method, strings.Join(keys, ","), params, ErrNoExtensionNameResolved)
}

// NewErrNotExtensionPoint formats an ErrNotExtensionPoint for the given type.
func NewErrNotExtensionPoint(point string) error {
	return fmt.Errorf("type=(%s) %w", point, ErrNotExtensionPoint)
}

// NewErrPointAlreadyDeclared formats an ErrPointAlreadyDeclared for the given extension point.
func NewErrPointAlreadyDeclared(point string) error {
	return fmt.Errorf("point=(%s) %w", point, ErrPointAlreadyDeclared)
}

// NewErrInvalidExtensionName formats an ErrInvalidExtensionName for the given extension point and name.
func NewErrInvalidExtensionName(point, name string) error {
	return fmt.Errorf("point=(%s) name=(%q) %w", point, name, ErrInvalidExtensionName)
}

// NewErrInstantiation wraps the factory failure with ErrInstantiation.
func NewErrInstantiation(point, name string, err error) error {
	return fmt.Errorf("point=(%s) name=(%s) %w: %w", point, name, ErrInstantiation, err)
}

// NewErrNotAdaptive formats an ErrNotAdaptive for the given extension point.
func NewErrNotAdaptive(point string) error {
	return fmt.Errorf("point=(%s) %w", point, ErrNotAdaptive)
}

// PanicError defines the panic error
// wrapping the value recovered from a panicking factory
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError from a recovered value
func NewPanicError(recovered any) *PanicError {
	if err, ok := recovered.(error); ok {
		return &PanicError{err}
	}
	return &PanicError{fmt.Errorf("%v", recovered)}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}
