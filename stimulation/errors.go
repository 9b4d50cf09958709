// SPDX-License-Identifier: MIT
// Package: stimulation
//
// errors.go - sentinel errors for protocol construction.

package stimulation

import "errors"

var (
	// ErrUnknownProfile indicates a profile other than ExponentialDecay or Customized.
	ErrUnknownProfile = errors.New("stimulation: unknown stimulus profile")

	// ErrInvalidParameter indicates a protocol parameter outside its domain.
	ErrInvalidParameter = errors.New("stimulation: invalid protocol parameter")

	// ErrMissingFunc indicates a Customized profile without a function.
	ErrMissingFunc = errors.New("stimulation: customized profile requires Func")
)
