// SPDX-License-Identifier: MIT
// Package layout: sentinel errors.
//
// Every message is prefixed with "layout: ..." for grep-ability.
// Out-of-range indices are programmer errors and are raised via panic with
// one of these sentinels wrapped; callers recover them with errors.Is.

package layout

import "errors"

var (
	// ErrOutOfRange indicates a location or offset outside the dimensions / payload.
	ErrOutOfRange = errors.New("layout: index out of range")

	// ErrUnknownKind indicates an identifier or value that is not a declared Kind.
	ErrUnknownKind = errors.New("layout: unknown storage kind")

	// ErrUnknownTransform indicates an identifier or value that is not a declared Transform.
	ErrUnknownTransform = errors.New("layout: unknown location transform")
)
