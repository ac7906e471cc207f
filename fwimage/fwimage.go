// Package fwimage provides the interfaces and types for reading a loaded firmware image
package fwimage

import "errors"

var (
	// ErrAddressNotMapped is returned when an address is not found within any mapped region of the image.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrImageClosed is returned when a read is attempted on an image that has already been closed.
	ErrImageClosed = errors.New("image closed")

	ErrEmptyImage = errors.New("image has no mapped regions")
)

// DefaultBaseAddress is where raw firmware modules are mapped when no base is given.
var DefaultBaseAddress = ImageAddress(0x81000000)
