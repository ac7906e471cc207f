// Package regmap joins the registry manager's key, string and mapping tables
// into a map from key ID to registry path.
//
// Table item layout of the mapping table:
//
//	byte 0: 1 if the key may be written
//	byte 1: 1 if the key may be read
//	byte 2: index into the category strings table
//	byte 3: index into the key strings table
//
// The key IDs live in a separate table of 32-bit integers with the same row index.
package regmap

import "errors"

var (
	// ErrAddressNotInImage is returned when a table base address lies outside [imageMin, imageMax].
	ErrAddressNotInImage = errors.New("not in program")

	// ErrFlagOutOfRange is returned when a permission byte is neither 0 nor 1.
	ErrFlagOutOfRange = errors.New("permission flag out of range")

	ErrInvalidLayout = errors.New("invalid table layout")
)
