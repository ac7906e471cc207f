package fwimage

import (
	"encoding/binary"

	"regkeymap/fwimage/memory_map"
)

// Image is a flat, bounded, byte-addressable view of a loaded firmware image
type Image interface {
	// Close releases resources held by the image
	Close() error

	// Name returns a human readable name of the image source
	Name() string

	// Bounds returns the lowest and highest mapped address (both inclusive)
	Bounds() (min ImageAddress, max ImageAddress, err error)

	// InBounds checks if addr lies within [min, max] of the image
	InBounds(addr ImageAddress) bool

	// IsValidAddress checks if the given address is inside a mapped region
	IsValidAddress(addr ImageAddress) bool

	// GetMemoryMap returns a copy of the image's region map
	GetMemoryMap() []memory_map.MemoryMapItem

	// ByteOrder returns the byte order used for multi-byte reads
	ByteOrder() binary.ByteOrder

	// ReadMemory reads size bytes starting at addr
	ReadMemory(addr ImageAddress, size ImageSize) ([]byte, error)

	ImageRead
}

// ImageRead defines typed read operations for image memory
type ImageRead interface {
	// ReadUINT8 reads an unsigned 8-bit integer from the specified address
	ReadUINT8(addr ImageAddress) (uint8, error)

	// ReadUINT32 reads an unsigned 32-bit integer from the specified address
	ReadUINT32(addr ImageAddress) (uint32, error)

	// ReadBlob reads a blob of memory from the specified address with the given size
	ReadBlob(addr ImageAddress, size ImageSize) (ImageReadOffset, error)
}

// ImageReadOffset combines both ImageRead and ImageOffset interfaces
type ImageReadOffset interface {
	ImageRead
	ImageOffset
}

// ImageOffset defines reads relative to the start of a blob
type ImageOffset interface {
	// Data returns the raw bytes of the blob
	Data() []byte

	// Base returns the image address of the first byte of the blob
	Base() ImageAddress

	// OffsetBlob returns a sub-blob starting offset bytes into the blob
	OffsetBlob(offset ImageAddress, size ImageSize) (ImageReadOffset, error)
}
