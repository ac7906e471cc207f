package fwimage

import (
	"fmt"
)

// ImageAddress represents an address inside the loaded firmware image
type ImageAddress uint64

func (ia ImageAddress) ToString() string {
	return fmt.Sprintf("0x%X", uint64(ia))
}

// Add returns the address offset by n bytes
func (ia ImageAddress) Add(n uint64) ImageAddress {
	return ia + ImageAddress(n)
}

// ImageSize represents a size of an image region
type ImageSize uint

func (is ImageSize) ToString() string {
	return fmt.Sprintf("%d bytes", uint(is))
}
