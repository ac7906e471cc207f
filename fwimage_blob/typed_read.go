package fwimage_blob

import (
	"encoding/binary"

	"regkeymap/fwimage"
)

// typedRead implements fwimage.ImageRead on top of any ReadMemory function,
// so blobs, dumps and mapped files share one decoding path.
type typedRead struct {
	readMemory func(addr fwimage.ImageAddress, size fwimage.ImageSize) ([]byte, error)
	order      binary.ByteOrder
}

// ReadUINT8 reads an unsigned 8-bit integer from the specified address
func (r typedRead) ReadUINT8(addr fwimage.ImageAddress) (uint8, error) {
	data, err := r.readMemory(addr, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// ReadUINT32 reads an unsigned 32-bit integer from the specified address
func (r typedRead) ReadUINT32(addr fwimage.ImageAddress) (uint32, error) {
	data, err := r.readMemory(addr, 4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(data), nil
}

// ReadBlob reads a blob of memory from the specified address with the given size
func (r typedRead) ReadBlob(addr fwimage.ImageAddress, size fwimage.ImageSize) (fwimage.ImageReadOffset, error) {
	if size == 0 {
		return NewImageBlobWithOrder(addr, []byte{}, r.order), nil
	}

	data, err := r.readMemory(addr, size)
	if err != nil {
		return nil, err
	}

	return NewImageBlobWithOrder(addr, data[:size], r.order), nil
}
