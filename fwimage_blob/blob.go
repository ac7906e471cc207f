package fwimage_blob

import (
	"encoding/binary"
	"fmt"

	"regkeymap/fwimage"
	"regkeymap/fwimage/memory_map"
)

// ImageBlob is a single contiguous region of image bytes starting at baseaddress.
type ImageBlob struct {
	typedRead

	name        string
	baseaddress fwimage.ImageAddress
	data        []byte
}

var _ fwimage.Image = (*ImageBlob)(nil)
var _ fwimage.ImageReadOffset = (*ImageBlob)(nil)

// NewImageBlob creates a little-endian blob, the layout of the ARM firmwares this tool targets.
func NewImageBlob(baseAddress fwimage.ImageAddress, data []byte) *ImageBlob {
	return NewImageBlobWithOrder(baseAddress, data, binary.LittleEndian)
}

func NewImageBlobWithOrder(baseAddress fwimage.ImageAddress, data []byte, order binary.ByteOrder) *ImageBlob {
	b := &ImageBlob{
		name:        fmt.Sprintf("blob@%s", baseAddress.ToString()),
		baseaddress: baseAddress,
		data:        data,
	}
	b.typedRead = typedRead{readMemory: b.ReadMemory, order: order}
	return b
}

func (p *ImageBlob) Close() error {
	p.data = nil
	return nil
}

func (p *ImageBlob) Name() string {
	return p.name
}

// SetName overrides the display name, used when the blob backs a file.
func (p *ImageBlob) SetName(name string) {
	p.name = name
}

func (p *ImageBlob) Data() []byte {
	return p.data
}

func (p *ImageBlob) Base() fwimage.ImageAddress {
	return p.baseaddress
}

func (p *ImageBlob) ByteOrder() binary.ByteOrder {
	return p.order
}

func (p *ImageBlob) Bounds() (fwimage.ImageAddress, fwimage.ImageAddress, error) {
	if len(p.data) == 0 {
		return 0, 0, fwimage.ErrEmptyImage
	}
	return p.baseaddress, p.baseaddress.Add(uint64(len(p.data)) - 1), nil
}

func (p *ImageBlob) InBounds(addr fwimage.ImageAddress) bool {
	lo, hi, err := p.Bounds()
	if err != nil {
		return false
	}
	return lo <= addr && addr <= hi
}

func (p *ImageBlob) IsValidAddress(addr fwimage.ImageAddress) bool {
	return p.InBounds(addr)
}

func (p *ImageBlob) GetMemoryMap() []memory_map.MemoryMapItem {
	if len(p.data) == 0 {
		return nil
	}
	return []memory_map.MemoryMapItem{{
		Address: uint64(p.baseaddress),
		Size:    uint(len(p.data)),
		Perms:   "r--",
	}}
}

func (p *ImageBlob) ReadMemory(addr fwimage.ImageAddress, size fwimage.ImageSize) ([]byte, error) {
	if p.data == nil {
		return nil, fwimage.ErrImageClosed
	}

	start := uint64(addr)
	end := start + uint64(size)
	base := uint64(p.baseaddress)
	if start < base || end < start || end > base+uint64(len(p.data)) {
		return nil, fmt.Errorf("read of %d bytes at %s: %w", size, addr.ToString(), fwimage.ErrAddressNotMapped)
	}

	offset := start - base
	return p.data[offset : offset+uint64(size)], nil
}

// OffsetBlob returns a blob of memory with offset from the start of this blob
func (p *ImageBlob) OffsetBlob(offset fwimage.ImageAddress, size fwimage.ImageSize) (fwimage.ImageReadOffset, error) {
	return p.ReadBlob(p.baseaddress+offset, size)
}
