package regmap

import (
	"encoding/binary"
	"testing"

	"regkeymap/fwimage"
	"regkeymap/fwimage_blob"
)

const testBase = fwimage.ImageAddress(0x81000000)

// test image layout, offsets from testBase
const (
	offKeys       = 0x000
	offMapping    = 0x100
	offCategories = 0x200
	offKeyStrings = 0x400
	testImageSize = 0x600
)

var testTables = Tables{
	Keys:       testBase + offKeys,
	Categories: testBase + offCategories,
	KeyStrings: testBase + offKeyStrings,
	Mapping:    testBase + offMapping,
}

type testRow struct {
	key uint32
	row MappingRow
}

type testImage struct {
	data  []byte
	order binary.ByteOrder
}

func newTestImage(categories, keyNames []string, rows []testRow) *testImage {
	img := &testImage{data: make([]byte, testImageSize), order: binary.LittleEndian}
	for i, c := range categories {
		img.put(offCategories+i*DefaultCategoryStride, append([]byte(c), 0))
	}
	for i, k := range keyNames {
		img.put(offKeyStrings+i*DefaultKeyStride, append([]byte(k), 0))
	}
	for i, r := range rows {
		img.order.PutUint32(img.data[offKeys+i*KeyIDStride:], r.key)
		img.put(offMapping+i*RowStride, []byte{
			uint8(r.row.Writable), uint8(r.row.Readable), r.row.CategoryIndex, r.row.KeyIndex,
		})
	}
	return img
}

func (ti *testImage) put(off int, p []byte) {
	copy(ti.data[off:], p)
}

func (ti *testImage) blob() *fwimage_blob.ImageBlob {
	return fwimage_blob.NewImageBlobWithOrder(testBase, ti.data, ti.order)
}

func testLayout(rows int) Layout {
	l := DefaultLayout()
	l.Rows = rows
	return l
}

// countingImage records every read that reaches the image
type countingImage struct {
	fwimage.Image
	reads int
}

func (c *countingImage) ReadMemory(addr fwimage.ImageAddress, size fwimage.ImageSize) ([]byte, error) {
	c.reads++
	return c.Image.ReadMemory(addr, size)
}

func (c *countingImage) ReadUINT8(addr fwimage.ImageAddress) (uint8, error) {
	c.reads++
	return c.Image.ReadUINT8(addr)
}

func (c *countingImage) ReadUINT32(addr fwimage.ImageAddress) (uint32, error) {
	c.reads++
	return c.Image.ReadUINT32(addr)
}

func (c *countingImage) ReadBlob(addr fwimage.ImageAddress, size fwimage.ImageSize) (fwimage.ImageReadOffset, error) {
	c.reads++
	return c.Image.ReadBlob(addr, size)
}

func mustResolver(t *testing.T, img fwimage.Image, options ...Option) *Resolver {
	t.Helper()
	r, err := NewResolver(img, options...)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}
