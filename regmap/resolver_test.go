package regmap

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"regkeymap/fwimage"
)

func TestResolve_JoinsTables(t *testing.T) {
	img := newTestImage(
		[]string{"SYSTEM/", "CONFIG"},
		[]string{"button_assign", "lang"},
		[]testRow{
			{key: 0x00023505, row: MappingRow{Writable: 1, Readable: 1, CategoryIndex: 0, KeyIndex: 0}},
			{key: 0x00023506, row: MappingRow{Writable: 0, Readable: 1, CategoryIndex: 1, KeyIndex: 1}},
		},
	)

	m, err := mustResolver(t, img.blob(), WithLayout(testLayout(2))).Resolve(testTables)
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())

	e, ok := m.Get(0x00023505)
	require.True(t, ok)
	assert.Equal(t, "SYSTEM/button_assign", e.Path, "no doubled separator")
	assert.Equal(t, Flag(1), e.Readable)
	assert.Equal(t, Flag(1), e.Writable)

	e, ok = m.Get(0x00023506)
	require.True(t, ok)
	assert.Equal(t, "CONFIG/lang", e.Path)
	assert.Equal(t, Flag(0), e.Writable)
	assert.Equal(t, 1, e.Row)
}

func TestResolve_DuplicateKeyKeepsLaterRow(t *testing.T) {
	img := newTestImage(
		[]string{"/CONFIG/SYSTEM", "/CONFIG/DATE"},
		[]string{"first", "second", "third"},
		[]testRow{
			{key: 0x10, row: MappingRow{Readable: 1, CategoryIndex: 0, KeyIndex: 0}},
			{key: 0x20, row: MappingRow{Readable: 1, CategoryIndex: 0, KeyIndex: 1}},
			{key: 0x10, row: MappingRow{Writable: 1, CategoryIndex: 1, KeyIndex: 2}},
		},
	)

	m, err := mustResolver(t, img.blob(), WithLayout(testLayout(3))).Resolve(testTables)
	require.NoError(t, err)

	entries := m.Entries()
	require.Len(t, entries, 2, "one entry per key ID")

	assert.Equal(t, uint32(0x10), entries[0].KeyID, "position of first insertion is kept")
	assert.Equal(t, "/CONFIG/DATE/third", entries[0].Path)
	assert.Equal(t, 2, entries[0].Row)
	assert.Equal(t, Flag(1), entries[0].Writable)
	assert.Equal(t, Flag(0), entries[0].Readable)

	assert.Equal(t, uint32(0x20), entries[1].KeyID)
}

func TestResolve_AddressOutOfImage(t *testing.T) {
	img := newTestImage([]string{"CONFIG"}, []string{"lang"}, []testRow{{key: 1}})
	outside := testBase + testImageSize

	tests := []struct {
		name   string
		tables func(Tables) Tables
	}{
		{"keys table", func(tb Tables) Tables { tb.Keys = outside; return tb }},
		{"category strings table", func(tb Tables) Tables { tb.Categories = testBase - 1; return tb }},
		{"key strings table", func(tb Tables) Tables { tb.KeyStrings = 0; return tb }},
		{"mapping table", func(tb Tables) Tables { tb.Mapping = outside + 0x1000; return tb }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counting := &countingImage{Image: img.blob()}
			r := mustResolver(t, counting, WithLayout(testLayout(1)))

			m, err := r.Resolve(tt.tables(testTables))
			require.ErrorIs(t, err, ErrAddressNotInImage)
			assert.Nil(t, m)
			assert.Contains(t, err.Error(), "invalid address")
			assert.Contains(t, err.Error(), tt.name+" - not in program")
			assert.Zero(t, counting.reads, "no table may be read before all addresses are validated")
		})
	}
}

func TestTables_ValidateBoundary(t *testing.T) {
	img := newTestImage(nil, nil, nil).blob()
	last := testBase + testImageSize - 1

	tables := Tables{Keys: testBase, Categories: last, KeyStrings: last, Mapping: testBase}
	assert.NoError(t, tables.Validate(img), "imageMin and imageMax are inclusive")

	tables.Mapping = last + 1
	assert.ErrorIs(t, tables.Validate(img), ErrAddressNotInImage)
}

func TestResolve_FirstInvalidAddressReported(t *testing.T) {
	img := newTestImage(nil, nil, nil).blob()

	_, err := mustResolver(t, img).Resolve(Tables{})
	require.ErrorIs(t, err, ErrAddressNotInImage)
	assert.Contains(t, err.Error(), "keys table")
}

func TestResolve_MappingTableRunsOffImage(t *testing.T) {
	img := newTestImage(nil, nil, nil)
	tables := testTables
	tables.Mapping = testBase + testImageSize - 8

	_, err := mustResolver(t, img.blob(), WithLayout(testLayout(4))).Resolve(tables)
	assert.ErrorIs(t, err, fwimage.ErrAddressNotMapped)
	assert.Contains(t, err.Error(), "mapping table")
}

func TestResolve_UnterminatedStringFails(t *testing.T) {
	img := newTestImage([]string{"CONFIG"}, nil, []testRow{{key: 7, row: MappingRow{KeyIndex: 0}}})
	tables := testTables
	tables.KeyStrings = testBase + testImageSize - 4
	img.put(testImageSize-4, []byte("abcd"))

	m, err := mustResolver(t, img.blob(), WithLayout(testLayout(1))).Resolve(tables)
	require.ErrorIs(t, err, fwimage.ErrAddressNotMapped)
	assert.Nil(t, m, "no terminator is synthesized at the end of the image")
	assert.Contains(t, err.Error(), "unterminated string")
}

func TestResolve_BigEndianKeys(t *testing.T) {
	img := newTestImage([]string{"CONFIG"}, []string{"lang"}, nil)
	img.order = binary.BigEndian
	img.order.PutUint32(img.data[offKeys:], 0x00023505)

	m, err := mustResolver(t, img.blob(), WithLayout(testLayout(1))).Resolve(testTables)
	require.NoError(t, err)

	_, ok := m.Get(0x00023505)
	assert.True(t, ok)
}

func TestResolve_CustomStrides(t *testing.T) {
	img := newTestImage(nil, nil, []testRow{{key: 1, row: MappingRow{CategoryIndex: 2, KeyIndex: 3}}})
	img.put(offCategories+2*0x10, []byte("/CONFIG/NP/\x00"))
	img.put(offKeyStrings+3*0x08, []byte("env\x00"))

	layout := Layout{Rows: 1, CategoryStride: 0x10, KeyStride: 0x08}
	m, err := mustResolver(t, img.blob(), WithLayout(layout)).Resolve(testTables)
	require.NoError(t, err)

	e, _ := m.Get(1)
	assert.Equal(t, "/CONFIG/NP/env", e.Path)
}

func TestResolve_Encoding(t *testing.T) {
	img := newTestImage([]string{"CONFIG"}, []string{"caf\xe9"}, []testRow{{key: 1}})

	m, err := mustResolver(t, img.blob(), WithLayout(testLayout(1))).Resolve(testTables)
	require.NoError(t, err)
	e, _ := m.Get(1)
	assert.Equal(t, "CONFIG/café", e.Path, "high bytes are kept, not skipped")

	m, err = mustResolver(t, img.blob(), WithLayout(testLayout(1)), WithEncoding(charmap.CodePage437)).Resolve(testTables)
	require.NoError(t, err)
	e, _ = m.Get(1)
	assert.Equal(t, "CONFIG/cafΘ", e.Path)
}

func TestNewResolver_InvalidLayout(t *testing.T) {
	img := newTestImage(nil, nil, nil).blob()

	for _, layout := range []Layout{
		{Rows: 0, CategoryStride: 1, KeyStride: 1},
		{Rows: 1, CategoryStride: 0, KeyStride: 1},
		{Rows: 1, CategoryStride: 1, KeyStride: 0},
	} {
		_, err := NewResolver(img, WithLayout(layout))
		assert.ErrorIs(t, err, ErrInvalidLayout)
	}
}

func TestReadRows(t *testing.T) {
	img := newTestImage(nil, nil, []testRow{
		{row: MappingRow{Writable: 1, Readable: 0, CategoryIndex: 5, KeyIndex: 9}},
	})

	rows, err := mustResolver(t, img.blob(), WithLayout(testLayout(2))).ReadRows(testTables.Mapping)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, MappingRow{Writable: 1, Readable: 0, CategoryIndex: 5, KeyIndex: 9}, rows[0])
	assert.Equal(t, MappingRow{}, rows[1])
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, 63, l.Rows)
	assert.Equal(t, uint(256), l.CategoryStride)
	assert.Equal(t, uint(28), l.KeyStride)
	assert.Equal(t, fwimage.ImageSize(252), l.TableSize())
	assert.True(t, strings.HasSuffix(l.TableSize().ToString(), "bytes"))
}
