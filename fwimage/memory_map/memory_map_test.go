package memory_map

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMap() []MemoryMapItem {
	mm := []MemoryMapItem{
		{Address: 0x81010000, Size: 0x100, Perms: "rw-"},
		{Address: 0x81000000, Size: 0x1000, Perms: "r-x"},
	}
	Sort(mm)
	return mm
}

func TestFindRegion(t *testing.T) {
	mm := testMap()

	tests := []struct {
		name string
		addr uint64
		want uint64
		ok   bool
	}{
		{"first byte", 0x81000000, 0x81000000, true},
		{"last byte of text", 0x81000FFF, 0x81000000, true},
		{"gap", 0x81001000, 0, false},
		{"data", 0x81010080, 0x81010000, true},
		{"past end", 0x81010100, 0, false},
		{"before start", 0x80FFFFFF, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region := FindRegion(tt.addr, mm)
			if !tt.ok {
				assert.Nil(t, region)
				assert.False(t, IsValidAddress(tt.addr, mm))
				return
			}
			require.NotNil(t, region)
			assert.Equal(t, tt.want, region.Address)
			assert.True(t, IsValidAddress(tt.addr, mm))
		})
	}
}

func TestBounds(t *testing.T) {
	lo, hi, ok := Bounds(testMap())
	require.True(t, ok)
	assert.Equal(t, uint64(0x81000000), lo)
	assert.Equal(t, uint64(0x810100FF), hi)

	_, _, ok = Bounds(nil)
	assert.False(t, ok)

	_, _, ok = Bounds([]MemoryMapItem{{Address: 0x1000}})
	assert.False(t, ok, "empty regions do not contribute bounds")
}

func TestOverlaps(t *testing.T) {
	assert.False(t, Overlaps(testMap()))

	mm := []MemoryMapItem{
		{Address: 0x1000, Size: 0x20},
		{Address: 0x1010, Size: 0x20},
	}
	assert.True(t, Overlaps(mm))
}

func TestPerms(t *testing.T) {
	item := MemoryMapItem{Perms: "r-x"}
	assert.True(t, item.IsReadable())
	assert.True(t, item.IsExecutable())
	assert.False(t, MemoryMapItem{}.IsReadable())
}
