package memory_map

import (
	"fmt"
	"sort"
)

// MemoryMapItem represents a mapped region of a firmware image
type MemoryMapItem struct {
	Address uint64 `json:"address"` // The starting address of the region
	Size    uint   `json:"size"`    // The size of the region in bytes
	Perms   string `json:"perms"`   // Permissions (e.g., "r-x" for a text segment)
}

// String returns a string representation of the memory map item
func (mmItem MemoryMapItem) String() string {
	return fmt.Sprintf("Address: %x, Size: %d, Perms: %s", mmItem.Address, mmItem.Size, mmItem.Perms)
}

// End returns the first address past the region
func (mmItem MemoryMapItem) End() uint64 {
	return mmItem.Address + uint64(mmItem.Size)
}

func (mmItem MemoryMapItem) IsReadable() bool {
	return len(mmItem.Perms) > 0 && mmItem.Perms[0] == 'r'
}

func (mmItem MemoryMapItem) IsExecutable() bool {
	return len(mmItem.Perms) > 2 && mmItem.Perms[2] == 'x'
}

// Sort orders the map by start address, FindRegion requires it
func Sort(memoryMap []MemoryMapItem) {
	sort.Slice(memoryMap, func(i, j int) bool {
		return memoryMap[i].Address < memoryMap[j].Address
	})
}

// FindRegion returns the region containing addr in a sorted map, nil if unmapped
func FindRegion(addr uint64, memoryMap []MemoryMapItem) *MemoryMapItem {
	i := sort.Search(len(memoryMap), func(i int) bool {
		return memoryMap[i].End() > addr
	})
	if i < len(memoryMap) && memoryMap[i].Address <= addr {
		return &memoryMap[i]
	}

	return nil
}

// IsValidAddress checks if an address is within a mapped region of a sorted map
func IsValidAddress(addr uint64, memoryMap []MemoryMapItem) bool {
	return FindRegion(addr, memoryMap) != nil
}

// Bounds returns the lowest start and the highest last byte over all non-empty regions
func Bounds(memoryMap []MemoryMapItem) (uint64, uint64, bool) {
	var lo, hi uint64
	found := false
	for _, item := range memoryMap {
		if item.Size == 0 {
			continue
		}
		last := item.End() - 1
		if !found || item.Address < lo {
			lo = item.Address
		}
		if !found || last > hi {
			hi = last
		}
		found = true
	}
	return lo, hi, found
}

// Overlaps reports whether any two regions of a sorted map share an address
func Overlaps(memoryMap []MemoryMapItem) bool {
	for i := 1; i < len(memoryMap); i++ {
		if memoryMap[i].Address < memoryMap[i-1].End() {
			return true
		}
	}
	return false
}
