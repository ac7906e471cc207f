package regmap

import (
	"fmt"
	"strings"
)

// PathSeparator joins category and key names
const PathSeparator = "/"

// Flag is a raw permission byte from the mapping table
type Flag uint8

var allowed = [...]string{"No", "Yes"}

// Allowed returns "No" for 0 and "Yes" for 1, any other value is an error
func (f Flag) Allowed() (string, error) {
	if int(f) >= len(allowed) {
		return "", fmt.Errorf("%w: 0x%02X", ErrFlagOutOfRange, uint8(f))
	}
	return allowed[f], nil
}

// MappingRow is one item of the mapping table, its size must equal RowStride
type MappingRow struct {
	Writable      Flag
	Readable      Flag
	CategoryIndex uint8
	KeyIndex      uint8
}

// RegistryEntry is what a key ID resolves to
type RegistryEntry struct {
	KeyID    uint32
	Path     string
	Readable Flag
	Writable Flag
	Row      int // mapping table row the entry was taken from
}

// JoinPath concatenates category and key name, adding a separator unless the
// category already ends with one.
func JoinPath(category, keyName string) string {
	if strings.HasSuffix(category, PathSeparator) {
		return category + keyName
	}
	return category + PathSeparator + keyName
}

// RegistryMap maps key IDs to entries. Iteration follows first insertion; a
// later Set for the same key replaces the entry in place.
type RegistryMap struct {
	order   []uint32
	entries map[uint32]RegistryEntry
}

func NewRegistryMap() *RegistryMap {
	return &RegistryMap{entries: make(map[uint32]RegistryEntry)}
}

// Set stores entry under its key ID and reports whether an earlier entry was replaced
func (m *RegistryMap) Set(entry RegistryEntry) bool {
	_, replaced := m.entries[entry.KeyID]
	if !replaced {
		m.order = append(m.order, entry.KeyID)
	}
	m.entries[entry.KeyID] = entry
	return replaced
}

func (m *RegistryMap) Get(keyID uint32) (RegistryEntry, bool) {
	e, ok := m.entries[keyID]
	return e, ok
}

func (m *RegistryMap) Len() int {
	return len(m.order)
}

// Entries returns all entries in iteration order
func (m *RegistryMap) Entries() []RegistryEntry {
	result := make([]RegistryEntry, 0, len(m.order))
	for _, k := range m.order {
		result = append(result, m.entries[k])
	}
	return result
}
