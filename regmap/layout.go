package regmap

import (
	"fmt"

	"regkeymap/fwimage"
)

const (
	// RowStride is the size of one mapping table item
	RowStride = 4

	// KeyIDStride is the size of one key ID in the keys table
	KeyIDStride = 4

	DefaultRows           = 0x3F
	DefaultCategoryStride = 0x100
	DefaultKeyStride      = 0x1C
)

// Layout holds the table geometry of the target binary. None of it can be
// verified at runtime; it has to match the loop bound and multipliers found
// next to the registry manager's lookup code.
type Layout struct {
	Rows           int
	CategoryStride uint
	KeyStride      uint
}

func DefaultLayout() Layout {
	return Layout{
		Rows:           DefaultRows,
		CategoryStride: DefaultCategoryStride,
		KeyStride:      DefaultKeyStride,
	}
}

func (l Layout) Validate() error {
	if l.Rows <= 0 {
		return fmt.Errorf("%w: row count %d", ErrInvalidLayout, l.Rows)
	}
	if l.CategoryStride == 0 {
		return fmt.Errorf("%w: category string stride is zero", ErrInvalidLayout)
	}
	if l.KeyStride == 0 {
		return fmt.Errorf("%w: key string stride is zero", ErrInvalidLayout)
	}
	return nil
}

// TableSize is the number of bytes read from the mapping table
func (l Layout) TableSize() fwimage.ImageSize {
	return fwimage.ImageSize(l.Rows * RowStride)
}

func (l Layout) categoryAddress(base fwimage.ImageAddress, index uint8) fwimage.ImageAddress {
	return base.Add(uint64(index) * uint64(l.CategoryStride))
}

func (l Layout) keyNameAddress(base fwimage.ImageAddress, index uint8) fwimage.ImageAddress {
	return base.Add(uint64(index) * uint64(l.KeyStride))
}

func keyIDAddress(base fwimage.ImageAddress, row int) fwimage.ImageAddress {
	return base.Add(uint64(row) * KeyIDStride)
}
