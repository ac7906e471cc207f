package regmap

import (
	"fmt"

	"regkeymap/fwimage"
)

// Tables holds the base addresses of the four lookup tables
type Tables struct {
	Keys       fwimage.ImageAddress
	Categories fwimage.ImageAddress
	KeyStrings fwimage.ImageAddress
	Mapping    fwimage.ImageAddress
}

// TableAddress names one table base address
type TableAddress struct {
	Name    string
	Address fwimage.ImageAddress
}

// Named returns the tables in the order the operator is asked for them
func (t Tables) Named() []TableAddress {
	return []TableAddress{
		{"keys table", t.Keys},
		{"category strings table", t.Categories},
		{"key strings table", t.KeyStrings},
		{"mapping table", t.Mapping},
	}
}

// ValidateAddress checks addr against the image bounds
func ValidateAddress(img fwimage.Image, name string, addr fwimage.ImageAddress) error {
	if !img.InBounds(addr) {
		return fmt.Errorf("invalid address %s for %s - %w", addr.ToString(), name, ErrAddressNotInImage)
	}
	return nil
}

// Validate checks every table address, stopping at the first one outside the image
func (t Tables) Validate(img fwimage.Image) error {
	for _, table := range t.Named() {
		if err := ValidateAddress(img, table.Name, table.Address); err != nil {
			return err
		}
	}
	return nil
}
