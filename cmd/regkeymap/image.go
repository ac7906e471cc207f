package main

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"regkeymap/fwimage"
	"regkeymap/fwimage_blob"
	"regkeymap/prompt"
)

// imageFlags selects the image source shared by all commands
type imageFlags struct {
	from      string
	base      string
	bigEndian bool
}

func (f *imageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "directory containing an image dump (instead of a raw image file)")
	cmd.Flags().StringVar(&f.base, "base", fwimage.DefaultBaseAddress.ToString(), "load address of the raw image file (hex)")
	cmd.Flags().BoolVar(&f.bigEndian, "big-endian", false, "read multi-byte values as big-endian")
}

func (f *imageFlags) order() binary.ByteOrder {
	if f.bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (f *imageFlags) open(cmd *cobra.Command, args []string) (fwimage.Image, error) {
	if f.from != "" {
		if len(args) > 0 {
			return nil, errors.New("pass either an image file or --from, not both")
		}

		dump := fwimage_blob.NewImageDump()
		if err := dump.Load(f.from); err != nil {
			return nil, fmt.Errorf("loading dump from %s: %w", f.from, err)
		}
		if cmd.Flags().Changed("big-endian") {
			dump.SetByteOrder(f.order())
		}
		return dump, nil
	}

	if len(args) != 1 {
		return nil, errors.New("an image file or --from is required")
	}

	base, err := prompt.ParseAddress(f.base)
	if err != nil {
		return nil, fmt.Errorf("--base: %w", err)
	}

	return fwimage_blob.OpenImageFile(args[0], base, f.order())
}
