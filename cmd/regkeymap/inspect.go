package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"regkeymap/fwimage"
	"regkeymap/hexdump"
	"regkeymap/prompt"
)

func newInspectCmd() *cobra.Command {
	var (
		image   imageFlags
		addr    string
		size    uint
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [image-file]",
		Short: "Print the image's memory map, or hexdump a range of it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := image.open(cmd, args)
			if err != nil {
				return err
			}
			defer img.Close()

			out := cmd.OutOrStdout()

			if addr == "" {
				return printMemoryMap(cmd, img)
			}

			a, err := prompt.ParseAddress(addr)
			if err != nil {
				return err
			}

			o := hexdump.DefaultOptions()
			o.Color = !noColor
			fmt.Fprintf(out, "Hexdump at %s (%d bytes):\n", a.ToString(), size)
			return hexdump.DumpImage(out, img, a, fwimage.ImageSize(size), o)
		},
	}

	image.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "address to hexdump from (hex)")
	cmd.Flags().UintVar(&size, "size", 256, "number of bytes to hexdump")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors in hexdump output")

	return cmd
}

func printMemoryMap(cmd *cobra.Command, img fwimage.Image) error {
	out := cmd.OutOrStdout()

	lo, hi, err := img.Bounds()
	if err != nil {
		return err
	}

	mm := img.GetMemoryMap()
	fmt.Fprintf(out, "Image: %s\n", img.Name())
	fmt.Fprintf(out, "Bounds: %s - %s\n", lo.ToString(), hi.ToString())
	fmt.Fprintf(out, "Memory Regions: %d\n", len(mm))

	fmt.Fprintln(out, "\nMemory Map:")
	for _, region := range mm {
		fmt.Fprintf(out, "  %016x - %016x (%s) %d bytes\n",
			region.Address, region.End(), region.Perms, region.Size)
	}

	return nil
}
