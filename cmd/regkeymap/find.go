package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"regkeymap/fwimage"
	"regkeymap/hexdump"
	"regkeymap/prompt"
	"regkeymap/search"
)

func newFindCmd() *cobra.Command {
	var (
		image   imageFlags
		aob     string
		str     string
		u32     string
		align   uint
		limit   int
		context uint
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "find [image-file]",
		Short: "Scan the image for a byte pattern, a string or a key ID to locate tables",
		Long: `Scans every readable region of the image. Use --string with a known category
or key name to find a string table slot, or --u32 with a known key ID to find
the keys table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := 0
			for _, v := range []string{aob, str, u32} {
				if v != "" {
					set++
				}
			}
			if set != 1 {
				return errors.New("exactly one of --aob, --string or --u32 is required")
			}

			img, err := image.open(cmd, args)
			if err != nil {
				return err
			}
			defer img.Close()

			var pattern search.AOB
			switch {
			case aob != "":
				pattern, err = search.ParseAOB(aob)
			case str != "":
				pattern, err = search.StringAOB(str, true)
			default:
				var v fwimage.ImageAddress
				v, err = prompt.ParseAddress(u32)
				if err == nil && v > 0xFFFFFFFF {
					err = fmt.Errorf("%s does not fit in 32 bits", u32)
				}
				pattern = search.Uint32AOB(uint32(v), img.ByteOrder())
			}
			if err != nil {
				return err
			}

			matches, err := search.NewScanner(img, search.WithAlignment(align), search.WithLimit(limit)).Scan(pattern)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pattern: %s\n", pattern.String())
			fmt.Fprintf(out, "Found %d matches:\n", len(matches))

			o := hexdump.DefaultOptions()
			o.Color = !noColor
			for _, match := range matches {
				fmt.Fprintf(out, "Match at %s\n", match.ToString())
				if context == 0 {
					continue
				}
				size := fwimage.ImageSize(context)
				if err := hexdump.DumpImage(out, img, match, size, o); err != nil {
					// the context may run past the end of the region
					fmt.Fprintf(out, "  (%v)\n", err)
				}
			}

			return nil
		},
	}

	image.register(cmd)
	f := cmd.Flags()
	f.StringVar(&aob, "aob", "", "array of bytes to scan for (e.g. '53 59 ?? 54')")
	f.StringVar(&str, "string", "", "NUL-terminated string to scan for")
	f.StringVar(&u32, "u32", "", "32-bit value to scan for (hex), in the image's byte order")
	f.UintVar(&align, "align", 1, "only report matches at addresses that are a multiple of this")
	f.IntVar(&limit, "limit", 0, "stop after this many matches (0 for no limit)")
	f.UintVar(&context, "context", 0, "bytes to hexdump at each match")
	f.BoolVar(&noColor, "no-color", false, "disable colors in hexdump output")

	return cmd
}
