package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"regkeymap/fwimage"
	"regkeymap/hexdump"
	"regkeymap/prompt"
	"regkeymap/regmap"
)

type resolveOptions struct {
	image  imageFlags
	layout regmap.Layout

	keys       string
	categories string
	keyStrings string
	mapping    string

	format   string
	encoding string
	hexdump  bool
	noColor  bool
}

// tableQuestion is one operator prompt, asked only when its flag is empty
type tableQuestion struct {
	flag    string
	name    string
	title   string
	message string
	dest    *fwimage.ImageAddress
}

func newResolveCmd() *cobra.Command {
	opts := &resolveOptions{layout: regmap.DefaultLayout()}

	cmd := &cobra.Command{
		Use:   "resolve [image-file]",
		Short: "Join the key, string and mapping tables and print every key ID",
		Long: `Reads the registry manager's four lookup tables out of the image and prints,
for every key ID, the registry key it maps to and whether it may be read and written.

Table addresses not given as flags are asked for on stdin, in the order
keys table, category strings table, key strings table, mapping table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, opts)
		},
	}

	opts.image.register(cmd)

	f := cmd.Flags()
	f.StringVar(&opts.keys, "keys", "", "base address of the keys table")
	f.StringVar(&opts.categories, "categories", "", "base address of the category strings table")
	f.StringVar(&opts.keyStrings, "key-strings", "", "base address of the key strings table")
	f.StringVar(&opts.mapping, "mapping", "", "base address of the mapping table")
	f.IntVar(&opts.layout.Rows, "rows", opts.layout.Rows, "number of mapping table rows")
	f.UintVar(&opts.layout.CategoryStride, "category-stride", opts.layout.CategoryStride, "size of one category string slot")
	f.UintVar(&opts.layout.KeyStride, "key-stride", opts.layout.KeyStride, "size of one key string slot")
	f.StringVar(&opts.format, "format", "text", "report format: text, table")
	f.StringVar(&opts.encoding, "encoding", regmap.DefaultCharset, "string table encoding: latin1, windows1252, cp437, utf8")
	f.BoolVar(&opts.hexdump, "hexdump", false, "hexdump the mapping table before the report")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colors in table and hexdump output")

	return cmd
}

func runResolve(cmd *cobra.Command, args []string, opts *resolveOptions) error {
	if opts.format != "text" && opts.format != "table" {
		return fmt.Errorf("unsupported format %q, valid options: text, table", opts.format)
	}

	enc, err := regmap.LookupCharset(opts.encoding)
	if err != nil {
		return err
	}

	if err := opts.layout.Validate(); err != nil {
		return err
	}

	img, err := opts.image.open(cmd, args)
	if err != nil {
		return err
	}
	defer img.Close()

	resolver, err := regmap.NewResolver(img, regmap.WithLayout(opts.layout), regmap.WithEncoding(enc))
	if err != nil {
		return err
	}

	tables, err := acquireTables(cmd, img, opts)
	if err != nil {
		return err
	}

	m, err := resolver.Resolve(tables)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if opts.hexdump {
		o := hexdump.DefaultOptions()
		o.GroupSize = regmap.RowStride
		o.Color = !opts.noColor
		size := opts.layout.TableSize()

		fmt.Fprintf(out, "Mapping table at %s (%s):\n", tables.Mapping.ToString(), size.ToString())
		if err := hexdump.DumpImage(out, img, tables.Mapping, size, o); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if opts.format == "table" {
		return regmap.WriteTable(out, m, !opts.noColor)
	}
	return regmap.WriteReport(out, m)
}

// acquireTables takes each address from its flag or asks for it, and checks
// it against the image before moving on to the next one.
func acquireTables(cmd *cobra.Command, img fwimage.Image, opts *resolveOptions) (regmap.Tables, error) {
	var tables regmap.Tables
	questions := []tableQuestion{
		{opts.keys, "keys table", "Enter keys table address", "Base address of the keys table:", &tables.Keys},
		{opts.categories, "category strings table", "Enter category strings table address", "Base address of the category strings table:", &tables.Categories},
		{opts.keyStrings, "key strings table", "Enter key strings table address", "Base address of the key strings table:", &tables.KeyStrings},
		{opts.mapping, "mapping table", "Enter mapping table address", "Base address of the mapping table", &tables.Mapping},
	}

	p := prompt.New(cmd.InOrStdin(), cmd.ErrOrStderr())
	for _, q := range questions {
		var addr fwimage.ImageAddress
		var err error
		if q.flag != "" {
			addr, err = prompt.ParseAddress(q.flag)
		} else {
			addr, err = p.AskAddress(q.title, q.message)
		}
		if err != nil {
			return tables, fmt.Errorf("%s: %w", q.name, err)
		}

		if err := regmap.ValidateAddress(img, q.name, addr); err != nil {
			return tables, err
		}
		*q.dest = addr
	}

	return tables, nil
}
