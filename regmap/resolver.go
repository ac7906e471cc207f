package regmap

import (
	"fmt"

	"golang.org/x/text/encoding"

	"regkeymap/fwimage"
	"regkeymap/pod"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Resolver builds a RegistryMap from the tables of one image
type Resolver struct {
	img     fwimage.Image
	layout  Layout
	strings *StringReader
	log     *logger.Logger
}

// Option is a function that configures a Resolver
type Option func(*resolverConfig)

type resolverConfig struct {
	layout   Layout
	encoding encoding.Encoding
}

func WithLayout(layout Layout) Option {
	return func(c *resolverConfig) {
		c.layout = layout
	}
}

// WithEncoding sets the charset used to decode category and key names
func WithEncoding(enc encoding.Encoding) Option {
	return func(c *resolverConfig) {
		c.encoding = enc
	}
}

func NewResolver(img fwimage.Image, options ...Option) (*Resolver, error) {
	cfg := resolverConfig{layout: DefaultLayout()}
	for _, opt := range options {
		opt(&cfg)
	}

	if err := cfg.layout.Validate(); err != nil {
		return nil, err
	}

	return &Resolver{
		img:     img,
		layout:  cfg.layout,
		strings: NewStringReader(img, cfg.encoding),
		log:     logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "regmap")),
	}, nil
}

func (r *Resolver) Layout() Layout {
	return r.layout
}

// ReadRows reads the whole mapping table in one read
func (r *Resolver) ReadRows(mapping fwimage.ImageAddress) ([]MappingRow, error) {
	rows, err := pod.ReadSliceT[MappingRow](r.img, mapping, r.layout.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping table (%s at %s): %w",
			r.layout.TableSize().ToString(), mapping.ToString(), err)
	}
	return rows, nil
}

// ResolveRow joins one mapping row against the key ID and string tables
func (r *Resolver) ResolveRow(tables Tables, i int, row MappingRow) (RegistryEntry, error) {
	key, err := r.img.ReadUINT32(keyIDAddress(tables.Keys, i))
	if err != nil {
		return RegistryEntry{}, fmt.Errorf("row %d: failed to read key ID: %w", i, err)
	}

	category, err := r.strings.ReadString(r.layout.categoryAddress(tables.Categories, row.CategoryIndex))
	if err != nil {
		return RegistryEntry{}, fmt.Errorf("row %d: category %d: %w", i, row.CategoryIndex, err)
	}

	keyName, err := r.strings.ReadString(r.layout.keyNameAddress(tables.KeyStrings, row.KeyIndex))
	if err != nil {
		return RegistryEntry{}, fmt.Errorf("row %d: key name %d: %w", i, row.KeyIndex, err)
	}

	return RegistryEntry{
		KeyID:    key,
		Path:     JoinPath(category, keyName),
		Readable: row.Readable,
		Writable: row.Writable,
		Row:      i,
	}, nil
}

// Resolve validates all four table addresses before reading anything, then
// joins every mapping row into the returned map.
func (r *Resolver) Resolve(tables Tables) (*RegistryMap, error) {
	if err := tables.Validate(r.img); err != nil {
		return nil, err
	}

	rows, err := r.ReadRows(tables.Mapping)
	if err != nil {
		return nil, err
	}

	result := NewRegistryMap()
	for i, row := range rows {
		entry, err := r.ResolveRow(tables, i, row)
		if err != nil {
			return nil, err
		}

		if result.Set(entry) {
			r.log.Debugln("Key", fmt.Sprintf("0x%X", entry.KeyID), "redefined by row", i)
		}
	}

	r.log.Infoln("Resolved", result.Len(), "keys from", len(rows), "rows")

	return result, nil
}
