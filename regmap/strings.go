package regmap

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"regkeymap/fwimage"
)

var charsets = map[string]encoding.Encoding{
	"latin1":      charmap.ISO8859_1,
	"windows1252": charmap.Windows1252,
	"cp437":       charmap.CodePage437,
	"utf8":        encoding.Nop,
}

// DefaultCharset maps every byte to the code point of the same value
const DefaultCharset = "latin1"

// LookupCharset returns the encoding registered under name
func LookupCharset(name string) (encoding.Encoding, error) {
	enc, ok := charsets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown string encoding %q, valid options: %s", name, strings.Join(CharsetNames(), ", "))
	}
	return enc, nil
}

func CharsetNames() []string {
	names := make([]string, 0, len(charsets))
	for name := range charsets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StringReader reads NUL-terminated strings out of an image
type StringReader struct {
	img fwimage.ImageRead
	dec *encoding.Decoder
}

func NewStringReader(img fwimage.ImageRead, enc encoding.Encoding) *StringReader {
	if enc == nil {
		enc = charmap.ISO8859_1
	}
	return &StringReader{img: img, dec: enc.NewDecoder()}
}

// ReadString reads bytes until the first zero byte. There is no length limit:
// a string without terminator runs until the end of mapped memory and fails
// there instead of being cut short.
func (r *StringReader) ReadString(addr fwimage.ImageAddress) (string, error) {
	var raw []byte
	for cur := addr; ; cur++ {
		b, err := r.img.ReadUINT8(cur)
		if err != nil {
			return "", fmt.Errorf("unterminated string at %s after %d bytes: %w", addr.ToString(), len(raw), err)
		}
		if b == 0 {
			break
		}
		raw = append(raw, b)
	}

	decoded, err := r.dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode string at %s: %w", addr.ToString(), err)
	}
	return string(decoded), nil
}
