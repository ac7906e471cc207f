package search

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPattern = errors.New("invalid pattern")

// AOB (Array of Bytes) is a pattern with a per-byte mask, 0x00 marks a wildcard
type AOB struct {
	Pattern []byte
	Mask    []byte
}

func NewAOB(pattern, mask []byte) (AOB, error) {
	if len(pattern) == 0 {
		return AOB{}, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}
	if mask == nil {
		mask = bytes.Repeat([]byte{0xFF}, len(pattern))
	}
	if len(mask) != len(pattern) {
		return AOB{}, fmt.Errorf("%w: mask length (%d) doesn't match pattern length (%d)",
			ErrInvalidPattern, len(mask), len(pattern))
	}
	return AOB{Pattern: pattern, Mask: mask}, nil
}

// ParseAOB parses hex bytes separated by commas or spaces, "?" or "??" is a wildcard:
// "53 59 ?? 54" or "53,59,??,54".
func ParseAOB(s string) (AOB, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})

	var pattern, mask []byte
	for _, part := range parts {
		if part == "??" || part == "?" {
			pattern = append(pattern, 0)
			mask = append(mask, 0)
			continue
		}

		val, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return AOB{}, fmt.Errorf("%w: invalid hex byte %q", ErrInvalidPattern, part)
		}
		pattern = append(pattern, byte(val))
		mask = append(mask, 0xFF)
	}

	return NewAOB(pattern, mask)
}

// StringAOB matches the bytes of s, followed by its terminator when terminated is set
func StringAOB(s string, terminated bool) (AOB, error) {
	pattern := []byte(s)
	if terminated {
		pattern = append(pattern, 0)
	}
	return NewAOB(pattern, nil)
}

func Uint32AOB(v uint32, order binary.ByteOrder) AOB {
	pattern := make([]byte, 4)
	order.PutUint32(pattern, v)
	return AOB{Pattern: pattern, Mask: bytes.Repeat([]byte{0xFF}, 4)}
}

func (aob AOB) String() string {
	var sb strings.Builder
	for i, p := range aob.Pattern {
		if i > 0 {
			sb.WriteString(" ")
		}
		if aob.Mask[i] == 0 {
			sb.WriteString("??")
		} else {
			sb.WriteString(hex.EncodeToString([]byte{p}))
		}
	}
	return sb.String()
}

func (aob AOB) matchAt(data []byte) bool {
	for j := range aob.Pattern {
		if data[j]&aob.Mask[j] != aob.Pattern[j]&aob.Mask[j] {
			return false
		}
	}
	return true
}
