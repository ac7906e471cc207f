package hexdump

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Moonlight-Companies/gologger/coloransi"

	"regkeymap/fwimage"
)

// HexDumpOptions defines options for customizing the hexdump output
type HexDumpOptions struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// GroupSize defines how many bytes are printed without a space between them
	GroupSize int

	ShowASCII bool

	// StartOffset is the address printed for the first byte
	StartOffset uint64

	// OffsetWidth is the width of the offset column in hex digits
	OffsetWidth int

	// Color enables ANSI colors, off when writing to a file or pipe
	Color bool

	OffsetColor       coloransi.ColorCode
	HexColor          coloransi.ColorCode
	ZeroColor         coloransi.ColorCode
	ASCIIColor        coloransi.ColorCode
	NonPrintableColor coloransi.ColorCode

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() HexDumpOptions {
	return HexDumpOptions{
		BytesPerLine:      16,
		GroupSize:         1,
		ShowASCII:         true,
		OffsetWidth:       8,
		Color:             true,
		OffsetColor:       coloransi.Cyan,
		HexColor:          coloransi.Green,
		ZeroColor:         coloransi.BrightBlack,
		ASCIIColor:        coloransi.White,
		NonPrintableColor: coloransi.Red,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options HexDumpOptions) string {
	var buffer bytes.Buffer
	_ = DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options HexDumpOptions) error {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.GroupSize <= 0 {
		options.GroupSize = 1
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 8
	}

	for line, offset := 0, 0; offset < len(data); line, offset = line+1, offset+options.BytesPerLine {
		if options.MaxLines > 0 && line >= options.MaxLines {
			_, err := fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			return err
		}

		end := min(offset+options.BytesPerLine, len(data))
		if _, err := io.WriteString(writer, formatLine(data[offset:end], options.StartOffset+uint64(offset), options)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (o HexDumpOptions) paint(color coloransi.ColorCode, s string) string {
	if !o.Color {
		return s
	}
	return coloransi.Foreground(color, s)
}

// formatLine renders "offset  hex groups | ascii"; short lines are padded so the ASCII column stays aligned
func formatLine(data []byte, offset uint64, options HexDumpOptions) string {
	var sb strings.Builder

	sb.WriteString(options.paint(options.OffsetColor, fmt.Sprintf("%0*x", options.OffsetWidth, offset)))
	sb.WriteString("  ")

	for i := 0; i < options.BytesPerLine; i++ {
		if i > 0 && i%options.GroupSize == 0 {
			sb.WriteByte(' ')
		}
		if i >= len(data) {
			sb.WriteString("  ")
			continue
		}

		color := options.HexColor
		if data[i] == 0 {
			color = options.ZeroColor
		}
		sb.WriteString(options.paint(color, fmt.Sprintf("%02x", data[i])))
	}

	if !options.ShowASCII {
		return strings.TrimRight(sb.String(), " ")
	}

	sb.WriteString(" | ")
	for _, b := range data {
		switch {
		case b == 0:
			sb.WriteString(options.paint(options.ZeroColor, "."))
		case b < 0x20 || b > 0x7E:
			sb.WriteString(options.paint(options.NonPrintableColor, "."))
		default:
			sb.WriteString(options.paint(options.ASCIIColor, string(rune(b))))
		}
	}

	return sb.String()
}

// DumpImage reads size bytes at addr from img and dumps them with addresses as offsets
func DumpImage(writer io.Writer, img fwimage.Image, addr fwimage.ImageAddress, size fwimage.ImageSize, options HexDumpOptions) error {
	data, err := img.ReadMemory(addr, size)
	if err != nil {
		return fmt.Errorf("failed to read %s at %s: %w", size.ToString(), addr.ToString(), err)
	}

	options.StartOffset = uint64(addr)
	return DumpToWriter(writer, data, options)
}
