package regmap

import (
	"fmt"
	"io"

	"github.com/Moonlight-Companies/gologger/coloransi"

	"regkeymap/pod"
)

// WriteReport prints one block per entry:
//
//	Key 0x<HEX>:
//		- Registry key: <path>
//		- Readable? <Yes|No> - Writeable? <Yes|No>
//
// A flag outside {0,1} stops the report at that entry with ErrFlagOutOfRange.
func WriteReport(w io.Writer, m *RegistryMap) error {
	for _, e := range m.Entries() {
		readable, writable, err := entryFlags(e)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "Key 0x%X:\n\t- Registry key: %s\n\t- Readable? %s - Writeable? %s\n",
			e.KeyID, e.Path, readable, writable); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable prints the map as aligned columns
func WriteTable(w io.Writer, m *RegistryMap, color bool) error {
	var yesNo pod.FormatFunc
	if color {
		yesNo = func(s string) string {
			if s == allowed[1] {
				return coloransi.Foreground(coloransi.Green, s)
			}
			return coloransi.Foreground(coloransi.Red, s)
		}
	}

	table := pod.NewTable(
		pod.ColumnSpec{Header: "Key"},
		pod.ColumnSpec{Header: "Registry key"},
		pod.ColumnSpec{Header: "Read", FormatFunc: yesNo},
		pod.ColumnSpec{Header: "Write", FormatFunc: yesNo},
		pod.ColumnSpec{Header: "Row"},
	)

	for _, e := range m.Entries() {
		readable, writable, err := entryFlags(e)
		if err != nil {
			return err
		}
		table.AddRow(fmt.Sprintf("0x%X", e.KeyID), e.Path, readable, writable, fmt.Sprint(e.Row))
	}

	return table.Render(w)
}

func entryFlags(e RegistryEntry) (string, string, error) {
	readable, err := e.Readable.Allowed()
	if err != nil {
		return "", "", fmt.Errorf("key 0x%X (row %d) readable: %w", e.KeyID, e.Row, err)
	}
	writable, err := e.Writable.Allowed()
	if err != nil {
		return "", "", fmt.Errorf("key 0x%X (row %d) writable: %w", e.KeyID, e.Row, err)
	}
	return readable, writable, nil
}
