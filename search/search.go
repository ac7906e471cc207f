// Package search scans the readable regions of an image for byte patterns,
// used to locate candidate table addresses before resolving.
package search

import (
	"errors"
	"fmt"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"regkeymap/fwimage"
)

// Scanner holds configuration for a scan
type Scanner struct {
	img       fwimage.Image
	alignment uint
	limit     int
	log       *logger.Logger
}

// Option is a function that configures a Scanner
type Option func(*Scanner)

// WithAlignment only reports matches whose address is a multiple of align
func WithAlignment(align uint) Option {
	return func(s *Scanner) {
		s.alignment = align
	}
}

// WithLimit stops after n matches, 0 for no limit
func WithLimit(n int) Option {
	return func(s *Scanner) {
		s.limit = n
	}
}

func NewScanner(img fwimage.Image, options ...Option) *Scanner {
	s := &Scanner{
		img:       img,
		alignment: 1,
		log:       logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "search")),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.alignment == 0 {
		s.alignment = 1
	}
	return s
}

// Scan returns the addresses of every match in ascending order
func (s *Scanner) Scan(aob AOB) ([]fwimage.ImageAddress, error) {
	if len(aob.Pattern) == 0 || len(aob.Mask) != len(aob.Pattern) {
		return nil, fmt.Errorf("%w: pattern %d bytes, mask %d bytes", ErrInvalidPattern, len(aob.Pattern), len(aob.Mask))
	}

	s.log.Debugln("Scanning for", aob.String())

	var results []fwimage.ImageAddress
	for _, region := range s.img.GetMemoryMap() {
		if !region.IsReadable() {
			continue
		}

		data, err := s.img.ReadMemory(fwimage.ImageAddress(region.Address), fwimage.ImageSize(region.Size))
		if err != nil {
			if errors.Is(err, fwimage.ErrAddressNotMapped) {
				continue
			}
			return nil, fmt.Errorf("failed to read region 0x%x: %w", region.Address, err)
		}

		for _, offset := range s.findPatternMatches(data, region.Address, aob) {
			results = append(results, fwimage.ImageAddress(region.Address+uint64(offset)))
			if s.limit > 0 && len(results) >= s.limit {
				return results, nil
			}
		}
	}

	s.log.Infoln("Scan complete, found", len(results), "matches")
	return results, nil
}

// ScanFirst returns the lowest match
func (s *Scanner) ScanFirst(aob AOB) (fwimage.ImageAddress, error) {
	results, err := NewScanner(s.img, WithAlignment(s.alignment), WithLimit(1)).Scan(aob)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("pattern %s not found", aob.String())
	}
	return results[0], nil
}

// findPatternMatches returns the offsets into data of every aligned match, base is data's address
func (s *Scanner) findPatternMatches(data []byte, base uint64, aob AOB) []uint {
	var matches []uint
	for i := 0; i+len(aob.Pattern) <= len(data); i++ {
		if (base+uint64(i))%uint64(s.alignment) != 0 {
			continue
		}
		if aob.matchAt(data[i:]) {
			matches = append(matches, uint(i))
		}
	}
	return matches
}
