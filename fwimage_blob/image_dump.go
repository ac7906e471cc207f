package fwimage_blob

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"regkeymap/fwimage"
	"regkeymap/fwimage/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

const (
	metadataFile  = "metadata.json"
	memoryMapFile = "image_memory_map.json"
)

// ImageDump implements fwimage.Image for a multi-region image dump directory
type ImageDump struct {
	typedRead

	ImageName string
	MemoryMap []memory_map.MemoryMapItem
	Blobs     map[uint64][]byte // Address -> Data

	log *logger.Logger
}

var _ fwimage.Image = (*ImageDump)(nil)

type dumpMetadata struct {
	Name      string `json:"name"`
	ByteOrder string `json:"byte_order"`
}

// NewImageDump creates an empty little-endian dump, regions are added with AddRegion or Load
func NewImageDump() *ImageDump {
	d := &ImageDump{
		Blobs: make(map[uint64][]byte),
		log:   logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "image-dump")),
	}
	d.typedRead = typedRead{readMemory: d.ReadMemory, order: binary.LittleEndian}
	return d
}

func (p *ImageDump) Close() error {
	p.Blobs = nil
	p.MemoryMap = nil
	return nil
}

func (p *ImageDump) Name() string {
	return p.ImageName
}

func (p *ImageDump) ByteOrder() binary.ByteOrder {
	return p.order
}

// SetByteOrder changes the order used for multi-byte reads
func (p *ImageDump) SetByteOrder(order binary.ByteOrder) {
	p.order = order
}

// AddRegion maps data at address, keeping the map sorted
func (p *ImageDump) AddRegion(address fwimage.ImageAddress, data []byte, perms string) error {
	item := memory_map.MemoryMapItem{Address: uint64(address), Size: uint(len(data)), Perms: perms}
	if _, ok := p.Blobs[item.Address]; ok {
		return fmt.Errorf("region at %s already mapped", address.ToString())
	}

	mm := append(append([]memory_map.MemoryMapItem{}, p.MemoryMap...), item)
	memory_map.Sort(mm)
	if memory_map.Overlaps(mm) {
		return fmt.Errorf("region at %s overlaps an existing region", address.ToString())
	}

	p.MemoryMap = mm
	p.Blobs[item.Address] = data
	return nil
}

func (p *ImageDump) Bounds() (fwimage.ImageAddress, fwimage.ImageAddress, error) {
	lo, hi, ok := memory_map.Bounds(p.MemoryMap)
	if !ok {
		return 0, 0, fwimage.ErrEmptyImage
	}
	return fwimage.ImageAddress(lo), fwimage.ImageAddress(hi), nil
}

func (p *ImageDump) InBounds(addr fwimage.ImageAddress) bool {
	lo, hi, err := p.Bounds()
	if err != nil {
		return false
	}
	return lo <= addr && addr <= hi
}

func (p *ImageDump) IsValidAddress(addr fwimage.ImageAddress) bool {
	return memory_map.IsValidAddress(uint64(addr), p.MemoryMap)
}

func (p *ImageDump) GetMemoryMap() []memory_map.MemoryMapItem {
	result := make([]memory_map.MemoryMapItem, len(p.MemoryMap))
	copy(result, p.MemoryMap)
	return result
}

// ReadMemory reads from a single region, reads spanning a gap fail
func (p *ImageDump) ReadMemory(addr fwimage.ImageAddress, size fwimage.ImageSize) ([]byte, error) {
	if p.Blobs == nil {
		return nil, fwimage.ErrImageClosed
	}

	region := memory_map.FindRegion(uint64(addr), p.MemoryMap)
	if region == nil {
		return nil, fmt.Errorf("read at %s: %w", addr.ToString(), fwimage.ErrAddressNotMapped)
	}

	data, ok := p.Blobs[region.Address]
	if !ok {
		return nil, fmt.Errorf("no data for region 0x%x: %w", region.Address, fwimage.ErrAddressNotMapped)
	}

	offset := uint64(addr) - region.Address
	if offset+uint64(size) > uint64(len(data)) {
		return nil, fmt.Errorf("read of %d bytes at %s exceeds region 0x%x: %w",
			size, addr.ToString(), region.Address, fwimage.ErrAddressNotMapped)
	}

	result := make([]byte, size)
	copy(result, data[offset:offset+uint64(size)])
	return result, nil
}

func blobFilename(dirname string, region memory_map.MemoryMapItem) string {
	return filepath.Join(dirname, fmt.Sprintf("blob_0x%x_%d.bin", region.Address, region.Size))
}

func byteOrderName(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big"
	}
	return "little"
}

// Load reads a dump directory written by SaveImage
func (p *ImageDump) Load(dirname string) error {
	metadataBytes, err := os.ReadFile(filepath.Join(dirname, metadataFile))
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata dumpMetadata
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	p.ImageName = metadata.Name
	switch metadata.ByteOrder {
	case "", "little":
		p.order = binary.LittleEndian
	case "big":
		p.order = binary.BigEndian
	default:
		return fmt.Errorf("unknown byte order %q in metadata", metadata.ByteOrder)
	}

	mmBytes, err := os.ReadFile(filepath.Join(dirname, memoryMapFile))
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}

	var mm []memory_map.MemoryMapItem
	if err := json.Unmarshal(mmBytes, &mm); err != nil {
		return fmt.Errorf("failed to unmarshal memory map: %w", err)
	}
	memory_map.Sort(mm)
	if memory_map.Overlaps(mm) {
		return fmt.Errorf("memory map in %s has overlapping regions", dirname)
	}

	loaded := make([]memory_map.MemoryMapItem, 0, len(mm))
	for _, region := range mm {
		filename := blobFilename(dirname, region)
		data, err := os.ReadFile(filename)
		if errors.Is(err, os.ErrNotExist) {
			p.log.Warn("Region listed without blob, skipping: ", filename)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read blob %s: %w", filename, err)
		}
		if len(data) != int(region.Size) {
			return fmt.Errorf("blob %s has %d bytes, memory map says %d", filename, len(data), region.Size)
		}

		p.Blobs[region.Address] = data
		loaded = append(loaded, region)
	}
	p.MemoryMap = loaded

	p.log.Infoln("Loaded dump", dirname, "with", len(loaded), "regions")

	return nil
}

// SaveImage writes every region of img into dirname in the layout Load expects
func SaveImage(img fwimage.Image, dirname string) error {
	if err := os.MkdirAll(dirname, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	metadataJSON, err := json.MarshalIndent(dumpMetadata{
		Name:      img.Name(),
		ByteOrder: byteOrderName(img.ByteOrder()),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, metadataFile), metadataJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	mm := img.GetMemoryMap()
	memoryMapJSON, err := json.MarshalIndent(mm, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, memoryMapFile), memoryMapJSON, 0644); err != nil {
		return fmt.Errorf("failed to write memory map file: %w", err)
	}

	for _, region := range mm {
		data, err := img.ReadMemory(fwimage.ImageAddress(region.Address), fwimage.ImageSize(region.Size))
		if err != nil {
			return fmt.Errorf("failed to read region 0x%x: %w", region.Address, err)
		}
		if err := os.WriteFile(blobFilename(dirname, region), data, 0644); err != nil {
			return fmt.Errorf("failed to write region 0x%x: %w", region.Address, err)
		}
	}

	return nil
}
