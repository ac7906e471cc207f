package fwimage_blob

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"regkeymap/fwimage"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// ImageFile is a raw firmware file mapped read-only at a base address
type ImageFile struct {
	*ImageBlob

	path  string
	unmap func() error
	log   *logger.Logger
}

var _ fwimage.Image = (*ImageFile)(nil)

// OpenImageFile maps the file at path so that its first byte sits at base
func OpenImageFile(path string, base fwimage.ImageAddress, order binary.ByteOrder) (*ImageFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() == 0 {
		return nil, fmt.Errorf("empty image file: %s", path)
	}

	data, unmap, err := mapFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to map %s: %w", path, err)
	}

	img := &ImageFile{
		ImageBlob: NewImageBlobWithOrder(base, data, order),
		path:      path,
		unmap:     unmap,
		log:       logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "image-file")),
	}
	img.SetName(filepath.Base(path))

	img.log.Infoln("Mapped", path, "at", base.ToString(), "size", fwimage.ImageSize(len(data)).ToString())

	return img, nil
}

func (p *ImageFile) Close() error {
	if p.unmap == nil {
		return nil
	}

	err := p.unmap()
	p.unmap = nil
	_ = p.ImageBlob.Close()

	p.log.Infoln("Unmapped", p.path)

	return err
}
