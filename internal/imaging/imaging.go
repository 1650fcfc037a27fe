// Package imaging normalizes report photos before they are stored.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// DefaultMaxDimension bounds the longer side of a stored photo.
	DefaultMaxDimension = 1024
	DefaultQuality      = 85
)

// ErrUnsupportedFormat is returned for uploads that are not JPEG or PNG.
var ErrUnsupportedFormat = errors.New("unsupported image format")

var accepted = map[string]func(io.Reader) (image.Image, error){
	"image/jpeg": jpeg.Decode,
	"image/png":  png.Decode,
}

// Photo is a processed report photo, always JPEG encoded.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Processor re-encodes uploads to bounded JPEGs.
type Processor struct {
	MaxDimension int
	Quality      int
	// Background fills transparent regions, since JPEG has no alpha.
	Background color.Color
}

// NewProcessor returns a Processor with the default limits and a white
// background.
func NewProcessor() *Processor {
	return &Processor{
		MaxDimension: DefaultMaxDimension,
		Quality:      DefaultQuality,
		Background:   color.White,
	}
}

// Process sniffs the upload, decodes it, flattens it onto the background,
// downscales it to MaxDimension and re-encodes it as JPEG.
func (p *Processor) Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	// Client supplied content types are ignored.
	detected := http.DetectContentType(data)
	decode, ok := accepted[detected]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, detected)
	}

	src, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), p.MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(p.Background), image.Point{}, draw.Src)
	if w == src.Bounds().Dx() && h == src.Bounds().Dy() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg", Width: w, Height: h}, nil
}

// fit scales w x h down so neither side exceeds limit, keeping the aspect
// ratio. Images already within bounds are left alone.
func fit(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		return limit, clampMin(h * limit / w)
	}
	return clampMin(w * limit / h), limit
}

func clampMin(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
