package doc

import (
	"context"
	"fmt"
	"image"
	"sync"

	fitz "github.com/gen2brain/go-fitz"
)

// baseDPI is the raster density at scale 1.0. PDF layout units are 72 dpi;
// doubling keeps glyphs crisp on high-density cells without ballooning the
// cache.
const baseDPI = 144.0

// FitzSource renders documents through MuPDF. The underlying document handle
// is not safe for concurrent use, so every call serializes on a mutex.
type FitzSource struct {
	mu    sync.Mutex
	doc   *fitz.Document
	pages int
}

// OpenFitz opens the document at path.
func OpenFitz(path string) (*FitzSource, error) {
	d, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	pages := d.NumPage()
	if pages < 1 {
		_ = d.Close()
		return nil, fmt.Errorf("open %s: document has no pages", path)
	}
	return &FitzSource{doc: d, pages: pages}, nil
}

func (s *FitzSource) PageCount() int {
	return s.pages
}

func (s *FitzSource) PageSize(page int) (image.Point, error) {
	if page < 0 || page >= s.pages {
		return image.Point{}, ErrPageOutOfRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bounds, err := s.doc.Bound(page)
	if err != nil {
		return image.Point{}, fmt.Errorf("page %d bounds: %w", page, err)
	}
	// Bound reports 72-dpi layout units; scale to the raster density.
	factor := baseDPI / 72.0
	return image.Point{
		X: int(float64(bounds.Dx()) * factor),
		Y: int(float64(bounds.Dy()) * factor),
	}, nil
}

func (s *FitzSource) RenderPage(ctx context.Context, page int, scale float64) (*image.RGBA, error) {
	if page < 0 || page >= s.pages {
		return nil, ErrPageOutOfRange
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := s.doc.ImageDPI(page, baseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}
	return img, nil
}

func (s *FitzSource) PageText(page int) (string, error) {
	if page < 0 || page >= s.pages {
		return "", ErrPageOutOfRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	text, err := s.doc.Text(page)
	if err != nil {
		return "", fmt.Errorf("extract page %d text: %w", page, err)
	}
	return text, nil
}

func (s *FitzSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	err := s.doc.Close()
	s.doc = nil
	return err
}
