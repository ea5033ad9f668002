package doc

import (
	"context"
	"errors"
	"image"
)

// ErrPageOutOfRange is returned when a page index falls outside the document.
var ErrPageOutOfRange = errors.New("page out of range")

// Source is a read-only view of one paginated document. Implementations must
// be safe for concurrent use; render workers and the command path share one
// Source per document.
type Source interface {
	// PageCount reports the number of pages. Always at least 1 for an open
	// document.
	PageCount() int

	// PageSize reports the layout size of a page in pixels at scale 1.0,
	// before any zoom is applied.
	PageSize(page int) (image.Point, error)

	// RenderPage rasterizes a page at the given scale. The context cancels
	// long decodes when the request is no longer wanted.
	RenderPage(ctx context.Context, page int, scale float64) (*image.RGBA, error)

	// PageText extracts the text content of a page for searching.
	PageText(page int) (string, error)

	Close() error
}
