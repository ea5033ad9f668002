package state

import (
	"context"
	"errors"
	"image"

	"github.com/kk-code-lab/tpdf/internal/doc"
)

var errTest = errors.New("test failure")

func dummyIdentity(id string) doc.Identity {
	return doc.Identity{Path: "/tmp/" + id + ".pdf", ID: id}
}

// fakeSource is an in-memory document: one string of text per page.
type fakeSource struct {
	pages    []string
	textErrs map[int]error
}

func (f *fakeSource) PageCount() int { return len(f.pages) }

func (f *fakeSource) PageSize(page int) (image.Point, error) {
	if page < 0 || page >= len(f.pages) {
		return image.Point{}, doc.ErrPageOutOfRange
	}
	return image.Point{X: 100, Y: 140}, nil
}

func (f *fakeSource) RenderPage(ctx context.Context, page int, scale float64) (*image.RGBA, error) {
	if page < 0 || page >= len(f.pages) {
		return nil, doc.ErrPageOutOfRange
	}
	return image.NewRGBA(image.Rect(0, 0, 10, 14)), nil
}

func (f *fakeSource) PageText(page int) (string, error) {
	if page < 0 || page >= len(f.pages) {
		return "", doc.ErrPageOutOfRange
	}
	if err, ok := f.textErrs[page]; ok {
		return "", err
	}
	return f.pages[page], nil
}

func (f *fakeSource) Close() error { return nil }

// newTestState opens a single fake document with the given page texts.
func newTestState(pages ...string) (*AppState, *DocState) {
	src := &fakeSource{pages: pages}
	d := NewDocState(doc.Identity{Path: "/tmp/fake.pdf", ID: "fake-doc"}, src)
	return &AppState{
		Docs:         []*DocState{d},
		ScreenWidth:  80,
		ScreenHeight: 24,
	}, d
}

// blankPages builds n empty pages.
func blankPages(n int) []string {
	return make([]string, n)
}

func reduce(t interface{ Fatalf(string, ...interface{}) }, r *StateReducer, s *AppState, actions ...Action) {
	for _, a := range actions {
		if _, err := r.Reduce(s, a); err != nil {
			t.Fatalf("reduce %T: %v", a, err)
		}
	}
}
