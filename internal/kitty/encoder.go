package kitty

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"
)

// chunkSize is the maximum base64 payload per escape sequence allowed by the
// kitty graphics protocol.
const chunkSize = 4096

// Placement positions a transmitted image on the cell grid.
type Placement struct {
	Col  int // zero-based cell column of the top-left corner
	Row  int // zero-based cell row
	Cols int // cell columns the image is scaled into
	Rows int // cell rows
}

// Encoder writes kitty graphics transmissions. Every frame goes out as one
// contiguous write under the mutex so chunk sequences from concurrent callers
// never interleave. Transmission ids increase monotonically and are not
// reused within a run.
type Encoder struct {
	mu     sync.Mutex
	w      io.Writer
	nextID uint32
	lastID uint32 // previous on-screen image, 0 when none
}

// NewEncoder writes transmissions to w, normally the terminal.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, nextID: 1}
}

// Transmit PNG-encodes img and displays it at the placement, deleting the
// previously transmitted image first so frames replace instead of stack. It
// returns the transmission id.
func (e *Encoder) Transmit(img image.Image, pl Placement) (uint32, error) {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return 0, fmt.Errorf("encode frame: %w", err)
	}
	payload := base64.StdEncoding.EncodeToString(pngBuf.Bytes())

	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++

	var out bytes.Buffer
	if e.lastID != 0 {
		writeDelete(&out, e.lastID)
	}

	// Cursor save, move to the placement origin, transmit, restore. The
	// c=/r= keys make the terminal scale the pixels into the cell box.
	fmt.Fprintf(&out, "\x1b[s\x1b[%d;%dH", pl.Row+1, pl.Col+1)

	bounds := img.Bounds()
	first := true
	for len(payload) > 0 {
		n := len(payload)
		if n > chunkSize {
			n = chunkSize
		}
		chunk := payload[:n]
		payload = payload[n:]

		more := 0
		if len(payload) > 0 {
			more = 1
		}
		if first {
			fmt.Fprintf(&out, "\x1b_Ga=T,f=100,C=1,q=2,i=%d,s=%d,v=%d,c=%d,r=%d,m=%d;%s\x1b\\",
				id, bounds.Dx(), bounds.Dy(), pl.Cols, pl.Rows, more, chunk)
			first = false
		} else {
			fmt.Fprintf(&out, "\x1b_Gm=%d,q=2;%s\x1b\\", more, chunk)
		}
	}

	out.WriteString("\x1b[u")

	if _, err := e.w.Write(out.Bytes()); err != nil {
		return 0, fmt.Errorf("write frame: %w", err)
	}
	e.lastID = id
	return id, nil
}

// Clear deletes the currently displayed image, if any.
func (e *Encoder) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastID == 0 {
		return nil
	}
	var out bytes.Buffer
	writeDelete(&out, e.lastID)
	if _, err := e.w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("clear frame: %w", err)
	}
	e.lastID = 0
	return nil
}

func writeDelete(out *bytes.Buffer, id uint32) {
	fmt.Fprintf(out, "\x1b_Ga=d,d=i,i=%d,q=2\x1b\\", id)
}
