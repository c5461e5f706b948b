// Package highlight turns text selections in a scrolled PDF viewer into
// document-space highlight records and saves them in batches.
package highlight

import (
	"context"
	"errors"
	"math"
	"strings"

	"snipdesk/internal/model"
)

// ErrNothingToSave is returned by Save when the working list is empty.
var ErrNothingToSave = errors.New("nothing to save")

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Selection is a text selection as reported by the viewer, one rect per line box.
type Selection struct {
	Text  string
	Rects []Rect
}

// Marker gives transient visual feedback for a recorded selection.
type Marker interface {
	Mark(r Rect)
}

// Store persists a batch of highlights.
type Store interface {
	SaveHighlights(ctx context.Context, highlights []model.Highlight) error
}

// Locator records highlights for the displayed document while highlight mode is on.
// It is owned by a single viewer and is not safe for concurrent use.
type Locator struct {
	store  Store
	Marker Marker

	mode    bool
	pdf     string
	pending []model.Highlight
}

func NewLocator(store Store) *Locator {
	return &Locator{store: store}
}

func (l *Locator) SetMode(on bool) { l.mode = on }

func (l *Locator) Mode() bool { return l.mode }

// Open makes pdf the active document. Switching documents drops unsaved highlights.
func (l *Locator) Open(pdf string) {
	if pdf != l.pdf {
		l.pending = nil
	}
	l.pdf = pdf
}

// OnSelection records sel if highlight mode is on. The bool is false for a no-op.
func (l *Locator) OnSelection(sel Selection, scrollTop float64) (model.Highlight, bool) {
	if !l.mode || l.pdf == "" || strings.TrimSpace(sel.Text) == "" {
		return model.Highlight{}, false
	}
	box := Bounds(sel.Rects)
	if box.Width <= 0 || box.Height <= 0 {
		return model.Highlight{}, false
	}

	start, end := ToDocument(box, scrollTop)
	h := model.Highlight{Text: sel.Text, Start: start, End: end, PDF: l.pdf}
	l.pending = append(l.pending, h)

	if l.Marker != nil {
		l.Marker.Mark(box)
	}
	return h, true
}

// Save sends the whole working list in one request and clears it on success.
func (l *Locator) Save(ctx context.Context) error {
	if len(l.pending) == 0 {
		return ErrNothingToSave
	}
	if err := l.store.SaveHighlights(ctx, l.Pending()); err != nil {
		return err
	}
	l.pending = nil
	return nil
}

func (l *Locator) Pending() []model.Highlight {
	out := make([]model.Highlight, len(l.pending))
	copy(out, l.pending)
	return out
}

// Bounds returns the smallest rect containing rects. Empty rects are ignored.
func Bounds(rects []Rect) Rect {
	left, top := math.Inf(1), math.Inf(1)
	right, bottom := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}
		left = math.Min(left, r.Left)
		top = math.Min(top, r.Top)
		right = math.Max(right, r.Right())
		bottom = math.Max(bottom, r.Bottom())
	}
	if math.IsInf(left, 1) {
		return Rect{}
	}
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// ToDocument converts a viewport rect to document-space corners.
// Only the vertical axis scrolls.
func ToDocument(r Rect, scrollTop float64) (start, end model.Point) {
	start = model.Point{X: r.Left, Y: r.Top + scrollTop}
	end = model.Point{X: r.Right(), Y: r.Bottom() + scrollTop}
	return start, end
}

// ToViewport is the inverse of ToDocument.
func ToViewport(h model.Highlight, scrollTop float64) Rect {
	return Rect{
		Left:   h.Start.X,
		Top:    h.Start.Y - scrollTop,
		Width:  h.End.X - h.Start.X,
		Height: h.End.Y - h.Start.Y,
	}
}
