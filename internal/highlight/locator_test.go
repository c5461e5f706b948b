package highlight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"snipdesk/internal/client/mocks"
	"snipdesk/internal/model"
)

const pdfURL = "http://localhost:8080/uploads/ReportsQ1/a.pdf"

type recordingMarker struct {
	marked []Rect
}

func (m *recordingMarker) Mark(r Rect) { m.marked = append(m.marked, r) }

func revenue() Selection {
	return Selection{Text: "Revenue grew", Rects: []Rect{
		{Left: 40, Top: 100, Width: 200, Height: 14},
		{Left: 30, Top: 116, Width: 120, Height: 14},
	}}
}

func TestBounds(t *testing.T) {
	assert.Equal(t, Rect{Left: 30, Top: 100, Width: 210, Height: 30}, Bounds(revenue().Rects))
	assert.Equal(t, Rect{}, Bounds(nil))
	assert.Equal(t, Rect{}, Bounds([]Rect{{Left: 5, Top: 5}}))
}

func TestOnSelection_NoOp(t *testing.T) {
	tests := []struct {
		name  string
		setup func(l *Locator)
		sel   Selection
	}{
		{name: "mode off", setup: func(l *Locator) { l.Open(pdfURL) }, sel: revenue()},
		{name: "no document", setup: func(l *Locator) { l.SetMode(true) }, sel: revenue()},
		{name: "empty text", setup: func(l *Locator) { l.SetMode(true); l.Open(pdfURL) }, sel: Selection{Rects: revenue().Rects}},
		{name: "whitespace text", setup: func(l *Locator) { l.SetMode(true); l.Open(pdfURL) }, sel: Selection{Text: " \n\t", Rects: revenue().Rects}},
		{name: "zero area", setup: func(l *Locator) { l.SetMode(true); l.Open(pdfURL) }, sel: Selection{Text: "x", Rects: []Rect{{Left: 1, Top: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marker := &recordingMarker{}
			l := NewLocator(new(mocks.MockClient))
			l.Marker = marker
			tt.setup(l)

			_, ok := l.OnSelection(tt.sel, 50)

			assert.False(t, ok)
			assert.Empty(t, l.Pending())
			assert.Empty(t, marker.marked)
		})
	}
}

func TestOnSelection_Records(t *testing.T) {
	marker := &recordingMarker{}
	l := NewLocator(new(mocks.MockClient))
	l.Marker = marker
	l.SetMode(true)
	l.Open(pdfURL)

	h, ok := l.OnSelection(revenue(), 400)

	require.True(t, ok)
	assert.Equal(t, model.Highlight{
		Text:  "Revenue grew",
		Start: model.Point{X: 30, Y: 500},
		End:   model.Point{X: 240, Y: 530},
		PDF:   pdfURL,
	}, h)
	assert.Equal(t, []model.Highlight{h}, l.Pending())
	assert.Equal(t, []Rect{{Left: 30, Top: 100, Width: 210, Height: 30}}, marker.marked)
}

func TestScrollInvariance(t *testing.T) {
	view := Rect{Left: 12, Top: 80, Width: 100, Height: 20}

	for _, scroll := range []float64{0, 1, 250.5, 12000} {
		start0, _ := ToDocument(view, 0)
		startS, endS := ToDocument(view, scroll)

		assert.Equal(t, scroll, startS.Y-start0.Y)
		assert.Equal(t, start0.X, startS.X)
		assert.Equal(t, view, ToViewport(model.Highlight{Start: startS, End: endS}, scroll))
	}
}

func TestOpen_SwitchClearsWorkingList(t *testing.T) {
	l := NewLocator(new(mocks.MockClient))
	l.SetMode(true)
	l.Open(pdfURL)
	l.OnSelection(revenue(), 0)

	l.Open(pdfURL)
	assert.Len(t, l.Pending(), 1)

	l.Open("http://localhost:8080/uploads/ReportsQ1/b.pdf")
	assert.Empty(t, l.Pending())
}

func TestSave(t *testing.T) {
	t.Run("nothing to save makes no call", func(t *testing.T) {
		m := new(mocks.MockClient)
		l := NewLocator(m)

		err := l.Save(context.Background())

		assert.ErrorIs(t, err, ErrNothingToSave)
		m.AssertNotCalled(t, "SaveHighlights", mock.Anything, mock.Anything)
	})

	t.Run("success clears", func(t *testing.T) {
		m := new(mocks.MockClient)
		l := NewLocator(m)
		l.SetMode(true)
		l.Open(pdfURL)
		l.OnSelection(revenue(), 0)
		l.OnSelection(revenue(), 100)

		m.On("SaveHighlights", mock.Anything, mock.MatchedBy(func(hs []model.Highlight) bool {
			return len(hs) == 2 && hs[1].Start.Y-hs[0].Start.Y == 100
		})).Return(nil).Once()

		require.NoError(t, l.Save(context.Background()))
		assert.Empty(t, l.Pending())
		m.AssertExpectations(t)
	})

	t.Run("failure keeps the list", func(t *testing.T) {
		m := new(mocks.MockClient)
		l := NewLocator(m)
		l.SetMode(true)
		l.Open(pdfURL)
		l.OnSelection(revenue(), 0)

		m.On("SaveHighlights", mock.Anything, mock.Anything).Return(errors.New("unreachable")).Once()

		assert.Error(t, l.Save(context.Background()))
		assert.Len(t, l.Pending(), 1)
	})
}

func TestPendingIsACopy(t *testing.T) {
	l := NewLocator(new(mocks.MockClient))
	l.SetMode(true)
	l.Open(pdfURL)
	l.OnSelection(revenue(), 0)

	p := l.Pending()
	p[0].Text = "changed"

	assert.Equal(t, "Revenue grew", l.Pending()[0].Text)
}
