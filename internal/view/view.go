// Package view assembles stored snips, PDFs and highlights into what the desktop renders.
package view

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"snipdesk/internal/apperr"
	"snipdesk/internal/highlight"
	"snipdesk/internal/model"
)

// Source is the read side of the registry and association store.
type Source interface {
	ListPDFs(ctx context.Context, folder string) ([]model.PDF, error)
	ListSnips(ctx context.Context, folder string) ([]model.Snip, error)
	ListHighlights(ctx context.Context, pdf string) ([]model.Highlight, error)
}

// Gallery is everything shown for one folder.
type Gallery struct {
	Folder string
	PDFs   []model.PDF
	Snips  []model.Snip
}

// Overlay is a highlight positioned in the current viewport.
type Overlay struct {
	Text   string  `json:"text"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Projector struct {
	src Source
}

func New(src Source) *Projector {
	return &Projector{src: src}
}

// Gallery fetches a folder's PDFs and snips concurrently. Snips are newest first.
func (p *Projector) Gallery(ctx context.Context, folder string) (*Gallery, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return nil, &apperr.ValidationError{Field: "folder", Reason: "must not be empty"}
	}

	g, gctx := errgroup.WithContext(ctx)
	out := &Gallery{Folder: folder}

	g.Go(func() error {
		pdfs, err := p.src.ListPDFs(gctx, folder)
		out.PDFs = pdfs
		return err
	})
	g.Go(func() error {
		snips, err := p.src.ListSnips(gctx, folder)
		out.Snips = snips
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(out.Snips, func(i, j int) bool {
		return out.Snips[i].CreatedAt.After(out.Snips[j].CreatedAt)
	})
	return out, nil
}

// Overlays positions every stored highlight of pdf for the viewer's current scroll offset.
func (p *Projector) Overlays(ctx context.Context, pdf string, scrollTop float64) ([]Overlay, error) {
	hs, err := p.src.ListHighlights(ctx, pdf)
	if err != nil {
		return nil, err
	}

	out := make([]Overlay, 0, len(hs))
	for _, h := range hs {
		r := highlight.ToViewport(h, scrollTop)
		out = append(out, Overlay{Text: h.Text, Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height})
	}
	return out, nil
}
