// Package cli is the desktop host behind snipctl. Every operation takes its folder
// explicitly; there is no remembered selection.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"snipdesk/internal/apperr"
	"snipdesk/internal/client"
	"snipdesk/internal/highlight"
	"snipdesk/internal/model"
	"snipdesk/internal/snip"
	"snipdesk/internal/view"
)

// Backend is the subset of client.Client the commands use.
type Backend interface {
	client.AssociationStore
	client.Registry
	snip.Source
	UploadPDF(ctx context.Context, folder string, f client.File) (*model.PDF, error)
	WhoAmI(ctx context.Context) (model.User, error)
}

var _ Backend = (*client.Client)(nil)

// maxPrompts bounds how often a rejected snip field is asked for again.
const maxPrompts = 3

type App struct {
	backend  Backend
	capturer *snip.Capturer
	session  *snip.Session
	locator  *highlight.Locator
	view     *view.Projector

	out      io.Writer
	in       *bufio.Reader
	log      zerolog.Logger
	copyText func(string) error
}

// NewApp wires the pipeline over backend. in may be nil for non-interactive use.
func NewApp(backend Backend, in io.Reader, out io.Writer, log zerolog.Logger) *App {
	a := &App{
		backend:  backend,
		capturer: snip.NewCapturer(backend),
		session:  snip.NewSession(backend),
		locator:  highlight.NewLocator(backend),
		view:     view.New(backend),
		out:      out,
		log:      log,
		copyText: clipboard.WriteAll,
	}
	if in != nil {
		a.in = bufio.NewReader(in)
	}
	a.capturer.Notify = func(msg string) { fmt.Fprintln(a.out, msg) }
	return a
}

func (a *App) ListFolders(ctx context.Context) error {
	folders, err := a.backend.ListFolders(ctx)
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		fmt.Fprintln(a.out, "No folders.")
		return nil
	}
	for _, f := range folders {
		fmt.Fprintf(a.out, "%s  %-24s %3d files  %s\n", f.ID, f.Name, f.FileCount, f.UploadDate.Format(model.TimestampLayout))
	}
	return nil
}

// UploadFolder uploads the given files. A directory argument contributes its regular files.
func (a *App) UploadFolder(ctx context.Context, name string, paths []string) error {
	files, err := readFiles(paths)
	if err != nil {
		return err
	}
	folder, err := a.backend.UploadFolder(ctx, name, files)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded folder %s (%s) with %d PDFs\n", folder.Name, folder.ID, folder.FileCount)
	return nil
}

func (a *App) DeleteFolder(ctx context.Context, id string) error {
	if err := a.backend.DeleteFolder(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted folder %s\n", id)
	return nil
}

func (a *App) ListPDFs(ctx context.Context, folder string) error {
	pdfs, err := a.backend.ListPDFs(ctx, folder)
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		fmt.Fprintln(a.out, "No PDFs.")
		return nil
	}
	for _, p := range pdfs {
		fmt.Fprintf(a.out, "%-32s %s\n", p.Filename, p.URL)
	}
	return nil
}

func (a *App) UploadPDF(ctx context.Context, folder, path string) error {
	files, err := readFiles([]string{path})
	if err != nil {
		return err
	}
	if len(files) != 1 {
		return fmt.Errorf("%s is not a single file", path)
	}
	pdf, err := a.backend.UploadPDF(ctx, folder, files[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %s\n%s\n", pdf.Filename, pdf.URL)
	return nil
}

// SnipOptions are the metadata given up front. Empty Timestamp keeps the capture time.
type SnipOptions struct {
	Folder      string
	Title       string
	Description string
	Timestamp   string
	Copy        bool
}

// Snip captures a screenshot, annotates it and saves it. When input is available a
// rejected title or timestamp is asked for again; otherwise the draft is dropped.
func (a *App) Snip(ctx context.Context, opts SnipOptions) error {
	h, err := a.capturer.Capture(ctx, opts.Folder)
	if err != nil {
		return err
	}

	a.session.Begin(h.Folder, h.Image)
	defer a.session.Discard()

	edit := snip.Edit{Title: &opts.Title, Description: &opts.Description}
	if opts.Timestamp != "" {
		edit.Timestamp = &opts.Timestamp
	}
	a.session.Edit(edit)

	var saved *model.Snip
	for attempt := 0; ; attempt++ {
		saved, err = a.session.Commit(ctx)
		var verr *apperr.ValidationError
		if !errors.As(err, &verr) || a.in == nil || attempt >= maxPrompts {
			break
		}
		value, perr := a.prompt(verr)
		if perr != nil {
			return err
		}
		switch verr.Field {
		case "timestamp":
			a.session.Edit(snip.Edit{Timestamp: &value})
		default:
			a.session.Edit(snip.Edit{Title: &value})
		}
	}
	if err != nil {
		return err
	}

	a.log.Info().Str("event", "snip_saved").Str("snip_id", saved.ID).Str("folder", saved.Folder).Send()
	fmt.Fprintf(a.out, "Saved snip %q (%s) at %s\n%s\n", saved.Title, saved.ID, saved.Timestamp, saved.URL)

	if opts.Copy && saved.URL != "" {
		if err := a.copyText(saved.URL); err != nil {
			a.log.Warn().Str("event", "clipboard_failed").Err(err).Send()
		} else {
			fmt.Fprintln(a.out, "URL copied to clipboard.")
		}
	}
	return nil
}

func (a *App) prompt(verr *apperr.ValidationError) (string, error) {
	label := "Title"
	if verr.Field == "timestamp" {
		label = "Timestamp (" + model.TimestampLayout + ")"
	}
	if d, ok := a.session.Draft(); ok && verr.Field == "timestamp" {
		label += " [" + d.Timestamp + "]"
	}
	fmt.Fprintf(a.out, "%s: %s: ", verr.Reason, label)

	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) ListSnips(ctx context.Context, folder string) error {
	snips, err := a.backend.ListSnips(ctx, folder)
	if err != nil {
		return err
	}
	a.printSnips(snips)
	return nil
}

func (a *App) printSnips(snips []model.Snip) {
	if len(snips) == 0 {
		fmt.Fprintln(a.out, "No snips.")
		return
	}
	for _, s := range snips {
		fmt.Fprintf(a.out, "%s  %s  %s\n", s.ID, s.Timestamp, s.Title)
		if s.Description != "" {
			fmt.Fprintf(a.out, "    %s\n", s.Description)
		}
	}
}

func (a *App) DeleteSnip(ctx context.Context, id string) error {
	if err := a.backend.DeleteSnip(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted snip %s\n", id)
	return nil
}

// ListHighlights prints the stored highlights of pdf positioned for scrollTop.
func (a *App) ListHighlights(ctx context.Context, pdf string, scrollTop float64) error {
	overlays, err := a.view.Overlays(ctx, pdf, scrollTop)
	if err != nil {
		return err
	}
	if len(overlays) == 0 {
		fmt.Fprintln(a.out, "No highlights.")
		return nil
	}
	for _, o := range overlays {
		fmt.Fprintf(a.out, "%q at %g,%g %gx%g\n", o.Text, o.Left, o.Top, o.Width, o.Height)
	}
	return nil
}

// AddHighlight records one selection made at scrollTop and saves it.
func (a *App) AddHighlight(ctx context.Context, pdf, text string, rects []highlight.Rect, scrollTop float64) error {
	a.locator.SetMode(true)
	a.locator.Open(pdf)

	h, ok := a.locator.OnSelection(highlight.Selection{Text: text, Rects: rects}, scrollTop)
	if !ok {
		return &apperr.ValidationError{Field: "selection", Reason: "needs text and a rect with area"}
	}
	if err := a.locator.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved highlight %q from %g,%g to %g,%g\n", h.Text, h.Start.X, h.Start.Y, h.End.X, h.End.Y)
	return nil
}

func (a *App) Gallery(ctx context.Context, folder string) error {
	g, err := a.view.Gallery(ctx, folder)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n\nPDFs (%d)\n", g.Folder, len(g.PDFs))
	for _, p := range g.PDFs {
		fmt.Fprintf(a.out, "  %s\n", p.Filename)
	}
	fmt.Fprintf(a.out, "\nSnips (%d)\n", len(g.Snips))
	for _, s := range g.Snips {
		fmt.Fprintf(a.out, "  %s  %s\n", s.Timestamp, s.Title)
	}
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.backend.WhoAmI(ctx)
	if err != nil {
		return err
	}
	switch u := u.(type) {
	case model.Authenticated:
		fmt.Fprintf(a.out, "%s (%s)\n", u.Email, u.ID)
	default:
		fmt.Fprintln(a.out, "anonymous")
	}
	return nil
}

// ParseRect reads "left,top,width,height".
func ParseRect(s string) (highlight.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return highlight.Rect{}, fmt.Errorf("rect %q: want left,top,width,height", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return highlight.Rect{}, fmt.Errorf("rect %q: %w", s, err)
		}
		v[i] = f
	}
	return highlight.Rect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}, nil
}

func readFiles(paths []string) ([]client.File, error) {
	var files []client.File
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			f, err := readFile(p)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			f, err := readFile(filepath.Join(p, e.Name()))
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func readFile(path string) (client.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return client.File{}, err
	}
	name := filepath.Base(path)
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return client.File{Name: name, ContentType: ct, Data: data}, nil
}
