package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"snipdesk/internal/model"
	"snipdesk/internal/repository"
)

// memDB is an in-memory stand-in for the postgres schema, including its cascades.
type memDB struct {
	mu         sync.Mutex
	folders    map[string]model.Folder
	pdfs       map[string]model.PDF
	snips      map[string]model.Snip
	highlights []model.Highlight
	clock      time.Time
}

func newMemDB() *memDB {
	return &memDB{
		folders: map[string]model.Folder{},
		pdfs:    map[string]model.PDF{},
		snips:   map[string]model.Snip{},
		clock:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) repos() Repos {
	return Repos{Folders: memFolders{db}, PDFs: memPDFs{db}, Snips: memSnips{db}, Highlights: memHighlights{db}}
}

func (db *memDB) countPDFs(folderID string) int {
	n := 0
	for _, p := range db.pdfs {
		if p.FolderID == folderID {
			n++
		}
	}
	return n
}

type memFolders struct{ db *memDB }

func (r memFolders) Create(_ context.Context, f *model.Folder, pdfs []model.PDF) (*model.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.folders {
		if existing.Name == f.Name {
			return nil, repository.ErrConflict
		}
	}
	out := *f
	out.UploadDate = r.db.tick()
	r.db.folders[out.ID] = out
	for _, p := range pdfs {
		p.FolderID = out.ID
		p.FolderName = out.Name
		p.CreatedAt = r.db.tick()
		r.db.pdfs[p.ID] = p
	}
	out.FileCount = len(pdfs)
	return &out, nil
}

func (r memFolders) FindByID(_ context.Context, id string) (*model.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.folders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	f.FileCount = r.db.countPDFs(id)
	return &f, nil
}

func (r memFolders) FindByName(_ context.Context, name string) (*model.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range r.db.folders {
		if f.Name == name {
			f.FileCount = r.db.countPDFs(f.ID)
			return &f, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memFolders) List(context.Context) ([]model.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]model.Folder, 0, len(r.db.folders))
	for _, f := range r.db.folders {
		f.FileCount = r.db.countPDFs(f.ID)
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	return out, nil
}

func (r memFolders) Delete(_ context.Context, id string, urls []string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	drop := make(map[string]bool, len(urls))
	for _, u := range urls {
		drop[u] = true
	}
	var (
		kept    []model.Highlight
		removed int64
	)
	for _, h := range r.db.highlights {
		if drop[h.PDF] {
			removed++
			continue
		}
		kept = append(kept, h)
	}
	r.db.highlights = kept

	delete(r.db.folders, id)
	for k, p := range r.db.pdfs {
		if p.FolderID == id {
			delete(r.db.pdfs, k)
		}
	}
	for k, s := range r.db.snips {
		if s.FolderID == id {
			delete(r.db.snips, k)
		}
	}
	return removed, nil
}

type memPDFs struct{ db *memDB }

func (r memPDFs) Create(_ context.Context, p *model.PDF) (*model.PDF, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := *p
	out.CreatedAt = r.db.tick()
	r.db.pdfs[out.ID] = out
	return &out, nil
}

func (r memPDFs) ListByFolder(_ context.Context, folderID string) ([]model.PDF, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]model.PDF, 0)
	for _, p := range r.db.pdfs {
		if folderID == "" || p.FolderID == folderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

func (r memPDFs) FindByFilename(_ context.Context, folderID, filename string) (*model.PDF, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.pdfs {
		if p.FolderID == folderID && p.Filename == filename {
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

type memSnips struct{ db *memDB }

func (r memSnips) Create(_ context.Context, n repository.NewSnip) (*model.Snip, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.folders[n.FolderID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	s := model.Snip{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Timestamp:   model.FormatTimestamp(n.CapturedAt),
		Filename:    n.Filename,
		Folder:      f.Name,
		CreatedAt:   r.db.tick(),
		FolderID:    n.FolderID,
		StoragePath: n.StoragePath,
	}
	r.db.snips[s.ID] = s
	return &s, nil
}

func (r memSnips) FindByID(_ context.Context, id string) (*model.Snip, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.snips[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (r memSnips) FindByFilename(_ context.Context, folderID, filename string) (*model.Snip, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.snips {
		if s.FolderID == folderID && s.Filename == filename {
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memSnips) ListByFolder(_ context.Context, folderID string) ([]model.Snip, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]model.Snip, 0)
	for _, s := range r.db.snips {
		if s.FolderID == folderID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memSnips) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.snips, id)
	return nil
}

type memHighlights struct{ db *memDB }

func (r memHighlights) CreateBatch(_ context.Context, hs []model.Highlight) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.highlights = append(r.db.highlights, hs...)
	return nil
}

func (r memHighlights) ListByPDF(_ context.Context, pdf string) ([]model.Highlight, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]model.Highlight, 0)
	for _, h := range r.db.highlights {
		if h.PDF == pdf {
			out = append(out, h)
		}
	}
	return out, nil
}
