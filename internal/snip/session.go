package snip

import (
	"context"
	"errors"
	"strings"
	"time"

	"snipdesk/internal/apperr"
	"snipdesk/internal/client"
	"snipdesk/internal/model"
)

// ErrNoSession is returned by Commit when no image is being annotated.
var ErrNoSession = errors.New("no snip is being edited")

// Store persists a committed snip.
type Store interface {
	SaveSnip(ctx context.Context, u client.SnipUpload) (*model.Snip, error)
}

// Draft is the uncommitted state of a session.
type Draft struct {
	Folder      string
	Title       string
	Description string
	Timestamp   string
	Image       client.File
}

// Edit changes draft fields. Nil fields are left as they are.
type Edit struct {
	Title       *string
	Description *string
	Timestamp   *string
}

// Session holds at most one uncommitted snip. It is owned by a single interaction
// and is not safe for concurrent use.
type Session struct {
	store Store
	now   func() time.Time
	draft *Draft
}

func NewSession(store Store) *Session {
	return &Session{store: store, now: time.Now}
}

// Begin opens a draft for image, replacing any open one.
func (s *Session) Begin(folder string, image client.File) {
	s.draft = &Draft{
		Folder:    folder,
		Timestamp: model.FormatTimestamp(s.now()),
		Image:     image,
	}
}

func (s *Session) Edit(e Edit) {
	if s.draft == nil {
		return
	}
	if e.Title != nil {
		s.draft.Title = *e.Title
	}
	if e.Description != nil {
		s.draft.Description = *e.Description
	}
	if e.Timestamp != nil {
		s.draft.Timestamp = *e.Timestamp
	}
}

// Commit validates the draft and saves it. The session stays open on any error.
func (s *Session) Commit(ctx context.Context) (*model.Snip, error) {
	if s.draft == nil {
		return nil, ErrNoSession
	}

	title := strings.TrimSpace(s.draft.Title)
	if title == "" {
		return nil, &apperr.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	ts, err := model.ParseTimestamp(s.draft.Timestamp)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "timestamp", Reason: err.Error()}
	}

	saved, err := s.store.SaveSnip(ctx, client.SnipUpload{
		Folder:      s.draft.Folder,
		Title:       title,
		Description: s.draft.Description,
		Timestamp:   model.FormatTimestamp(ts),
		Image:       s.draft.Image,
	})
	if err != nil {
		return nil, err
	}

	s.draft = nil
	return saved, nil
}

func (s *Session) Discard() {
	s.draft = nil
}

func (s *Session) Open() bool {
	return s.draft != nil
}

// Draft returns a copy of the open draft, or false when there is none.
func (s *Session) Draft() (Draft, bool) {
	if s.draft == nil {
		return Draft{}, false
	}
	return *s.draft, true
}
