package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"snipdesk/internal/apperr"
	"snipdesk/internal/events"
	"snipdesk/internal/model"
	"snipdesk/internal/repository"
)

// HighlightService stores text selections made on PDFs.
type HighlightService interface {
	List(ctx context.Context, pdf string) ([]model.Highlight, error)

	// SaveBatch stores every highlight or none. It returns how many were saved.
	SaveBatch(ctx context.Context, highlights []model.Highlight) (int, error)
}

type highlightService struct {
	repo repository.HighlightRepository
	pub  events.Publisher
	log  zerolog.Logger
}

func NewHighlightService(repo repository.HighlightRepository, pub events.Publisher, log zerolog.Logger) HighlightService {
	return &highlightService{
		repo: repo,
		pub:  pub,
		log:  log.With().Str("component", "highlight_service").Logger(),
	}
}

func (s *highlightService) List(ctx context.Context, pdf string) ([]model.Highlight, error) {
	pdf = strings.TrimSpace(pdf)
	if pdf == "" {
		return nil, &apperr.ValidationError{Field: "pdf", Reason: "is required"}
	}
	return s.repo.ListByPDF(ctx, pdf)
}

func (s *highlightService) SaveBatch(ctx context.Context, highlights []model.Highlight) (int, error) {
	if len(highlights) == 0 {
		return 0, ErrNothingToSave
	}
	perPDF := make(map[string]int)
	var order []string
	for i, h := range highlights {
		if strings.TrimSpace(h.PDF) == "" {
			return 0, &apperr.ValidationError{Field: fmt.Sprintf("highlights[%d].pdf", i), Reason: "is required"}
		}
		if strings.TrimSpace(h.Text) == "" {
			return 0, &apperr.ValidationError{Field: fmt.Sprintf("highlights[%d].text", i), Reason: "is required"}
		}
		if perPDF[h.PDF] == 0 {
			order = append(order, h.PDF)
		}
		perPDF[h.PDF]++
	}

	if err := s.repo.CreateBatch(ctx, highlights); err != nil {
		return 0, err
	}
	for _, pdf := range order {
		broadcast(ctx, s.pub, s.log, events.Event{Type: events.HighlightsSaved, ResourceID: pdf, Count: perPDF[pdf]})
	}
	return len(highlights), nil
}
