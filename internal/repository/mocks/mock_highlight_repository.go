package mocks

import (
	"context"

	"snipdesk/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockHighlightRepository struct {
	mock.Mock
}

func (m *MockHighlightRepository) CreateBatch(ctx context.Context, highlights []model.Highlight) error {
	args := m.Called(ctx, highlights)
	return args.Error(0)
}

func (m *MockHighlightRepository) ListByPDF(ctx context.Context, pdfURL string) ([]model.Highlight, error) {
	args := m.Called(ctx, pdfURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Highlight), args.Error(1)
}
