package mocks

import (
	"context"

	"snipdesk/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPDFRepository struct {
	mock.Mock
}

func (m *MockPDFRepository) Create(ctx context.Context, pdf *model.PDF) (*model.PDF, error) {
	args := m.Called(ctx, pdf)
	if f, ok := args.Get(0).(func(context.Context, *model.PDF) *model.PDF); ok {
		return f(ctx, pdf), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PDF), args.Error(1)
}

func (m *MockPDFRepository) ListByFolder(ctx context.Context, folderID string) ([]model.PDF, error) {
	args := m.Called(ctx, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PDF), args.Error(1)
}

func (m *MockPDFRepository) FindByFilename(ctx context.Context, folderID, filename string) (*model.PDF, error) {
	args := m.Called(ctx, folderID, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PDF), args.Error(1)
}
