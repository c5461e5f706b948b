package mocks

import (
	"context"

	"snipdesk/internal/model"
	"snipdesk/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockSnipRepository struct {
	mock.Mock
}

func (m *MockSnipRepository) Create(ctx context.Context, s repository.NewSnip) (*model.Snip, error) {
	args := m.Called(ctx, s)
	if f, ok := args.Get(0).(func(repository.NewSnip) *model.Snip); ok {
		return f(s), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snip), args.Error(1)
}

func (m *MockSnipRepository) FindByID(ctx context.Context, id string) (*model.Snip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snip), args.Error(1)
}

func (m *MockSnipRepository) FindByFilename(ctx context.Context, folderID, filename string) (*model.Snip, error) {
	args := m.Called(ctx, folderID, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snip), args.Error(1)
}

func (m *MockSnipRepository) ListByFolder(ctx context.Context, folderID string) ([]model.Snip, error) {
	args := m.Called(ctx, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Snip), args.Error(1)
}

func (m *MockSnipRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
