package mocks

import (
	"context"

	"snipdesk/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) Create(ctx context.Context, folder *model.Folder, pdfs []model.PDF) (*model.Folder, error) {
	args := m.Called(ctx, folder, pdfs)
	if f, ok := args.Get(0).(func(context.Context, *model.Folder, []model.PDF) *model.Folder); ok {
		return f(ctx, folder, pdfs), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) FindByID(ctx context.Context, id string) (*model.Folder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) FindByName(ctx context.Context, name string) (*model.Folder, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) List(ctx context.Context) ([]model.Folder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderRepository) Delete(ctx context.Context, id string, pdfURLs []string) (int64, error) {
	args := m.Called(ctx, id, pdfURLs)
	return args.Get(0).(int64), args.Error(1)
}
