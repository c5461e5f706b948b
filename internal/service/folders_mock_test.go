package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"snipdesk/internal/model"
)

// mockFolders stands in for FolderService inside this package, where the
// service/mocks package cannot be imported.
type mockFolders struct {
	mock.Mock
}

func (m *mockFolders) List(ctx context.Context) ([]model.Folder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *mockFolders) Upload(ctx context.Context, name string, files []File) (*model.Folder, error) {
	args := m.Called(ctx, name, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *mockFolders) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockFolders) Resolve(ctx context.Context, ref string) (*model.Folder, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}
