package mocks

import (
	"context"

	"snipdesk/internal/client"
	"snipdesk/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockClient stands in for client.Client in the desktop-side packages.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) ListFolders(ctx context.Context) ([]model.Folder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockClient) UploadFolder(ctx context.Context, name string, files []client.File) (*model.Folder, error) {
	args := m.Called(ctx, name, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockClient) DeleteFolder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClient) ListPDFs(ctx context.Context, folder string) ([]model.PDF, error) {
	args := m.Called(ctx, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PDF), args.Error(1)
}

func (m *MockClient) ListSnips(ctx context.Context, folder string) ([]model.Snip, error) {
	args := m.Called(ctx, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Snip), args.Error(1)
}

func (m *MockClient) SaveSnip(ctx context.Context, u client.SnipUpload) (*model.Snip, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snip), args.Error(1)
}

func (m *MockClient) DeleteSnip(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClient) ListHighlights(ctx context.Context, pdf string) ([]model.Highlight, error) {
	args := m.Called(ctx, pdf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Highlight), args.Error(1)
}

func (m *MockClient) SaveHighlights(ctx context.Context, highlights []model.Highlight) error {
	args := m.Called(ctx, highlights)
	return args.Error(0)
}

func (m *MockClient) StartCapture(ctx context.Context, folder string) (string, error) {
	args := m.Called(ctx, folder)
	return args.String(0), args.Error(1)
}

func (m *MockClient) FetchImage(ctx context.Context, locator string) (client.File, error) {
	args := m.Called(ctx, locator)
	return args.Get(0).(client.File), args.Error(1)
}

var (
	_ client.AssociationStore = (*MockClient)(nil)
	_ client.Registry         = (*MockClient)(nil)
)

func (m *MockClient) UploadPDF(ctx context.Context, folder string, f client.File) (*model.PDF, error) {
	args := m.Called(ctx, folder, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PDF), args.Error(1)
}

func (m *MockClient) WhoAmI(ctx context.Context) (model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return model.Anonymous{}, args.Error(1)
	}
	return args.Get(0).(model.User), args.Error(1)
}
