package mocks

import (
	"context"
	"io"
	"time"

	"snipdesk/internal/model"
	"snipdesk/internal/service"
	"snipdesk/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockFolderService struct {
	mock.Mock
}

func (m *MockFolderService) List(ctx context.Context) ([]model.Folder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderService) Upload(ctx context.Context, name string, files []service.File) (*model.Folder, error) {
	args := m.Called(ctx, name, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFolderService) Resolve(ctx context.Context, ref string) (*model.Folder, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

type MockPDFService struct {
	mock.Mock
}

func (m *MockPDFService) List(ctx context.Context, folder string) ([]model.PDF, error) {
	args := m.Called(ctx, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PDF), args.Error(1)
}

func (m *MockPDFService) Upload(ctx context.Context, folder string, f service.File) (*model.PDF, error) {
	args := m.Called(ctx, folder, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PDF), args.Error(1)
}

func (m *MockPDFService) Open(ctx context.Context, folder, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, folder, filename)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

type MockSnipService struct {
	mock.Mock
}

func (m *MockSnipService) Save(ctx context.Context, u service.SnipUpload) (*model.Snip, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snip), args.Error(1)
}

func (m *MockSnipService) List(ctx context.Context, folder string) ([]model.Snip, error) {
	args := m.Called(ctx, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Snip), args.Error(1)
}

func (m *MockSnipService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSnipService) Open(ctx context.Context, folder, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, folder, filename)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

type MockHighlightService struct {
	mock.Mock
}

func (m *MockHighlightService) List(ctx context.Context, pdf string) ([]model.Highlight, error) {
	args := m.Called(ctx, pdf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Highlight), args.Error(1)
}

func (m *MockHighlightService) SaveBatch(ctx context.Context, highlights []model.Highlight) (int, error) {
	args := m.Called(ctx, highlights)
	return args.Int(0), args.Error(1)
}

type MockCaptureService struct {
	mock.Mock
}

func (m *MockCaptureService) Start(ctx context.Context, folder string) (string, error) {
	args := m.Called(ctx, folder)
	return args.String(0), args.Error(1)
}

func (m *MockCaptureService) Open(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockCaptureService) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	args := m.Called(ctx, maxAge)
	return args.Int(0), args.Error(1)
}
