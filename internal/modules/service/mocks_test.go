package service

import (
	"context"

	"github.com/slyt3/pagedrop/internal/modules/model"
	"github.com/stretchr/testify/mock"
)

// MockProjectRepo is a mock implementation of repo.ProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) InsertProject(ctx context.Context, name, entryPoint string) (*model.Project, error) {
	args := m.Called(ctx, name, entryPoint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) InsertFile(ctx context.Context, f *model.File) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockProjectRepo) FindProjectBySlug(ctx context.Context, slug string) (*model.Project, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) ListProjects(ctx context.Context) ([]*model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

func (m *MockProjectRepo) FindFirstFileByProject(ctx context.Context, projectID int64) (*model.File, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockProjectRepo) SetActive(ctx context.Context, slug string, active bool) error {
	args := m.Called(ctx, slug, active)
	return args.Error(0)
}

func (m *MockProjectRepo) DeleteFilesByProject(ctx context.Context, projectID int64) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *MockProjectRepo) DeleteProjectBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockProjectRepo) CreateWithFile(ctx context.Context, name, entryPoint string, f *model.File) (*model.Project, error) {
	args := m.Called(ctx, name, entryPoint, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) DeleteWithFiles(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) ListOrphanProjects(ctx context.Context) ([]*model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

// MockContentCache is a mock implementation of repo.ContentCache
type MockContentCache struct {
	mock.Mock
}

func (m *MockContentCache) Get(ctx context.Context, projectID int64) (string, bool, error) {
	args := m.Called(ctx, projectID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockContentCache) Set(ctx context.Context, projectID int64, content string) error {
	args := m.Called(ctx, projectID, content)
	return args.Error(0)
}

func (m *MockContentCache) Delete(ctx context.Context, projectID int64) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

// MockArchiver is a mock implementation of blob.Archiver
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Archive(ctx context.Context, slug string, f *model.File) error {
	args := m.Called(ctx, slug, f)
	return args.Error(0)
}

func (m *MockArchiver) Remove(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockPublisher is a mock implementation of mq.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev model.ProjectEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}
