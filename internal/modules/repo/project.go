package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/slyt3/pagedrop/internal/modules/model"
	"github.com/slyt3/pagedrop/internal/pkg/utils"
	"gorm.io/gorm"
)

// ErrSlugConflict is returned when a generated slug already exists.
var ErrSlugConflict = errors.New("slug already exists")

// FileInsertError reports that the project row of CreateWithFile was written
// but its file row was not. The transaction has been rolled back.
type FileInsertError struct {
	Slug string
	Err  error
}

func (e *FileInsertError) Error() string {
	return fmt.Sprintf("insert file for project %s: %v", e.Slug, e.Err)
}

func (e *FileInsertError) Unwrap() error { return e.Err }

type ProjectRepo interface {
	InsertProject(ctx context.Context, name, entryPoint string) (*model.Project, error)
	InsertFile(ctx context.Context, f *model.File) error
	FindProjectBySlug(ctx context.Context, slug string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]*model.Project, error)
	FindFirstFileByProject(ctx context.Context, projectID int64) (*model.File, error)
	SetActive(ctx context.Context, slug string, active bool) error
	DeleteFilesByProject(ctx context.Context, projectID int64) error
	DeleteProjectBySlug(ctx context.Context, slug string) error

	CreateWithFile(ctx context.Context, name, entryPoint string, f *model.File) (*model.Project, error)
	DeleteWithFiles(ctx context.Context, p *model.Project) error
	ListOrphanProjects(ctx context.Context) ([]*model.Project, error)
}

type projectRepo struct {
	db      *gorm.DB
	newSlug utils.SlugFunc
}

func NewProjectRepo(db *gorm.DB, newSlug utils.SlugFunc) ProjectRepo {
	if newSlug == nil {
		newSlug = utils.GenerateSlug
	}
	return &projectRepo{db: db, newSlug: newSlug}
}

func (r *projectRepo) withTx(tx *gorm.DB) *projectRepo {
	return &projectRepo{db: tx, newSlug: r.newSlug}
}

func (r *projectRepo) InsertProject(ctx context.Context, name, entryPoint string) (*model.Project, error) {
	slug, err := r.newSlug()
	if err != nil {
		return nil, fmt.Errorf("generate slug: %w", err)
	}

	p := &model.Project{
		Slug:       slug,
		Name:       name,
		EntryPoint: entryPoint,
		IsActive:   true,
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrSlugConflict, slug)
		}
		return nil, err
	}
	return p, nil
}

func (r *projectRepo) InsertFile(ctx context.Context, f *model.File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *projectRepo) FindProjectBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) ListProjects(ctx context.Context) ([]*model.Project, error) {
	var items []*model.Project
	return items, r.db.WithContext(ctx).Order("id DESC").Find(&items).Error
}

func (r *projectRepo) FindFirstFileByProject(ctx context.Context, projectID int64) (*model.File, error) {
	var f model.File
	// insertion order is the only ordering a project's files have
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id ASC").First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *projectRepo) SetActive(ctx context.Context, slug string, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Project{}).Where("slug = ?", slug).Update("is_active", active).Error
}

func (r *projectRepo) DeleteFilesByProject(ctx context.Context, projectID int64) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.File{}).Error
}

func (r *projectRepo) DeleteProjectBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&model.Project{}).Error
}

func (r *projectRepo) CreateWithFile(ctx context.Context, name, entryPoint string, f *model.File) (*model.Project, error) {
	var created *model.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t := r.withTx(tx)

		p, err := t.InsertProject(ctx, name, entryPoint)
		if err != nil {
			return err
		}

		f.ProjectID = p.ID
		if err := t.InsertFile(ctx, f); err != nil {
			return &FileInsertError{Slug: p.Slug, Err: err}
		}

		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *projectRepo) DeleteWithFiles(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t := r.withTx(tx)

		// files go first, the project row is still referenced until then
		if err := t.DeleteFilesByProject(ctx, p.ID); err != nil {
			return fmt.Errorf("delete files: %w", err)
		}
		if err := t.DeleteProjectBySlug(ctx, p.Slug); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		return nil
	})
}

func (r *projectRepo) ListOrphanProjects(ctx context.Context) ([]*model.Project, error) {
	var items []*model.Project
	return items, r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM files WHERE files.project_id = projects.id)").
		Order("id DESC").
		Find(&items).Error
}
