package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/slyt3/pagedrop/internal/infra/blob"
	"github.com/slyt3/pagedrop/internal/infra/mq"
	"github.com/slyt3/pagedrop/internal/modules/model"
	"github.com/slyt3/pagedrop/internal/modules/repo"
	"go.uber.org/zap"
)

const (
	MaxProjectNameLength = 50
	MaxFileSize          = 5 << 20
	HTMLExtension        = ".html"

	// slugAttempts bounds CreateWithFile retries on slug collisions.
	slugAttempts = 3
)

// UploadedFile is the artifact of an upload request. Size is the size declared
// by the client and must equal the number of bytes in Body.
type UploadedFile struct {
	Name string
	Size int64
	Body io.Reader
}

type CreateOutput struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ProjectService interface {
	Create(ctx context.Context, name string, file *UploadedFile) (*CreateOutput, error)
	ToggleActive(ctx context.Context, slug string) (bool, error)
	Delete(ctx context.Context, slug string) error
	List(ctx context.Context) ([]*model.Project, error)
	FindOrphans(ctx context.Context) ([]*model.Project, error)
}

type projectService struct {
	r       repo.ProjectRepo
	cache   repo.ContentCache
	archive blob.Archiver
	events  mq.Publisher
	log     *zap.Logger
	now     func() time.Time
}

func NewProjectService(r repo.ProjectRepo, cache repo.ContentCache, archive blob.Archiver, events mq.Publisher, log *zap.Logger) ProjectService {
	return &projectService{
		r:       r,
		cache:   cache,
		archive: archive,
		events:  events,
		log:     log,
		now:     time.Now,
	}
}

// ProjectURL is the public path a project is served under.
func ProjectURL(slug string) string {
	return "/projects/" + slug + "/"
}

func validateUpload(name string, file *UploadedFile) error {
	switch {
	case file == nil:
		return invalidInput("no file selected")
	case strings.TrimSpace(name) == "":
		return invalidInput("project name is required")
	case utf8.RuneCountInString(name) > MaxProjectNameLength:
		return invalidInput(fmt.Sprintf("project name must not exceed %d characters", MaxProjectNameLength))
	case !strings.HasSuffix(file.Name, HTMLExtension):
		return invalidInput("only HTML files are supported")
	case file.Size > MaxFileSize:
		return invalidInput("file size must not exceed 5MB")
	case file.Size <= 0:
		return invalidInput("file must not be empty")
	}
	return nil
}

func (s *projectService) Create(ctx context.Context, name string, file *UploadedFile) (*CreateOutput, error) {
	if err := validateUpload(name, file); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(io.LimitReader(file.Body, MaxFileSize+1))
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Msg: "could not read uploaded file", Err: err}
	}
	if int64(len(content)) != file.Size {
		return nil, invalidInput("file size does not match content")
	}

	f := &model.File{
		Filename:     fmt.Sprintf("file_%d.html", s.now().UnixMilli()),
		OriginalName: file.Name,
		Content:      string(content),
		Size:         file.Size,
	}

	var p *model.Project
	for attempt := 1; ; attempt++ {
		p, err = s.r.CreateWithFile(ctx, name, file.Name, f)
		if err == nil {
			break
		}
		if !errors.Is(err, repo.ErrSlugConflict) {
			return nil, s.createFailure(ctx, err)
		}
		if attempt >= slugAttempts {
			return nil, storage("could not allocate a unique slug", "", err)
		}
		s.log.Sugar().Debugw("slug collision, retrying", "attempt", attempt, "err", err)
		f.ID, f.ProjectID = 0, 0
	}

	if err := s.archive.Archive(ctx, p.Slug, f); err != nil {
		s.log.Sugar().Warnw("archive project file", "slug", p.Slug, "err", err)
	}
	s.publish(ctx, model.NewProjectEvent(model.EventProjectCreated, p))

	return &CreateOutput{
		ID:   p.ID,
		Slug: p.Slug,
		Name: name,
		URL:  ProjectURL(p.Slug),
	}, nil
}

func (s *projectService) createFailure(ctx context.Context, err error) error {
	var fie *repo.FileInsertError
	if !errors.As(err, &fie) {
		return storage("create project", "", err)
	}

	s.log.Sugar().Errorw("project stored without file", "slug", fie.Slug, "err", fie.Err)
	ev := model.NewProjectEvent(model.EventProjectIntegrity, &model.Project{Slug: fie.Slug})
	ev.Reason = fie.Err.Error()
	s.publish(ctx, ev)

	return integrity(fie.Slug, err)
}

func (s *projectService) ToggleActive(ctx context.Context, slug string) (bool, error) {
	p, err := findProject(ctx, s.r, slug)
	if err != nil {
		return false, err
	}

	active := !p.IsActive
	if err := s.r.SetActive(ctx, slug, active); err != nil {
		return false, storage("set active", slug, err)
	}

	p.IsActive = active
	ev := model.NewProjectEvent(model.EventProjectToggled, p)
	ev.IsActive = &active
	s.publish(ctx, ev)

	return active, nil
}

func (s *projectService) Delete(ctx context.Context, slug string) error {
	p, err := findProject(ctx, s.r, slug)
	if err != nil {
		return err
	}

	if err := s.r.DeleteWithFiles(ctx, p); err != nil {
		return storage("delete project", slug, err)
	}

	if err := s.cache.Delete(ctx, p.ID); err != nil {
		s.log.Sugar().Warnw("evict cached content", "slug", slug, "err", err)
	}
	if err := s.archive.Remove(ctx, slug); err != nil {
		s.log.Sugar().Warnw("remove archived files", "slug", slug, "err", err)
	}
	s.publish(ctx, model.NewProjectEvent(model.EventProjectDeleted, p))

	return nil
}

func (s *projectService) List(ctx context.Context) ([]*model.Project, error) {
	items, err := s.r.ListProjects(ctx)
	if err != nil {
		return nil, storage("list projects", "", err)
	}
	return items, nil
}

// FindOrphans lists projects that have no file row and can never be served.
func (s *projectService) FindOrphans(ctx context.Context) ([]*model.Project, error) {
	items, err := s.r.ListOrphanProjects(ctx)
	if err != nil {
		return nil, storage("list orphan projects", "", err)
	}
	return items, nil
}

func (s *projectService) publish(ctx context.Context, ev model.ProjectEvent) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Sugar().Warnw("publish project event", "type", ev.Type, "slug", ev.Slug, "err", err)
	}
}
