package service

import (
	"context"
	"errors"

	"github.com/slyt3/pagedrop/internal/modules/model"
	"github.com/slyt3/pagedrop/internal/modules/repo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Delivery is servable project content plus the headers it must be sent with.
type Delivery struct {
	Content      string
	ContentType  string
	CacheControl string
}

type DeliveryService interface {
	Resolve(ctx context.Context, slug string) (*Delivery, error)
}

type deliveryService struct {
	r     repo.ProjectRepo
	cache repo.ContentCache
	log   *zap.Logger
}

func NewDeliveryService(r repo.ProjectRepo, cache repo.ContentCache, log *zap.Logger) DeliveryService {
	return &deliveryService{r: r, cache: cache, log: log}
}

// Resolve checks existence, then activation, then content. Activation comes
// before any content lookup so an inactive project never tells whether it has content.
func (s *deliveryService) Resolve(ctx context.Context, slug string) (*Delivery, error) {
	p, err := findProject(ctx, s.r, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, forbidden(slug)
	}

	content, err := s.content(ctx, p)
	if err != nil {
		return nil, err
	}

	return &Delivery{
		Content:      content,
		ContentType:  model.HTMLContentType,
		CacheControl: "no-cache",
	}, nil
}

func (s *deliveryService) content(ctx context.Context, p *model.Project) (string, error) {
	cached, ok, err := s.cache.Get(ctx, p.ID)
	if err != nil {
		s.log.Sugar().Warnw("read content cache", "slug", p.Slug, "err", err)
	}
	if ok {
		return cached, nil
	}

	f, err := s.r.FindFirstFileByProject(ctx, p.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", notFound(p.Slug, "project file not found")
	}
	if err != nil {
		return "", storage("find project file", p.Slug, err)
	}

	if err := s.cache.Set(ctx, p.ID, f.Content); err != nil {
		s.log.Sugar().Warnw("write content cache", "slug", p.Slug, "err", err)
	}
	return f.Content, nil
}
