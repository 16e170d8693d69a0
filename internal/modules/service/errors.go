package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/slyt3/pagedrop/internal/modules/model"
	"github.com/slyt3/pagedrop/internal/modules/repo"
	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "invalid_input"
	KindNotFound           ErrorKind = "not_found"
	KindForbidden          ErrorKind = "forbidden"
	KindIntegrity          ErrorKind = "integrity_error"
	KindStorageUnavailable ErrorKind = "storage_unavailable"
)

// Error is the only error type returned by the services.
// Msg is safe to show to callers for InvalidInput, NotFound and Forbidden.
type Error struct {
	Kind ErrorKind
	Msg  string
	Slug string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf classifies err. Errors not produced by this package count as storage failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorageUnavailable
}

func IsKind(err error, k ErrorKind) bool {
	return err != nil && KindOf(err) == k
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg}
}

func notFound(slug, msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg, Slug: slug}
}

func forbidden(slug string) *Error {
	return &Error{Kind: KindForbidden, Msg: "project is deactivated", Slug: slug}
}

func integrity(slug string, err error) *Error {
	return &Error{Kind: KindIntegrity, Msg: "project was stored without its file", Slug: slug, Err: err}
}

func storage(op, slug string, err error) *Error {
	return &Error{Kind: KindStorageUnavailable, Msg: op, Slug: slug, Err: err}
}

func findProject(ctx context.Context, r repo.ProjectRepo, slug string) (*model.Project, error) {
	p, err := r.FindProjectBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(slug, "project not found")
	}
	if err != nil {
		return nil, storage("find project", slug, err)
	}
	return p, nil
}
