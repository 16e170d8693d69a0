package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slyt3/pagedrop/internal/modules/serializer"
	"github.com/slyt3/pagedrop/internal/modules/service"
	"go.uber.org/zap"
)

// respondErr writes the HTTP form of a service error. Integrity and storage
// failures are logged and answered with the generic fallback message only.
func respondErr(c *gin.Context, log *zap.Logger, fallback string, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindStorageUnavailable, Err: err}
	}

	switch se.Kind {
	case service.KindInvalidInput:
		c.JSON(http.StatusBadRequest, serializer.ParamErr(se.Msg, nil))
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(se.Msg))
	case service.KindForbidden:
		c.JSON(http.StatusForbidden, serializer.ForbiddenErr(se.Msg))
	default:
		log.Sugar().Errorw(fallback,
			"kind", se.Kind,
			"slug", se.Slug,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"err", err,
		)
		c.JSON(http.StatusInternalServerError, serializer.DBErr(fallback, err))
	}
}
