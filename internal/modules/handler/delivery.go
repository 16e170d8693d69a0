package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slyt3/pagedrop/internal/modules/service"
	"go.uber.org/zap"
)

type DeliveryHandler struct {
	svc service.DeliveryService
	log *zap.Logger
}

func NewDeliveryHandler(s service.DeliveryService, log *zap.Logger) *DeliveryHandler {
	return &DeliveryHandler{svc: s, log: log}
}

// ServeProject godoc
//
//	@Summary		Serve project
//	@Description	Return the stored HTML of an active project byte for byte
//	@Tags			delivery
//	@Produce		html
//	@Param			slug	path	string	true	"Project slug"	Example(3f9a1c0b7d2e)
//	@Success		200	{string}	string	"HTML document"
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{slug} [get]
func (h *DeliveryHandler) ServeProject(c *gin.Context) {
	d, err := h.svc.Resolve(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondErr(c, h.log, "failed to load project content", err)
		return
	}

	c.Header("Cache-Control", d.CacheControl)
	c.Data(http.StatusOK, d.ContentType, []byte(d.Content))
}
