package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slyt3/pagedrop/internal/modules/model"
	"github.com/slyt3/pagedrop/internal/modules/serializer"
	"github.com/slyt3/pagedrop/internal/modules/service"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	svc service.ProjectService
	log *zap.Logger
}

func NewProjectHandler(s service.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{svc: s, log: log}
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	List all projects, newest first, active or not
//	@Tags			project
//	@Produce		json
//	@Success		200	{array}		model.Project
//	@Failure		500	{object}	serializer.Response
//	@Router			/api/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondErr(c, h.log, "failed to list projects", err)
		return
	}
	if items == nil {
		items = []*model.Project{}
	}

	c.JSON(http.StatusOK, items)
}

type UploadResp struct {
	ID      int64  `json:"id" example:"1"`
	Slug    string `json:"slug" example:"3f9a1c0b7d2e"`
	Name    string `json:"name" example:"demo"`
	Message string `json:"message" example:"HTML file uploaded"`
	URL     string `json:"url" example:"/projects/3f9a1c0b7d2e/"`
}

// Upload godoc
//
//	@Summary		Upload project
//	@Description	Register a single HTML file as a new project
//	@Tags			project
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"HTML file, at most 5MB"
//	@Param			projectName	formData	string	true	"Project name, 1-50 characters"
//	@Success		200	{object}	handler.UploadResp
//	@Failure		400	{object}	serializer.Response
//	@Failure		500	{object}	serializer.Response
//	@Router			/api/upload [post]
func (h *ProjectHandler) Upload(c *gin.Context) {
	var upload *service.UploadedFile

	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("could not read uploaded file", err))
			return
		}
		defer f.Close()
		upload = &service.UploadedFile{Name: fh.Filename, Size: fh.Size, Body: f}
	case errors.Is(err, http.ErrMissingFile):
		// reported by the service as "no file selected"
	default:
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid multipart form", err))
		return
	}

	out, err := h.svc.Create(c.Request.Context(), c.PostForm("projectName"), upload)
	if err != nil {
		respondErr(c, h.log, "upload failed", err)
		return
	}

	c.JSON(http.StatusOK, UploadResp{
		ID:      out.ID,
		Slug:    out.Slug,
		Name:    out.Name,
		Message: "HTML file uploaded",
		URL:     out.URL,
	})
}

type ToggleResp struct {
	Message  string `json:"message" example:"project deactivated"`
	IsActive bool   `json:"isActive" example:"false"`
}

// ToggleProject godoc
//
//	@Summary		Toggle project
//	@Description	Flip whether a project's content is served
//	@Tags			project
//	@Produce		json
//	@Param			slug	path	string	true	"Project slug"	Example(3f9a1c0b7d2e)
//	@Success		200	{object}	handler.ToggleResp
//	@Failure		404	{object}	serializer.Response
//	@Failure		500	{object}	serializer.Response
//	@Router			/api/projects/{slug}/toggle [patch]
func (h *ProjectHandler) ToggleProject(c *gin.Context) {
	active, err := h.svc.ToggleActive(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondErr(c, h.log, "failed to toggle project", err)
		return
	}

	msg := "project deactivated"
	if active {
		msg = "project activated"
	}
	c.JSON(http.StatusOK, ToggleResp{Message: msg, IsActive: active})
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project together with its file
//	@Tags			project
//	@Produce		json
//	@Param			slug	path	string	true	"Project slug"	Example(3f9a1c0b7d2e)
//	@Success		200	{object}	serializer.MessageResponse
//	@Failure		404	{object}	serializer.Response
//	@Failure		500	{object}	serializer.Response
//	@Router			/api/projects/{slug} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondErr(c, h.log, "failed to delete project", err)
		return
	}

	c.JSON(http.StatusOK, serializer.MessageResponse{Message: "project deleted"})
}
