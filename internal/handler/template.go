package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/easycontent/contentgen/internal/model"
	"github.com/easycontent/contentgen/internal/service"
)

// Templates is the part of service.TemplateService the template endpoints
// use.
type Templates interface {
	Defaults(ctx context.Context) ([]*model.Template, error)
	List(ctx context.Context, userID uint64) ([]*model.Template, error)
	Get(ctx context.Context, userID, id uint64) (*model.Template, error)
	Create(ctx context.Context, userID uint64, in service.TemplateInput) (*model.Template, error)
	Update(ctx context.Context, userID, id uint64, in service.TemplateInput) (*model.Template, error)
	Delete(ctx context.Context, userID, id uint64) error
}

type TemplateHandler struct {
	templates Templates
}

func NewTemplateHandler(templates Templates) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type templateReq struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"required,max=50"`
	Prompt   string `json:"prompt" validate:"required,max=4000"`
	Language string `json:"language" validate:"max=16"`
}

func (r templateReq) input() service.TemplateInput {
	return service.TemplateInput{Name: r.Name, Category: r.Category, Prompt: r.Prompt, Language: r.Language}
}

// Defaults lists the system catalog without authentication.
func (h *TemplateHandler) Defaults(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.templates.Defaults(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *TemplateHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.templates.List(ctx, identity(c).User.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *TemplateHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.templates.Get(ctx, identity(c).User.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TemplateHandler) Create(c echo.Context) error {
	var req templateReq
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.templates.Create(ctx, identity(c).User.ID, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TemplateHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req templateReq
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.templates.Update(ctx, identity(c).User.ID, id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TemplateHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.templates.Delete(ctx, identity(c).User.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
