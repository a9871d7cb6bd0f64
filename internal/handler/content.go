package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/easycontent/contentgen/internal/model"
	"github.com/easycontent/contentgen/internal/repository"
	"github.com/easycontent/contentgen/internal/service"
)

// Contents is the part of service.ContentService the content endpoints use.
type Contents interface {
	Generate(ctx context.Context, userID uint64, in service.GenerateInput) (*model.Content, error)
	List(ctx context.Context, userID uint64, f repository.ContentFilter) ([]*model.Content, int, error)
	Get(ctx context.Context, userID, id uint64) (*model.Content, error)
	Update(ctx context.Context, userID, id uint64, p service.ContentPatch) (*model.Content, error)
	Delete(ctx context.Context, userID, id uint64) error
}

type ContentHandler struct {
	contents Contents
}

func NewContentHandler(contents Contents) *ContentHandler {
	return &ContentHandler{contents: contents}
}

type generateReq struct {
	Prompt     string  `json:"prompt" validate:"required,max=4000"`
	TemplateID *uint64 `json:"template_id"`
	Title      string  `json:"title" validate:"max=200"`
	Language   string  `json:"language" validate:"max=16"`
	Tone       string  `json:"tone" validate:"max=32"`
	Status     string  `json:"status" validate:"omitempty,oneof=draft published"`
}

type contentPatchReq struct {
	Title  *string `json:"title" validate:"omitempty,max=200"`
	Body   *string `json:"body"`
	Status *string `json:"status" validate:"omitempty,oneof=draft published"`
}

// Page is the envelope of paged listings.
type Page struct {
	Items    any `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Generate calls the generation API and stores the result (201). The
// generation call gets the configured client timeout rather than dbTimeout.
func (h *ContentHandler) Generate(c echo.Context) error {
	var req generateReq
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	content, err := h.contents.Generate(c.Request().Context(), identity(c).User.ID, service.GenerateInput{
		Prompt:     req.Prompt,
		TemplateID: req.TemplateID,
		Title:      req.Title,
		Language:   req.Language,
		Tone:       req.Tone,
		Status:     req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, content)
}

func (h *ContentHandler) List(c echo.Context) error {
	f := contentFilter(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	items, total, err := h.contents.List(ctx, identity(c).User.ID, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newPage(items, total, f))
}

func (h *ContentHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	content, err := h.contents.Get(ctx, identity(c).User.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, content)
}

func (h *ContentHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req contentPatchReq
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	content, err := h.contents.Update(ctx, identity(c).User.ID, id, service.ContentPatch{Title: req.Title, Body: req.Body, Status: req.Status})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, content)
}

func (h *ContentHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.contents.Delete(ctx, identity(c).User.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// contentFilter reads status, language, page and page_size from the query
// string. Unparseable numbers fall back to the defaults.
func contentFilter(c echo.Context) repository.ContentFilter {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return repository.ContentFilter{
		Status:   c.QueryParam("status"),
		Language: c.QueryParam("language"),
		Page:     page,
		PageSize: size,
	}
}

func newPage(items any, total int, f repository.ContentFilter) Page {
	return Page{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}
}
