package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type bulkContentsReq struct {
	ContentIDs []uint64 `json:"content_ids" validate:"required,min=1"`
}

// ListContents lists content of all users, paged like the owner listing.
func (h *AdminHandler) ListContents(c echo.Context) error {
	f := contentFilter(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	items, total, err := h.admin.ListContents(ctx, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newPage(items, total, f))
}

func (h *AdminHandler) DeleteContent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.admin.DeleteContent(ctx, identity(c).User.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) BulkDeleteContents(c echo.Context) error {
	var req bulkContentsReq
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := h.admin.BulkDeleteContents(ctx, identity(c).User.ID, req.ContentIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted_count": n})
}

func (h *AdminHandler) ListTemplates(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.admin.ListTemplates(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateTemplate adds a system catalog entry.
func (h *AdminHandler) CreateTemplate(c echo.Context) error {
	var req templateReq
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.admin.CreateDefaultTemplate(ctx, identity(c).User.ID, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *AdminHandler) DeleteTemplate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.admin.DeleteTemplate(ctx, identity(c).User.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
