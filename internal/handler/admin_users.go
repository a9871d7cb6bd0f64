package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type adminUserReq struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
}

type resetPasswordReq struct {
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type bulkUsersReq struct {
	UserIDs []uint64 `json:"user_ids" validate:"required,min=1"`
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.admin.ListUsers(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req adminUserReq
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.admin.UpdateUser(ctx, identity(c).User.ID, id, req.Username, req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AdminHandler) ResetPassword(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req resetPasswordReq
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.admin.ResetPassword(ctx, identity(c).User.ID, id, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset"})
}

func (h *AdminHandler) ToggleActive(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.admin.ToggleActive(ctx, identity(c).User.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": u.ID, "is_active": u.IsActive})
}

func (h *AdminHandler) ToggleAdmin(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.admin.ToggleAdmin(ctx, identity(c).User.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": u.ID, "is_admin": u.IsAdmin})
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.admin.DeleteUser(ctx, identity(c).User.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) BulkDeleteUsers(c echo.Context) error {
	var req bulkUsersReq
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := h.admin.BulkDeleteUsers(ctx, identity(c).User.ID, req.UserIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted_count": n})
}
