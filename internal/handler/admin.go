package handler

import (
	"context"

	"github.com/easycontent/contentgen/internal/model"
	"github.com/easycontent/contentgen/internal/repository"
	"github.com/easycontent/contentgen/internal/service"
)

// AdminOperations is the part of service.AdminService the admin endpoints
// use.
type AdminOperations interface {
	Dashboard(ctx context.Context) (*model.Dashboard, error)
	SystemStats(ctx context.Context) (*model.SystemStats, error)

	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, actorID, id uint64, username, email string) (*model.User, error)
	ResetPassword(ctx context.Context, actorID, id uint64, password string) error
	ToggleActive(ctx context.Context, actorID, id uint64) (*model.User, error)
	ToggleAdmin(ctx context.Context, actorID, id uint64) (*model.User, error)
	DeleteUser(ctx context.Context, actorID, id uint64) error
	BulkDeleteUsers(ctx context.Context, actorID uint64, ids []uint64) (int64, error)

	ListContents(ctx context.Context, f repository.ContentFilter) ([]*model.Content, int, error)
	DeleteContent(ctx context.Context, actorID, id uint64) error
	BulkDeleteContents(ctx context.Context, actorID uint64, ids []uint64) (int64, error)

	ListTemplates(ctx context.Context) ([]*model.Template, error)
	CreateDefaultTemplate(ctx context.Context, actorID uint64, in service.TemplateInput) (*model.Template, error)
	DeleteTemplate(ctx context.Context, actorID, id uint64) error
}

// HealthChecker produces the admin system health report.
type HealthChecker interface {
	Check(ctx context.Context) service.HealthReport
}

// AdminHandler serves /v1/admin. Routes are mounted behind
// middleware.Authenticate and middleware.RequireAdmin.
type AdminHandler struct {
	admin  AdminOperations
	health HealthChecker
}

func NewAdminHandler(admin AdminOperations, health HealthChecker) *AdminHandler {
	return &AdminHandler{admin: admin, health: health}
}
