package service

import (
	"context"

	"github.com/easycontent/contentgen/internal/model"
	"github.com/easycontent/contentgen/internal/queue"
	"github.com/easycontent/contentgen/internal/repository"
)

// UserStore is the credential store used for authentication.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// UserAdminStore adds the management operations behind the admin endpoints.
type UserAdminStore interface {
	UserStore
	List(ctx context.Context) ([]*model.User, error)
	UpdateProfile(ctx context.Context, id uint64, username, email string) error
	ToggleActive(ctx context.Context, id uint64) (*model.User, error)
	ToggleAdmin(ctx context.Context, id uint64) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
	Delete(ctx context.Context, id uint64) error
	DeleteMany(ctx context.Context, ids []uint64) (int64, error)
}

type ContentStore interface {
	Create(ctx context.Context, c *model.Content) error
	GetByID(ctx context.Context, id uint64) (*model.Content, error)
	List(ctx context.Context, f repository.ContentFilter) ([]*model.Content, int, error)
	Update(ctx context.Context, c *model.Content) error
	Delete(ctx context.Context, id uint64) error
	DeleteMany(ctx context.Context, ids []uint64) (int64, error)
}

type TemplateStore interface {
	Create(ctx context.Context, t *model.Template) error
	GetByID(ctx context.Context, id uint64) (*model.Template, error)
	ListDefaults(ctx context.Context) ([]*model.Template, error)
	ListVisible(ctx context.Context, userID uint64) ([]*model.Template, error)
	ListAll(ctx context.Context) ([]*model.Template, error)
	Update(ctx context.Context, t *model.Template) error
	Delete(ctx context.Context, id uint64) error
}

type StatsStore interface {
	Ping(ctx context.Context) error
	Dashboard(ctx context.Context) (*model.Dashboard, error)
	SystemStats(ctx context.Context) (*model.SystemStats, error)
}

// EventPublisher receives activity events after successful state changes.
// Publishing is best effort: a failure is logged and never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// CacheInvalidator drops cached responses that were built from stored data.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}
