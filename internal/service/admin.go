package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/easycontent/contentgen/internal/model"
	"github.com/easycontent/contentgen/internal/queue"
	"github.com/easycontent/contentgen/internal/repository"
	"github.com/easycontent/contentgen/internal/utils"
)

// AdminService implements the management endpoints. Every method takes the
// acting admin's id; callers must have passed AuthService.RequireAdmin.
type AdminService struct {
	users     UserAdminStore
	contents  ContentStore
	templates TemplateStore
	stats     StatsStore
	cost      int
	events    EventPublisher
	catalog   CacheInvalidator
}

func NewAdminService(users UserAdminStore, contents ContentStore, templates TemplateStore, stats StatsStore, bcryptCost int, events EventPublisher) *AdminService {
	return &AdminService{users: users, contents: contents, templates: templates, stats: stats, cost: bcryptCost, events: events}
}

// WithCatalogCache makes template changes drop the cached default catalog.
func (s *AdminService) WithCatalogCache(c CacheInvalidator) *AdminService {
	s.catalog = c
	return s
}

func (s *AdminService) invalidateCatalog(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx); err != nil {
		log.Warnf("cache: invalidate template catalog: %v", err)
	}
}

func (s *AdminService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	return s.stats.Dashboard(ctx)
}

func (s *AdminService) SystemStats(ctx context.Context) (*model.SystemStats, error) {
	return s.stats.SystemStats(ctx)
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// UpdateUser changes a user's username and email.
func (s *AdminService) UpdateUser(ctx context.Context, actorID, id uint64, username, email string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := validateAccount(username, email); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, id, username, email); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindUserUpdated, actorID, username, id))
	return s.users.GetByID(ctx, id)
}

// ResetPassword stores a new password for any user, the acting admin
// included.
func (s *AdminService) ResetPassword(ctx context.Context, actorID, id uint64, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}
	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindPasswordReset, actorID, "", id))
	return nil
}

// ToggleActive flips the active flag of another user.
func (s *AdminService) ToggleActive(ctx context.Context, actorID, id uint64) (*model.User, error) {
	if actorID == id {
		return nil, ErrSelfModification
	}
	u, err := s.users.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}
	kind := queue.KindUserDeactivated
	if u.IsActive {
		kind = queue.KindUserActivated
	}
	publish(ctx, s.events, queue.NewActivityEvent(kind, actorID, u.Username, id))
	return u, nil
}

// ToggleAdmin flips the admin flag of another user. Tokens already issued
// to that user keep their old snapshot until they expire.
func (s *AdminService) ToggleAdmin(ctx context.Context, actorID, id uint64) (*model.User, error) {
	if actorID == id {
		return nil, ErrSelfModification
	}
	u, err := s.users.ToggleAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	kind := queue.KindUserDemoted
	if u.IsAdmin {
		kind = queue.KindUserPromoted
	}
	publish(ctx, s.events, queue.NewActivityEvent(kind, actorID, u.Username, id))
	return u, nil
}

// DeleteUser removes another user and everything they own.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, id uint64) error {
	if actorID == id {
		return ErrSelfModification
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindUserDeleted, actorID, "", id))
	return nil
}

// BulkDeleteUsers removes several users at once. The whole request is
// refused when the set includes the acting admin; nothing is deleted then.
func (s *AdminService) BulkDeleteUsers(ctx context.Context, actorID uint64, ids []uint64) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, invalid("user_ids must not be empty")
	}
	for _, id := range ids {
		if id == actorID {
			return 0, ErrSelfModification
		}
	}
	n, err := s.users.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindUserDeleted, actorID, "bulk", ids...))
	return n, nil
}

// ListContents lists content of every owner.
func (s *AdminService) ListContents(ctx context.Context, f repository.ContentFilter) ([]*model.Content, int, error) {
	f.OwnerID = nil
	if f.Status != "" && !model.ValidStatus(f.Status) {
		return nil, 0, invalid("status must be %q or %q", model.StatusDraft, model.StatusPublished)
	}
	return s.contents.List(ctx, f)
}

func (s *AdminService) DeleteContent(ctx context.Context, actorID, id uint64) error {
	if err := s.contents.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindContentDeleted, actorID, "", id))
	return nil
}

func (s *AdminService) BulkDeleteContents(ctx context.Context, actorID uint64, ids []uint64) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, invalid("content_ids must not be empty")
	}
	n, err := s.contents.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindContentDeleted, actorID, "bulk", ids...))
	return n, nil
}

func (s *AdminService) ListTemplates(ctx context.Context) ([]*model.Template, error) {
	return s.templates.ListAll(ctx)
}

// CreateDefaultTemplate adds an entry to the system catalog.
func (s *AdminService) CreateDefaultTemplate(ctx context.Context, actorID uint64, in TemplateInput) (*model.Template, error) {
	t, err := in.build()
	if err != nil {
		return nil, err
	}
	t.IsDefault = true
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindTemplateCreated, actorID, t.Name, t.ID))
	return t, nil
}

// DeleteTemplate removes any template, system or user owned.
func (s *AdminService) DeleteTemplate(ctx context.Context, actorID, id uint64) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindTemplateDeleted, actorID, "", id))
	return nil
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
