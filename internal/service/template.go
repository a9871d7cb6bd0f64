package service

import (
	"context"
	"strings"

	"github.com/easycontent/contentgen/internal/model"
	"github.com/easycontent/contentgen/internal/queue"
	"github.com/easycontent/contentgen/internal/repository"
)

// TemplateInput is the editable part of a template.
type TemplateInput struct {
	Name     string
	Category string
	Prompt   string
	Language string
}

func (in TemplateInput) build() (*model.Template, error) {
	t := &model.Template{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		Prompt:   strings.TrimSpace(in.Prompt),
		Language: strings.TrimSpace(in.Language),
	}
	if t.Name == "" || t.Category == "" || t.Prompt == "" {
		return nil, invalid("name, category and prompt are required")
	}
	if t.Language == "" {
		t.Language = model.DefaultLanguage
	}
	return t, nil
}

// TemplateService manages the catalog as seen by regular users: the system
// defaults plus their own templates.
type TemplateService struct {
	templates TemplateStore
	events    EventPublisher
}

func NewTemplateService(templates TemplateStore, events EventPublisher) *TemplateService {
	return &TemplateService{templates: templates, events: events}
}

// Defaults lists the system catalog. It needs no authentication.
func (s *TemplateService) Defaults(ctx context.Context) ([]*model.Template, error) {
	return s.templates.ListDefaults(ctx)
}

// List returns the templates userID can use.
func (s *TemplateService) List(ctx context.Context, userID uint64) ([]*model.Template, error) {
	return s.templates.ListVisible(ctx, userID)
}

// Get returns a template visible to userID. Templates of other users are
// reported as missing.
func (s *TemplateService) Get(ctx context.Context, userID, id uint64) (*model.Template, error) {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.VisibleTo(userID) {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (s *TemplateService) Create(ctx context.Context, userID uint64, in TemplateInput) (*model.Template, error) {
	t, err := in.build()
	if err != nil {
		return nil, err
	}
	owner := userID
	t.OwnerID = &owner
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, err
	}
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindTemplateCreated, userID, t.Name, t.ID))
	return t, nil
}

// Update edits a template owned by userID. System templates are read-only
// here; admins manage them through AdminService.
func (s *TemplateService) Update(ctx context.Context, userID, id uint64, in TemplateInput) (*model.Template, error) {
	patch, err := in.build()
	if err != nil {
		return nil, err
	}
	t, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t.Name, t.Category, t.Prompt, t.Language = patch.Name, patch.Category, patch.Prompt, patch.Language
	if err := s.templates.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) Delete(ctx context.Context, userID, id uint64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindTemplateDeleted, userID, "", id))
	return nil
}

func (s *TemplateService) owned(ctx context.Context, userID, id uint64) (*model.Template, error) {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.OwnedBy(userID) {
		if t.VisibleTo(userID) {
			return nil, repository.ErrForbidden
		}
		return nil, repository.ErrNotFound
	}
	return t, nil
}
