package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/easycontent/contentgen/internal/model"
	"github.com/easycontent/contentgen/internal/queue"
	"github.com/easycontent/contentgen/internal/repository"
)

// InputPlaceholder marks where a template splices in the user's prompt.
// Templates without it get the prompt appended.
const InputPlaceholder = "{{input}}"

const (
	maxPromptLen = 4000
	maxTitleLen  = 200
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerateInput is a generation request.
type GenerateInput struct {
	Prompt     string
	TemplateID *uint64
	Title      string
	Language   string
	Tone       string
	Status     string
}

// ContentPatch lists the fields a PATCH may change; nil leaves a field as is.
type ContentPatch struct {
	Title  *string
	Body   *string
	Status *string
}

// ContentService generates and manages a user's own content.
type ContentService struct {
	contents  ContentStore
	templates TemplateStore
	gen       Generator
	events    EventPublisher
}

// NewContentService wires the stores and the generator. gen may be nil when
// no generation API is configured; Generate then fails with
// ErrGeneratorUnavailable.
func NewContentService(contents ContentStore, templates TemplateStore, gen Generator, events EventPublisher) *ContentService {
	return &ContentService{contents: contents, templates: templates, gen: gen, events: events}
}

// Generate builds the final prompt, calls the generator and stores the
// result for userID.
func (s *ContentService) Generate(ctx context.Context, userID uint64, in GenerateInput) (*model.Content, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, invalid("prompt is required")
	}
	if utf8.RuneCountInString(prompt) > maxPromptLen {
		return nil, invalid("prompt must be at most %d characters", maxPromptLen)
	}
	c := &model.Content{
		OwnerID:    userID,
		TemplateID: in.TemplateID,
		Title:      strings.TrimSpace(in.Title),
		Prompt:     prompt,
		Language:   orDefault(in.Language, model.DefaultLanguage),
		Tone:       orDefault(in.Tone, model.DefaultTone),
		Status:     orDefault(in.Status, model.StatusPublished),
	}
	if !model.ValidStatus(c.Status) {
		return nil, invalid("status must be %q or %q", model.StatusDraft, model.StatusPublished)
	}
	if utf8.RuneCountInString(c.Title) > maxTitleLen {
		return nil, invalid("title must be at most %d characters", maxTitleLen)
	}

	base := ""
	if in.TemplateID != nil {
		t, err := s.templates.GetByID(ctx, *in.TemplateID)
		if err != nil {
			return nil, err
		}
		if !t.VisibleTo(userID) {
			return nil, repository.ErrNotFound
		}
		base = t.Prompt
	}
	if s.gen == nil {
		return nil, ErrGeneratorUnavailable
	}

	body, err := s.gen.Generate(ctx, BuildPrompt(base, prompt, c.Language, c.Tone))
	if err != nil {
		if errors.Is(err, ErrGeneratorUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	c.Body = strings.TrimSpace(body)
	if c.Title == "" {
		c.Title = deriveTitle(prompt)
	}
	if err := s.contents.Create(ctx, c); err != nil {
		return nil, err
	}
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindContentGenerated, userID, c.Title, c.ID))
	return c, nil
}

// BuildPrompt combines an optional template prompt with the user's input and
// appends language and tone instructions.
func BuildPrompt(template, input, language, tone string) string {
	var b strings.Builder
	switch {
	case template == "":
		b.WriteString(input)
	case strings.Contains(template, InputPlaceholder):
		b.WriteString(strings.ReplaceAll(template, InputPlaceholder, input))
	default:
		b.WriteString(template)
		b.WriteString("\n\n")
		b.WriteString(input)
	}
	fmt.Fprintf(&b, "\n\nWrite the response in language %q using a %s tone.", language, tone)
	return b.String()
}

func deriveTitle(prompt string) string {
	line, _, _ := strings.Cut(prompt, "\n")
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) <= 60 {
		return line
	}
	r := []rune(line)
	return strings.TrimSpace(string(r[:60])) + "..."
}

func orDefault(v, d string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return d
}

// List pages through userID's own content.
func (s *ContentService) List(ctx context.Context, userID uint64, f repository.ContentFilter) ([]*model.Content, int, error) {
	if f.Status != "" && !model.ValidStatus(f.Status) {
		return nil, 0, invalid("status must be %q or %q", model.StatusDraft, model.StatusPublished)
	}
	f.OwnerID = &userID
	return s.contents.List(ctx, f)
}

// Get returns one item owned by userID.
func (s *ContentService) Get(ctx context.Context, userID, id uint64) (*model.Content, error) {
	c, err := s.contents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != userID {
		return nil, repository.ErrForbidden
	}
	return c, nil
}

// Update applies p to an item owned by userID.
func (s *ContentService) Update(ctx context.Context, userID, id uint64, p ContentPatch) (*model.Content, error) {
	if p.Status != nil && !model.ValidStatus(*p.Status) {
		return nil, invalid("status must be %q or %q", model.StatusDraft, model.StatusPublished)
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" || utf8.RuneCountInString(title) > maxTitleLen {
			return nil, invalid("title must be 1 to %d characters", maxTitleLen)
		}
		p.Title = &title
	}
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Body != nil {
		c.Body = *p.Body
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if err := s.contents.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.contents.GetByID(ctx, id)
}

// Delete removes an item owned by userID.
func (s *ContentService) Delete(ctx context.Context, userID, id uint64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.contents.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindContentDeleted, userID, "", id))
	return nil
}
