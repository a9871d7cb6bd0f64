package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/easycontent/contentgen/internal/model"
	"github.com/easycontent/contentgen/internal/queue"
	"github.com/easycontent/contentgen/internal/repository"
)

const testCost = 4

type fakeUsers struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{rows: map[uint64]*model.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.taken(0, u.Username, u.Email) {
		return repository.ErrConflict
	}
	f.nextID++
	u.ID = f.nextID
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUsers) taken(except uint64, username, email string) bool {
	for id, r := range f.rows {
		if id != except && (r.Username == username || r.Email == strings.ToLower(email)) {
			return true
		}
	}
	return false
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.Username == username {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) List(context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.User{}
	for _, r := range f.rows {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) mutate(id uint64, fn func(*model.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(r)
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uint64, username, email string) error {
	f.mu.Lock()
	conflict := f.taken(id, username, email)
	f.mu.Unlock()
	if conflict {
		return repository.ErrConflict
	}
	return f.mutate(id, func(u *model.User) { u.Username, u.Email = username, strings.ToLower(email) })
}

func (f *fakeUsers) SetActive(_ context.Context, id uint64, active bool) error {
	return f.mutate(id, func(u *model.User) { u.IsActive = active })
}

func (f *fakeUsers) SetAdmin(_ context.Context, id uint64, admin bool) error {
	return f.mutate(id, func(u *model.User) { u.IsAdmin = admin })
}

func (f *fakeUsers) ToggleActive(ctx context.Context, id uint64) (*model.User, error) {
	if err := f.mutate(id, func(u *model.User) { u.IsActive = !u.IsActive }); err != nil {
		return nil, err
	}
	return f.GetByID(ctx, id)
}

func (f *fakeUsers) ToggleAdmin(ctx context.Context, id uint64) (*model.User, error) {
	if err := f.mutate(id, func(u *model.User) { u.IsAdmin = !u.IsAdmin }); err != nil {
		return nil, err
	}
	return f.GetByID(ctx, id)
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uint64, hash string) error {
	return f.mutate(id, func(u *model.User) { u.PasswordHash = hash })
}

func (f *fakeUsers) Delete(ctx context.Context, id uint64) error {
	n, _ := f.DeleteMany(ctx, []uint64{id})
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (f *fakeUsers) DeleteMany(_ context.Context, ids []uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := f.rows[id]; ok {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

type fakeContents struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Content
}

func newFakeContents() *fakeContents { return &fakeContents{rows: map[uint64]*model.Content{}} }

func (f *fakeContents) Create(_ context.Context, c *model.Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeContents) GetByID(_ context.Context, id uint64) (*model.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeContents) List(_ context.Context, flt repository.ContentFilter) ([]*model.Content, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Content{}
	for _, r := range f.rows {
		if flt.OwnerID != nil && r.OwnerID != *flt.OwnerID {
			continue
		}
		if flt.Status != "" && r.Status != flt.Status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, len(out), nil
}

func (f *fakeContents) Update(_ context.Context, c *model.Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	r.Title, r.Body, r.Status = c.Title, c.Body, c.Status
	return nil
}

func (f *fakeContents) Delete(ctx context.Context, id uint64) error {
	n, _ := f.DeleteMany(ctx, []uint64{id})
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (f *fakeContents) DeleteMany(_ context.Context, ids []uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := f.rows[id]; ok {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

type fakeTemplates struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Template
}

func newFakeTemplates() *fakeTemplates { return &fakeTemplates{rows: map[uint64]*model.Template{}} }

func (f *fakeTemplates) Create(_ context.Context, t *model.Template) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now().UTC()
	cp := *t
	f.rows[t.ID] = &cp
	return nil
}

func (f *fakeTemplates) GetByID(_ context.Context, id uint64) (*model.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeTemplates) filter(keep func(*model.Template) bool) []*model.Template {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Template{}
	for _, r := range f.rows {
		if keep(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeTemplates) ListDefaults(context.Context) ([]*model.Template, error) {
	return f.filter(func(t *model.Template) bool { return t.IsDefault }), nil
}

func (f *fakeTemplates) ListVisible(_ context.Context, userID uint64) ([]*model.Template, error) {
	return f.filter(func(t *model.Template) bool { return t.VisibleTo(userID) }), nil
}

func (f *fakeTemplates) ListAll(context.Context) ([]*model.Template, error) {
	return f.filter(func(*model.Template) bool { return true }), nil
}

func (f *fakeTemplates) Update(_ context.Context, t *model.Template) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[t.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *t
	f.rows[t.ID] = &cp
	return nil
}

func (f *fakeTemplates) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeStats struct {
	pingErr error
}

func (f *fakeStats) Ping(context.Context) error { return f.pingErr }

func (f *fakeStats) Dashboard(context.Context) (*model.Dashboard, error) {
	d := &model.Dashboard{}
	d.Users.Total = 2
	return d, nil
}

func (f *fakeStats) SystemStats(context.Context) (*model.SystemStats, error) {
	return &model.SystemStats{}, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
	err    error
}

func (f *fakeEvents) Publish(_ context.Context, ev queue.ActivityEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeEvents) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, ev := range f.events {
		out[i] = ev.Kind
	}
	return out
}

type fakeGenerator struct {
	prompts []string
	reply   string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var errBoom = errors.New("boom")
