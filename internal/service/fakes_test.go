package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"hris_backend/internal/model"
	"hris_backend/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUserRepo(users ...model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]model.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) emailTaken(email, exceptID string) bool {
	for _, u := range r.users {
		if email != "" && u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(user.Email, user.ID) {
		return repository.ErrDuplicate
	}
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.New("user not found for update")
	}
	if r.emailTaken(user.Email, user.ID) {
		return repository.ErrDuplicate
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, id string, avatar string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errors.New("user not found for avatar update")
	}
	u.Avatar = avatar
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filters model.UserFilters) ([]model.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := []model.User{}
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	page := filters.Page.Normalize()
	start := page.Offset()
	if start > len(users) {
		start = len(users)
	}
	end := start + page.Take
	if end > len(users) {
		end = len(users)
	}
	return users[start:end], len(users), nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *fakeUserRepo) setRole(id string, role model.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.Role = role
	r.users[id] = u
}

func (r *fakeUserRepo) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

// fakeAbsenceRepo enforces one event per user, status and work date like the unique index
type fakeAbsenceRepo struct {
	mu       sync.Mutex
	absences []model.Absence
}

func (r *fakeAbsenceRepo) conflicts(a *model.Absence) bool {
	for _, e := range r.absences {
		if e.ID != a.ID && e.UserID == a.UserID && e.Status == a.Status && e.WorkDate.Equal(a.WorkDate) {
			return true
		}
	}
	return false
}

func (r *fakeAbsenceRepo) Create(_ context.Context, a *model.Absence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts(a) {
		return repository.ErrDuplicate
	}
	a.UpdatedAt = a.CreatedAt
	r.absences = append(r.absences, *a)
	return nil
}

func (r *fakeAbsenceRepo) FindByID(_ context.Context, id string) (*model.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.absences {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *fakeAbsenceRepo) Update(_ context.Context, a *model.Absence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts(a) {
		return repository.ErrDuplicate
	}
	for i := range r.absences {
		if r.absences[i].ID == a.ID {
			r.absences[i].Status = a.Status
			return nil
		}
	}
	return errors.New("absence not found for update")
}

func (r *fakeAbsenceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.absences {
		if r.absences[i].ID == id {
			r.absences = append(r.absences[:i], r.absences[i+1:]...)
			return nil
		}
	}
	return errors.New("absence not found for deletion")
}

func (r *fakeAbsenceRepo) filter(keep func(model.Absence) bool) []model.Absence {
	out := []model.Absence{}
	for _, a := range r.absences {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *fakeAbsenceRepo) ListByUser(_ context.Context, userID string) ([]model.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(a model.Absence) bool { return a.UserID == userID }), nil
}

func (r *fakeAbsenceRepo) ListByUserAndDay(_ context.Context, userID string, workDate time.Time) ([]model.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(a model.Absence) bool { return a.UserID == userID && a.WorkDate.Equal(workDate) }), nil
}

func (r *fakeAbsenceRepo) FindLatestByUserAndStatus(_ context.Context, userID string, status model.AbsenceStatus) (*model.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.filter(func(a model.Absence) bool { return a.UserID == userID && a.Status == status })
	if len(list) == 0 {
		return nil, nil
	}
	return &list[len(list)-1], nil
}

func (r *fakeAbsenceRepo) List(_ context.Context, filters model.AbsenceFilters) ([]model.Absence, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.filter(func(a model.Absence) bool {
		return filters.UserID == nil || a.UserID == *filters.UserID
	})
	return list, len(list), nil
}

func (r *fakeAbsenceRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.absences)
}

type sentEvent struct {
	topic string
	key   string
	event interface{}
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []sentEvent
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, sentEvent{topic: topic, key: key, event: event})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) byTopic(topic string) []sentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []sentEvent
	for _, e := range p.sent {
		if e.topic == topic {
			out = append(out, e)
		}
	}
	return out
}

type fakeAvatarStore struct {
	err error
}

func (s *fakeAvatarStore) Save(userID string, src io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.ReadAll(src); err != nil {
		return "", err
	}
	return "uploads/avatars/" + userID + "/avatar.png", nil
}
