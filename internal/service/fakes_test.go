package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
)

// fakeStore is an in-memory implementation of both repository interfaces.
// Hand-written rather than generated so it's obvious what each method does.
type fakeStore struct {
	mu     sync.Mutex
	users  map[string]*model.User
	notes  map[string]*model.Note
	order  []string // note IDs in insertion order
	nextID int

	// set to a non-nil error to simulate a database failure
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]*model.User),
		notes: make(map[string]*model.Note),
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	user.ID = f.id("user")
	user.CreatedOn = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	found := *u
	return &found, nil
}

func (f *fakeStore) CreateNote(_ context.Context, note *model.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	note.ID = f.id("note")
	note.CreatedOn = time.Now()
	stored := *note
	f.notes[note.ID] = &stored
	f.order = append(f.order, note.ID)
	return nil
}

func (f *fakeStore) GetNote(_ context.Context, id, ownerID string) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	n, ok := f.notes[id]
	if !ok || n.UserID != ownerID {
		return nil, apperror.NotFound("Note")
	}
	found := *n
	return &found, nil
}

func (f *fakeStore) UpdateNote(_ context.Context, note *model.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	n, ok := f.notes[note.ID]
	if !ok || n.UserID != note.UserID {
		return apperror.NotFound("Note")
	}
	stored := *note
	f.notes[note.ID] = &stored
	return nil
}

func (f *fakeStore) DeleteNote(_ context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	n, ok := f.notes[id]
	if !ok || n.UserID != ownerID {
		return apperror.NotFound("Note")
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeStore) ListNotes(_ context.Context, ownerID string) ([]model.Note, error) {
	return f.filter(ownerID, func(*model.Note) bool { return true })
}

func (f *fakeStore) SearchNotes(_ context.Context, ownerID, query string) ([]model.Note, error) {
	q := strings.ToLower(query)
	return f.filter(ownerID, func(n *model.Note) bool {
		return strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q)
	})
}

func (f *fakeStore) filter(ownerID string, keep func(*model.Note) bool) ([]model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]model.Note, 0)
	for _, id := range f.order {
		n, ok := f.notes[id]
		if ok && n.UserID == ownerID && keep(n) {
			out = append(out, *n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IsPinned && !out[j].IsPinned })
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
