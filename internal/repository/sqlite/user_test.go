package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
)

// newTestDB returns a fresh in-memory database closed at the end of the test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{FullName: "Test User", Email: email, Password: "hash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{FullName: "Ada Lovelace", Email: "ada@example.com", Password: "hash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedOn.IsZero() {
		t.Error("CreateUser() did not set user.CreatedOn")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "a@x.com")

	found, err := db.GetUserByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.Password != "hash" {
		t.Errorf("Password = %q, want the stored value", found.Password)
	}
	if !found.CreatedOn.Equal(created.CreatedOn) {
		t.Errorf("CreatedOn = %v, want %v", found.CreatedOn, created.CreatedOn)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByEmail() error = %v, want ErrNotFound", err)
	}
}

// The store does not enforce unique emails; the service layer's
// read-then-insert is the only guard, so racing registrations can both land.
func TestCreateUser_DuplicateEmailIsNotRejectedByStore(t *testing.T) {
	db := newTestDB(t)
	first := createTestUser(t, db, "dup@x.com")
	second := createTestUser(t, db, "dup@x.com")

	if first.ID == second.ID {
		t.Fatal("two inserts produced the same ID")
	}

	found, err := db.GetUserByEmail(context.Background(), "dup@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != first.ID && found.ID != second.ID {
		t.Errorf("GetUserByEmail() returned unexpected user %q", found.ID)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "byid@x.com")

	found, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Email != "byid@x.com" {
		t.Errorf("Email = %q, want %q", found.Email, "byid@x.com")
	}

	_, err = db.GetUserByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}
