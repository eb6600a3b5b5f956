package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/openfrosh/scunt/internal/database"
	"github.com/openfrosh/scunt/internal/model"
)

// testStores bundles every store over one in-memory database.
type testStores struct {
	db          *sql.DB
	hunts       *HuntStore
	teams       *TeamStore
	tasks       *TaskStore
	assignments *AssignmentStore
	users       *UserStore
}

func newTestStores(t *testing.T) *testStores {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &testStores{
		db:          db,
		hunts:       NewHuntStore(db),
		teams:       NewTeamStore(db),
		tasks:       NewTaskStore(db),
		assignments: NewAssignmentStore(db),
		users:       NewUserStore(db),
	}
}

// pastHunt creates a hunt whose window opened an hour ago, ready to start.
func (ts *testStores) pastHunt(t *testing.T, name string) *model.Hunt {
	t.Helper()
	h, err := ts.hunts.Create(name, "test hunt", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("create hunt: %v", err)
	}
	return h
}

func (ts *testStores) user(t *testing.T, username, email string) *model.User {
	t.Helper()
	u, err := ts.users.Create(username, "Test", "User", email, "hunter2hunter2", "", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
