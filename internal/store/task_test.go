package store

import (
	"errors"
	"testing"
)

func TestTaskCreate(t *testing.T) {
	ts := newTestStores(t)

	h := ts.pastHunt(t, "frosh")
	task, err := ts.tasks.Create("task number 1", "find the gnome", 2, h.ID)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Name != "task number 1" {
		t.Errorf("name = %q", task.Name)
	}
	if task.Points != 2 {
		t.Errorf("points = %d, want 2", task.Points)
	}
	if task.HuntID != h.ID {
		t.Errorf("hunt_id = %d, want %d", task.HuntID, h.ID)
	}
}

func TestTaskCreateHuntNotFound(t *testing.T) {
	ts := newTestStores(t)

	_, err := ts.tasks.Create("task", "", 2, -1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskCreateDuplicateName(t *testing.T) {
	ts := newTestStores(t)

	h := ts.pastHunt(t, "frosh")
	if _, err := ts.tasks.Create("task", "", 2, h.ID); err != nil {
		t.Fatalf("create task: %v", err)
	}
	_, err := ts.tasks.Create("task", "", 3, h.ID)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	tasks, _ := ts.tasks.ListByHunt(h.ID)
	if len(tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(tasks))
	}
}

func TestTaskCreateSameNameDifferentHunt(t *testing.T) {
	ts := newTestStores(t)

	h1 := ts.pastHunt(t, "frosh")
	h2 := ts.pastHunt(t, "winter hunt")
	if _, err := ts.tasks.Create("task", "", 2, h1.ID); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := ts.tasks.Create("task", "", 2, h2.ID); err != nil {
		t.Fatalf("same name under different hunt should succeed: %v", err)
	}
}

func TestTaskEdit(t *testing.T) {
	ts := newTestStores(t)

	h := ts.pastHunt(t, "frosh")
	h2 := ts.pastHunt(t, "winter hunt")
	task, _ := ts.tasks.Create("task number 4", "original", 2, h.ID)

	updated, err := ts.tasks.Edit(task.ID, map[string]any{
		"name":        "task number 4 bis",
		"description": "edited",
		"points":      3,
		"hunt_id":     h2.ID,
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.Name != "task number 4 bis" {
		t.Errorf("name = %q", updated.Name)
	}
	if updated.Description != "edited" {
		t.Errorf("description = %q", updated.Description)
	}
	if updated.Points != 3 {
		t.Errorf("points = %d, want 3", updated.Points)
	}
	if updated.HuntID != h2.ID {
		t.Errorf("hunt_id = %d, want %d", updated.HuntID, h2.ID)
	}
}

func TestTaskEditPartial(t *testing.T) {
	ts := newTestStores(t)

	h := ts.pastHunt(t, "frosh")
	task, _ := ts.tasks.Create("task", "keep me", 2, h.ID)

	updated, err := ts.tasks.Edit(task.ID, map[string]any{"points": 5})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.Points != 5 {
		t.Errorf("points = %d, want 5", updated.Points)
	}
	if updated.Description != "keep me" {
		t.Errorf("description overwritten: %q", updated.Description)
	}
}

func TestTaskEditNotFound(t *testing.T) {
	ts := newTestStores(t)

	_, err := ts.tasks.Edit(-1, map[string]any{"points": 5})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskEditUnknownColumn(t *testing.T) {
	ts := newTestStores(t)

	h := ts.pastHunt(t, "frosh")
	task, _ := ts.tasks.Create("task", "", 2, h.ID)

	_, err := ts.tasks.Edit(task.ID, map[string]any{"status": "COMPLETED"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTaskDelete(t *testing.T) {
	ts := newTestStores(t)

	h := ts.pastHunt(t, "frosh")
	task, _ := ts.tasks.Create("task", "", 2, h.ID)

	if err := ts.tasks.Delete(task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := ts.tasks.GetByID(task.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestTaskDeleteNotFound(t *testing.T) {
	ts := newTestStores(t)

	if err := ts.tasks.Delete(-1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
