package store

import (
	"errors"
	"testing"

	"github.com/openfrosh/scunt/internal/lifecycle"
	"github.com/openfrosh/scunt/internal/model"
)

// startedHunt creates a hunt with one team and one task and starts it,
// returning the materialized pair.
func startedHunt(t *testing.T, ts *testStores, huntName string) (*model.Task, *model.Team, *model.User) {
	t.Helper()
	h := ts.pastHunt(t, huntName)
	leader := ts.user(t, huntName+"-lead", huntName+"-lead@example.com")
	team, err := ts.teams.Create("A", h.ID, leader.ID, 10)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	task, err := ts.tasks.Create("t1", "", 2, h.ID)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := ts.hunts.Start(h.ID); err != nil {
		t.Fatalf("start hunt: %v", err)
	}
	return task, team, leader
}

func TestSubmitApproveFlow(t *testing.T) {
	ts := newTestStores(t)
	task, team, _ := startedHunt(t, ts, "frosh")

	if err := ts.assignments.Submit(task.ID, team.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	status, err := ts.assignments.GetStatus(task.ID, team.ID)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if status != lifecycle.AssignmentSubmitted {
		t.Errorf("status = %q, want SUBMITTED", status)
	}

	if err := ts.assignments.Approve(task.ID, team.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	status, _ = ts.assignments.GetStatus(task.ID, team.ID)
	if status != lifecycle.AssignmentCompleted {
		t.Errorf("status = %q, want COMPLETED", status)
	}

	// Approval credits the task's points to the team, exactly once.
	got, _ := ts.teams.GetByID(team.ID)
	if got.Points != 2 {
		t.Errorf("team points = %d, want 2", got.Points)
	}
}

func TestSubmitNoRelation(t *testing.T) {
	ts := newTestStores(t)

	err := ts.assignments.Submit(1, 1)
	if !errors.Is(err, ErrNoRelation) {
		t.Fatalf("expected ErrNoRelation, got %v", err)
	}
}

func TestSubmitTwice(t *testing.T) {
	ts := newTestStores(t)
	task, team, _ := startedHunt(t, ts, "frosh")

	if err := ts.assignments.Submit(task.ID, team.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := ts.assignments.Submit(task.ID, team.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApproveWithoutSubmit(t *testing.T) {
	ts := newTestStores(t)
	task, team, _ := startedHunt(t, ts, "frosh")

	err := ts.assignments.Approve(task.ID, team.ID)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// No points on a failed approval.
	got, _ := ts.teams.GetByID(team.ID)
	if got.Points != 0 {
		t.Errorf("team points = %d, want 0", got.Points)
	}
}

func TestApproveTwice(t *testing.T) {
	ts := newTestStores(t)
	task, team, _ := startedHunt(t, ts, "frosh")

	ts.assignments.Submit(task.ID, team.ID)
	if err := ts.assignments.Approve(task.ID, team.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := ts.assignments.Approve(task.ID, team.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// Points credited exactly once.
	got, _ := ts.teams.GetByID(team.ID)
	if got.Points != 2 {
		t.Errorf("team points = %d, want 2", got.Points)
	}
}

func TestReject(t *testing.T) {
	ts := newTestStores(t)
	task, team, _ := startedHunt(t, ts, "frosh")

	ts.assignments.Submit(task.ID, team.ID)
	if err := ts.assignments.Reject(task.ID, team.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	status, _ := ts.assignments.GetStatus(task.ID, team.ID)
	if status != lifecycle.AssignmentPending {
		t.Errorf("status = %q, want PENDING", status)
	}

	got, _ := ts.teams.GetByID(team.ID)
	if got.Points != 0 {
		t.Errorf("team points = %d, want 0 after reject", got.Points)
	}
}

func TestRejectWithoutSubmit(t *testing.T) {
	ts := newTestStores(t)
	task, team, _ := startedHunt(t, ts, "frosh")

	if err := ts.assignments.Reject(task.ID, team.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestResubmitAfterReject(t *testing.T) {
	ts := newTestStores(t)
	task, team, _ := startedHunt(t, ts, "frosh")

	ts.assignments.Submit(task.ID, team.ID)
	ts.assignments.Reject(task.ID, team.ID)
	if err := ts.assignments.Submit(task.ID, team.ID); err != nil {
		t.Fatalf("resubmit after reject: %v", err)
	}
}

func TestGetStatusNoRelation(t *testing.T) {
	ts := newTestStores(t)

	_, err := ts.assignments.GetStatus(1, 1)
	if !errors.Is(err, ErrNoRelation) {
		t.Fatalf("expected ErrNoRelation, got %v", err)
	}
}

func TestAddComment(t *testing.T) {
	ts := newTestStores(t)
	task, team, leader := startedHunt(t, ts, "frosh")

	c, err := ts.assignments.AddComment(task.ID, team.ID, leader.ID, "we found it behind the gym")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if c.ID == 0 {
		t.Error("expected non-zero comment ID")
	}
	if c.Body != "we found it behind the gym" {
		t.Errorf("body = %q", c.Body)
	}
}

func TestAddCommentNoRelation(t *testing.T) {
	ts := newTestStores(t)
	u := ts.user(t, "u1", "u1@example.com")

	_, err := ts.assignments.AddComment(1, 1, u.ID, "hello")
	if !errors.Is(err, ErrNoRelation) {
		t.Fatalf("expected ErrNoRelation, got %v", err)
	}
}

func TestListComments(t *testing.T) {
	ts := newTestStores(t)
	task, team, leader := startedHunt(t, ts, "frosh")

	for _, body := range []string{"first", "second", "third"} {
		if _, err := ts.assignments.AddComment(task.ID, team.ID, leader.ID, body); err != nil {
			t.Fatalf("add comment: %v", err)
		}
	}

	comments, err := ts.assignments.ListComments(task.ID, team.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	for i, want := range []string{"first", "second", "third"} {
		if comments[i].Body != want {
			t.Errorf("comments[%d].Body = %q, want %q", i, comments[i].Body, want)
		}
	}
}

func TestListCommentsEmpty(t *testing.T) {
	ts := newTestStores(t)
	task, team, _ := startedHunt(t, ts, "frosh")

	comments, err := ts.assignments.ListComments(task.ID, team.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("expected empty thread, got %d comments", len(comments))
	}
}

// The full competition flow from hunt creation to scoring.
func TestHuntEndToEnd(t *testing.T) {
	ts := newTestStores(t)

	h := ts.pastHunt(t, "frosh")
	x := ts.user(t, "x", "x@example.com")
	team, err := ts.teams.Create("A", h.ID, x.ID, 10)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	task, err := ts.tasks.Create("t1", "", 2, h.ID)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := ts.hunts.Start(h.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := ts.assignments.Submit(task.ID, team.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	status, _ := ts.assignments.GetStatus(task.ID, team.ID)
	if status != lifecycle.AssignmentSubmitted {
		t.Fatalf("status = %q, want SUBMITTED", status)
	}
	if err := ts.assignments.Approve(task.ID, team.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	status, _ = ts.assignments.GetStatus(task.ID, team.ID)
	if status != lifecycle.AssignmentCompleted {
		t.Fatalf("status = %q, want COMPLETED", status)
	}
	got, _ := ts.teams.GetByID(team.ID)
	if got.Points != 2 {
		t.Fatalf("team points = %d, want 2", got.Points)
	}
}
