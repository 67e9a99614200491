package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/studyplanner/StudyPlannerBackend/db"
	"github.com/studyplanner/StudyPlannerBackend/models"
)

func goalPayload(title, goalType string) map[string]interface{} {
	return map[string]interface{}{
		"title":      title,
		"type":       goalType,
		"priority":   "medium",
		"start_date": "2026-08-01T00:00:00Z",
		"end_date":   "2026-09-01T00:00:00Z",
	}
}

func decodeGoal(t *testing.T, data []byte) models.Goal {
	t.Helper()
	var goal models.Goal
	if err := json.Unmarshal(data, &goal); err != nil {
		t.Fatalf("decode goal: %v", err)
	}
	return goal
}

func TestCreateGoalIgnoresCallerSuppliedLifecycleFields(t *testing.T) {
	r := setupTest(t)
	token, _ := registerUser(t, r, "alice")

	payload := goalPayload("Learn Go", "short_term")
	payload["status"] = "completed"
	payload["progress"] = 80
	payload["points"] = 999

	w := doJSON(t, r, http.MethodPost, "/api/goals", token, payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	goal := decodeGoal(t, w.Body.Bytes())
	if goal.Status != models.StatusNotStarted {
		t.Errorf("status = %q, want %q", goal.Status, models.StatusNotStarted)
	}
	if goal.Progress != 0 {
		t.Errorf("progress = %d, want 0", goal.Progress)
	}
	if goal.Points != 0 {
		t.Errorf("points = %d, want 0", goal.Points)
	}
}

func TestUpdateGoalAwardsPointsOnceOnCompletion(t *testing.T) {
	r := setupTest(t)
	token, _ := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/goals", token, goalPayload("Thesis", "long_term"))
	goal := decodeGoal(t, w.Body.Bytes())

	// not_started -> in_progress: no points yet.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/goals/%d", goal.ID), token,
		map[string]interface{}{"status": "in_progress"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	updated := decodeGoal(t, w.Body.Bytes())
	if updated.Points != 0 {
		t.Fatalf("points after in_progress = %d, want 0", updated.Points)
	}

	// in_progress -> completed: long_term awards 100.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/goals/%d", goal.ID), token,
		map[string]interface{}{"status": "completed"})
	updated = decodeGoal(t, w.Body.Bytes())
	if updated.Points != models.PointsLongTerm {
		t.Fatalf("points after completion = %d, want %d", updated.Points, models.PointsLongTerm)
	}

	// Re-submitting completed must not re-award.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/goals/%d", goal.ID), token,
		map[string]interface{}{"status": "completed", "progress": 100})
	updated = decodeGoal(t, w.Body.Bytes())
	if updated.Points != models.PointsLongTerm {
		t.Fatalf("points after re-submit = %d, want %d", updated.Points, models.PointsLongTerm)
	}
}

func TestUpdateGoalShortTermAwardsFifty(t *testing.T) {
	r := setupTest(t)
	token, _ := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/goals", token, goalPayload("Read a paper", "short_term"))
	goal := decodeGoal(t, w.Body.Bytes())

	// Straight to completed from not_started.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/goals/%d", goal.ID), token,
		map[string]interface{}{"status": "completed"})
	updated := decodeGoal(t, w.Body.Bytes())
	if updated.Points != models.PointsShortTerm {
		t.Fatalf("points = %d, want %d", updated.Points, models.PointsShortTerm)
	}
}

func TestUpdateGoalRejectsOutOfRangeProgress(t *testing.T) {
	r := setupTest(t)
	token, _ := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/goals", token, goalPayload("Learn Go", "short_term"))
	goal := decodeGoal(t, w.Body.Bytes())

	for _, progress := range []int{-1, 101} {
		w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/goals/%d", goal.ID), token,
			map[string]interface{}{"progress": progress})
		if w.Code != http.StatusBadRequest {
			t.Errorf("progress %d: expected 400, got %d", progress, w.Code)
		}
	}
}

func TestListGoalsFiltersByTypeNewestFirst(t *testing.T) {
	r := setupTest(t)
	token, userID := registerUser(t, r, "alice")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		goalType := models.GoalShortTerm
		if i%2 == 1 {
			goalType = models.GoalLongTerm
		}
		goal := models.Goal{
			UserID:    userID,
			Title:     fmt.Sprintf("goal-%d", i),
			Type:      goalType,
			Priority:  models.PriorityLow,
			Status:    models.StatusNotStarted,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.DB.Create(&goal).Error; err != nil {
			t.Fatalf("seed goal: %v", err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/goals?type=short_term", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var resp struct {
		Goals      []models.Goal `json:"goals"`
		Pagination struct {
			Total      int `json:"total"`
			Page       int `json:"page"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}

	if resp.Pagination.Total != 3 {
		t.Fatalf("total = %d, want 3", resp.Pagination.Total)
	}
	for _, goal := range resp.Goals {
		if goal.Type != models.GoalShortTerm {
			t.Errorf("goal %q has type %q", goal.Title, goal.Type)
		}
	}
	for i := 1; i < len(resp.Goals); i++ {
		if resp.Goals[i].CreatedAt.After(resp.Goals[i-1].CreatedAt) {
			t.Errorf("goals not in descending creation order at index %d", i)
		}
	}
}

func TestListGoalsPagination(t *testing.T) {
	r := setupTest(t)
	token, userID := registerUser(t, r, "alice")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		goal := models.Goal{
			UserID:    userID,
			Title:     fmt.Sprintf("goal-%d", i),
			Type:      models.GoalShortTerm,
			Priority:  models.PriorityLow,
			Status:    models.StatusNotStarted,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.DB.Create(&goal).Error; err != nil {
			t.Fatalf("seed goal: %v", err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/goals?page=3&limit=10", token, nil)
	var resp struct {
		Goals      []models.Goal `json:"goals"`
		Pagination struct {
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if resp.Pagination.Total != 25 || resp.Pagination.TotalPages != 3 {
		t.Fatalf("pagination = %+v, want total 25 totalPages 3", resp.Pagination)
	}
	if len(resp.Goals) != 5 {
		t.Fatalf("page 3 has %d goals, want 5", len(resp.Goals))
	}
}

func TestDeleteGoalNotFoundAndOwnership(t *testing.T) {
	r := setupTest(t)
	aliceToken, _ := registerUser(t, r, "alice")
	bobToken, _ := registerUser(t, r, "bob")

	w := doJSON(t, r, http.MethodPost, "/api/goals", aliceToken, goalPayload("Private", "short_term"))
	goal := decodeGoal(t, w.Body.Bytes())

	// Nonexistent id.
	w = doJSON(t, r, http.MethodDelete, "/api/goals/99999", aliceToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete missing: expected 404, got %d", w.Code)
	}

	// Another user's goal must look exactly like a missing one.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/goals/%d", goal.ID), bobToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-user delete: expected 404, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/goals/%d", goal.ID), bobToken,
		map[string]interface{}{"status": "completed"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-user update: expected 404, got %d", w.Code)
	}

	// Owner delete succeeds, then the goal is gone.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/goals/%d", goal.ID), aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/goals/%d", goal.ID), aliceToken,
		map[string]interface{}{"status": "completed"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("update after delete: expected 404, got %d", w.Code)
	}
}

func TestGoalLifecycleScenarioWithDashboard(t *testing.T) {
	r := setupTest(t)
	token, _ := registerUser(t, r, "alice")

	// Goal A: long_term, completed through in_progress.
	w := doJSON(t, r, http.MethodPost, "/api/goals", token, goalPayload("A", "long_term"))
	goalA := decodeGoal(t, w.Body.Bytes())

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/goals/%d", goalA.ID), token,
		map[string]interface{}{"status": "in_progress"})
	if pts := decodeGoal(t, w.Body.Bytes()).Points; pts != 0 {
		t.Fatalf("goal A points after in_progress = %d, want 0", pts)
	}
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/goals/%d", goalA.ID), token,
		map[string]interface{}{"status": "completed"})
	if pts := decodeGoal(t, w.Body.Bytes()).Points; pts != 100 {
		t.Fatalf("goal A points = %d, want 100", pts)
	}

	// Goal B: short_term, straight to completed.
	w = doJSON(t, r, http.MethodPost, "/api/goals", token, goalPayload("B", "short_term"))
	goalB := decodeGoal(t, w.Body.Bytes())
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/goals/%d", goalB.ID), token,
		map[string]interface{}{"status": "completed"})
	if pts := decodeGoal(t, w.Body.Bytes()).Points; pts != 50 {
		t.Fatalf("goal B points = %d, want 50", pts)
	}

	w = doJSON(t, r, http.MethodGet, "/api/statistics", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("statistics: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var stats struct {
		CompletionRate float64 `json:"completionRate"`
		TotalGoals     int     `json:"totalGoals"`
		CompletedGoals int     `json:"completedGoals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalGoals != 2 || stats.CompletedGoals != 2 || stats.CompletionRate != 100 {
		t.Fatalf("stats = %+v, want 2/2 at 100%%", stats)
	}
}

func TestUpdateGoalReplacesMilestones(t *testing.T) {
	r := setupTest(t)
	token, _ := registerUser(t, r, "alice")

	payload := goalPayload("Course", "short_term")
	payload["milestones"] = []map[string]interface{}{
		{"title": "chapter 1", "completed": false},
		{"title": "chapter 2", "completed": false},
	}
	w := doJSON(t, r, http.MethodPost, "/api/goals", token, payload)
	goal := decodeGoal(t, w.Body.Bytes())
	if len(goal.Milestones) != 2 {
		t.Fatalf("created with %d milestones, want 2", len(goal.Milestones))
	}

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/goals/%d", goal.ID), token,
		map[string]interface{}{
			"milestones": []map[string]interface{}{
				{"title": "chapter 1", "completed": true},
			},
		})
	updated := decodeGoal(t, w.Body.Bytes())
	if len(updated.Milestones) != 1 || !updated.Milestones[0].Completed {
		t.Fatalf("milestones not replaced: %+v", updated.Milestones)
	}
}

func TestCreateGoalRejectsEndBeforeStart(t *testing.T) {
	r := setupTest(t)
	token, _ := registerUser(t, r, "alice")

	payload := goalPayload("Backwards", "short_term")
	payload["start_date"] = "2026-09-01T00:00:00Z"
	payload["end_date"] = "2026-08-01T00:00:00Z"

	w := doJSON(t, r, http.MethodPost, "/api/goals", token, payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
}
