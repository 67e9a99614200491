package services

import (
	"errors"
	"time"

	"github.com/studyplanner/StudyPlannerBackend/models"
	"gorm.io/datatypes"
)

var ErrInvalidProgress = errors.New("progress must be between 0 and 100")

// GoalPatch is a partial goal update; nil fields are left untouched.
type GoalPatch struct {
	Title             *string             `json:"title"`
	Description       *string             `json:"description"`
	Type              *string             `json:"type" binding:"omitempty,oneof=short_term long_term"`
	Category          *string             `json:"category"`
	StartDate         *time.Time          `json:"start_date"`
	EndDate           *time.Time          `json:"end_date"`
	Priority          *string             `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status            *string             `json:"status" binding:"omitempty,oneof=not_started in_progress completed"`
	Progress          *int                `json:"progress"`
	Milestones        *[]models.Milestone `json:"milestones"`
	ReminderFrequency *string             `json:"reminder_frequency" binding:"omitempty,oneof=daily weekly monthly"`
}

// ApplyUpdate merges a patch into an existing goal and handles the point award
// for the transition into completed. Points are assigned exactly once: saving
// an already-completed goal never changes them.
func ApplyUpdate(goal models.Goal, patch GoalPatch) (models.Goal, error) {
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		return goal, ErrInvalidProgress
	}

	// The award is decided by the goal's state before the patch.
	prevStatus := goal.Status
	prevType := goal.Type

	if patch.Title != nil {
		goal.Title = *patch.Title
	}
	if patch.Description != nil {
		goal.Description = *patch.Description
	}
	if patch.Type != nil {
		goal.Type = *patch.Type
	}
	if patch.Category != nil {
		goal.Category = *patch.Category
	}
	if patch.StartDate != nil {
		goal.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		goal.EndDate = *patch.EndDate
	}
	if patch.Priority != nil {
		goal.Priority = *patch.Priority
	}
	if patch.Progress != nil {
		goal.Progress = *patch.Progress
	}
	if patch.Milestones != nil {
		goal.Milestones = datatypes.NewJSONSlice(*patch.Milestones)
	}
	if patch.ReminderFrequency != nil {
		goal.ReminderFrequency = *patch.ReminderFrequency
	}

	if patch.Status != nil {
		if *patch.Status == models.StatusCompleted && prevStatus != models.StatusCompleted {
			if prevType == models.GoalLongTerm {
				goal.Points = models.PointsLongTerm
			} else {
				goal.Points = models.PointsShortTerm
			}
		}
		goal.Status = *patch.Status
	}

	return goal, nil
}
