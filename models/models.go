package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Goal types, statuses and priorities as stored in the DB.
const (
	GoalShortTerm = "short_term"
	GoalLongTerm  = "long_term"

	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Book reading statuses.
const (
	BookReading   = "reading"
	BookCompleted = "completed"
	BookPlanned   = "planned"
)

// Points awarded when a goal transitions into completed.
const (
	PointsLongTerm  = 100
	PointsShortTerm = 50
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique" json:"username"`
	Email        string    `gorm:"unique" json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Role         string    `gorm:"default:user" json:"role"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Milestone struct {
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type Goal struct {
	ID                uint                           `gorm:"primaryKey" json:"id"`
	UserID            uint                           `gorm:"index" json:"user_id"`
	Title             string                         `json:"title"`
	Description       string                         `json:"description"`
	Type              string                         `json:"type"`
	Category          string                         `json:"category"`
	StartDate         time.Time                      `json:"start_date"`
	EndDate           time.Time                      `json:"end_date"`
	Priority          string                         `json:"priority"`
	Status            string                         `gorm:"default:not_started" json:"status"`
	Progress          int                            `gorm:"default:0" json:"progress"`
	Milestones        datatypes.JSONSlice[Milestone] `json:"milestones"`
	ReminderFrequency string                         `json:"reminder_frequency"`
	LastReminderSent  *time.Time                     `json:"last_reminder_sent,omitempty"`
	Points            int                            `gorm:"default:0" json:"points"`
	CreatedAt         time.Time                      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time                      `gorm:"autoUpdateTime" json:"updated_at"`
}

type Note struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	UserID    uint                        `gorm:"index" json:"user_id"`
	Title     string                      `json:"title"`
	Content   string                      `json:"content"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	Category  string                      `json:"category"`
	CreatedAt time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

type Diary struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood"`
	Weather   string    `json:"weather"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type StudyRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Date      time.Time `json:"date"`
	Duration  int       `json:"duration"` // minutes
	Subject   string    `json:"subject"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type BookRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index" json:"user_id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	TotalPages   int       `json:"total_pages"`
	CurrentPage  int       `gorm:"default:0" json:"current_page"`
	Status       string    `gorm:"default:planned" json:"status"`
	StartDate    time.Time `json:"start_date"`
	LastReadDate time.Time `json:"last_read_date"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
