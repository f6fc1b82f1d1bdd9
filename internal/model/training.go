package model

import "time"

type ModuleStatus string

const (
	ModuleStatusActive   ModuleStatus = "active"
	ModuleStatusDraft    ModuleStatus = "draft"
	ModuleStatusArchived ModuleStatus = "archived"
)

type TrainingModule struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Category        string       `json:"category"`
	Description     string       `json:"description"`
	DurationMinutes int          `json:"duration_minutes"`
	CompletionRate  float64      `json:"completion_rate"`
	PassingScore    float64      `json:"passing_score"`
	Status          ModuleStatus `json:"status"`
	TotalEnrolled   int          `json:"total_enrolled"`
	TotalCompleted  int          `json:"total_completed"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
