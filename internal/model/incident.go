package model

import "time"

type IncidentStatus string

const (
	IncidentStatusOpen          IncidentStatus = "open"
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusContained     IncidentStatus = "contained"
	IncidentStatusResolved      IncidentStatus = "resolved"
	IncidentStatusClosed        IncidentStatus = "closed"
)

type Incident struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Severity        Severity       `json:"severity"`
	Status          IncidentStatus `json:"status"`
	Category        string         `json:"category"`
	Description     string         `json:"description"`
	AffectedSystems []string       `json:"affected_systems"`
	DetectedAt      time.Time      `json:"detected_at"`
	// ResolvedAt, when set, is never earlier than DetectedAt.
	ResolvedAt      *time.Time `json:"resolved_at"`
	AssignedTo      string     `json:"assigned_to"`
	Impact          string     `json:"impact"`
	ResponseActions string     `json:"response_actions"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
