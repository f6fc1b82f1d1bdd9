package model

import "time"

type AuditStatus string

const (
	AuditStatusCompliant    AuditStatus = "compliant"
	AuditStatusNonCompliant AuditStatus = "non_compliant"
	AuditStatusPartial      AuditStatus = "partial"
)

type ComplianceAudit struct {
	ID          string      `json:"id"`
	Framework   string      `json:"framework"`
	Requirement string      `json:"requirement"`
	Status      AuditStatus `json:"status"`
	Score       float64     `json:"score"`
	Evidence    string      `json:"evidence"`
	LastAudit   time.Time   `json:"last_audit"`
	NextAudit   *time.Time  `json:"next_audit"`
	Owner       string      `json:"owner"`
	Notes       string      `json:"notes"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
