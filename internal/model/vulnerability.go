package model

import "time"

// Severity is the shared ordinal danger scale. Vulnerabilities use all five
// levels; incidents and asset criticality stop at low.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Rank orders severities for sorting, critical first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 4
	default:
		return 5
	}
}

type VulnerabilityStatus string

const (
	VulnerabilityStatusOpen       VulnerabilityStatus = "open"
	VulnerabilityStatusInProgress VulnerabilityStatus = "in_progress"
	VulnerabilityStatusResolved   VulnerabilityStatus = "resolved"
)

type Vulnerability struct {
	ID            string              `json:"id"`
	ScanID        string              `json:"scan_id"`
	CVEID         *string             `json:"cve_id"`
	Title         string              `json:"title"`
	Description   *string             `json:"description"`
	Severity      Severity            `json:"severity"`
	CVSSScore     *float64            `json:"cvss_score"`
	AffectedAsset string              `json:"affected_asset"`
	Port          *int                `json:"port"`
	Service       *string             `json:"service"`
	Remediation   *string             `json:"remediation"`
	Status        VulnerabilityStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
