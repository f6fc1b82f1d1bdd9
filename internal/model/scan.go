package model

import "time"

type ScanType string

const (
	ScanTypeVulnerability   ScanType = "vulnerability"
	ScanTypeCompliance      ScanType = "compliance"
	ScanTypeNetwork         ScanType = "network"
	ScanTypeWebApplication  ScanType = "web_application"
	ScanTypePenetrationTest ScanType = "penetration_test"
)

type ScanStatus string

const (
	ScanStatusRunning   ScanStatus = "running"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// SeveritySummary is the per-severity finding count attached to a scan. It is
// reported by the scanner itself and is independent of VulnerabilitiesFound.
type SeveritySummary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

type Scan struct {
	ID                   string          `json:"id"`
	ScanType             ScanType        `json:"scan_type"`
	Target               string          `json:"target"`
	Status               ScanStatus      `json:"status"`
	SeveritySummary      SeveritySummary `json:"severity_summary"`
	VulnerabilitiesFound int             `json:"vulnerabilities_found"`
	AssetsScanned        int             `json:"assets_scanned"`
	StartedAt            time.Time       `json:"started_at"`
	CompletedAt          *time.Time      `json:"completed_at"`
	DurationSeconds      *float64        `json:"duration_seconds"`
	ReportBucket         *string         `json:"report_bucket,omitempty"`
	ReportKey            *string         `json:"report_key,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// NewScanRequest carries the caller-supplied fields for scan creation. All
// other columns receive defaults at insert time.
type NewScanRequest struct {
	ScanType ScanType `json:"scan_type"`
	Target   string   `json:"target"`
}
