package model

import (
	"encoding/json"
	"time"
)

type CheckStatus string

const (
	CheckStatusHealthy  CheckStatus = "healthy"
	CheckStatusWarning  CheckStatus = "warning"
	CheckStatusCritical CheckStatus = "critical"
)

type MonitoringCheck struct {
	ID        string      `json:"id"`
	CheckName string      `json:"check_name"`
	CheckType string      `json:"check_type"`
	Target    string      `json:"target"`
	Status    CheckStatus `json:"status"`
	LastCheck time.Time   `json:"last_check"`
	// ResponseTime is in milliseconds.
	ResponseTime     float64         `json:"response_time"`
	UptimePercentage float64         `json:"uptime_percentage"`
	Details          json.RawMessage `json:"details"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
