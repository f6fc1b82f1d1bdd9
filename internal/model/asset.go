package model

import "time"

type Asset struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	IPAddress       *string    `json:"ip_address"`
	Hostname        *string    `json:"hostname"`
	OperatingSystem *string    `json:"operating_system"`
	Location        *string    `json:"location"`
	Criticality     Severity   `json:"criticality"`
	LastScanAt      *time.Time `json:"last_scan_at"`
	// VulnerabilityCount is maintained by an external process, not derived
	// from the vulnerabilities table at read time.
	VulnerabilityCount int       `json:"vulnerability_count"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
