package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/yourorg/secops-dashboard/internal/model"
	"github.com/yourorg/secops-dashboard/internal/source"
)

// CreateScan validates and inserts a new scan with the standard defaults:
// status running, zeroed severity summary and counters, started_at now. The
// persisted row is returned including the generated id.
func (s *Store) CreateScan(ctx context.Context, req model.NewScanRequest) (*model.Scan, error) {
	target := strings.TrimSpace(req.Target)
	scanType := strings.TrimSpace(string(req.ScanType))
	if target == "" {
		return nil, &source.CreateError{Op: "scan", Err: errors.New("target is required")}
	}
	if scanType == "" {
		return nil, &source.CreateError{Op: "scan", Err: errors.New("scan_type is required")}
	}

	row := s.Pool.QueryRow(ctx, `
INSERT INTO scans (id, scan_type, target, status, severity_summary,
                   vulnerabilities_found, assets_scanned, started_at)
VALUES ($1::uuid, $2, $3, 'running',
        '{"critical":0,"high":0,"medium":0,"low":0,"info":0}'::jsonb,
        0, 0, now())
RETURNING id::text, scan_type, target, status, severity_summary,
          vulnerabilities_found, assets_scanned, started_at, completed_at,
          duration_seconds, report_bucket, report_key, created_at`,
		uuid.NewString(), scanType, target)

	var (
		sc          model.Scan
		typeStr     string
		statusStr   string
		summaryJSON []byte
	)
	if err := row.Scan(&sc.ID, &typeStr, &sc.Target, &statusStr, &summaryJSON,
		&sc.VulnerabilitiesFound, &sc.AssetsScanned, &sc.StartedAt, &sc.CompletedAt,
		&sc.DurationSeconds, &sc.ReportBucket, &sc.ReportKey, &sc.CreatedAt); err != nil {
		return nil, &source.CreateError{Op: "scan", Err: err}
	}
	sc.ScanType = model.ScanType(typeStr)
	sc.Status = model.ScanStatus(statusStr)
	_ = json.Unmarshal(summaryJSON, &sc.SeveritySummary)
	return &sc, nil
}

// UpdateVulnerabilityStatus is idempotent and bumps updated_at as a side
// effect, matching the triage workflow in the UI.
func (s *Store) UpdateVulnerabilityStatus(ctx context.Context, id string, status model.VulnerabilityStatus) error {
	_, err := s.Pool.Exec(ctx, `
UPDATE vulnerabilities
SET status=$2, updated_at=now()
WHERE id=$1::uuid`, id, string(status))
	if err != nil {
		return &source.UpdateError{Op: "vulnerability status", Err: err}
	}
	return nil
}
