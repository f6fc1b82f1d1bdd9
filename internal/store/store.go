// Package store is the Postgres data source backing the dashboard. One table
// per domain; the aggregation layer only ever reads snapshots, so every query
// here is a plain select with a default sort, plus the two write paths the
// UI exposes (new scan, vulnerability status).
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct{ Pool *pgxpool.Pool }

func Open(ctx context.Context, url string) (*Store, error) {
	p, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: p}, nil
}

func (s *Store) Close() { s.Pool.Close() }

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS scans (
  id UUID PRIMARY KEY,
  scan_type TEXT NOT NULL CHECK (scan_type IN ('vulnerability','compliance','network','web_application','penetration_test')),
  target TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('running','completed','failed')),
  severity_summary JSONB NOT NULL DEFAULT '{"critical":0,"high":0,"medium":0,"low":0,"info":0}'::jsonb,
  vulnerabilities_found INTEGER NOT NULL DEFAULT 0 CHECK (vulnerabilities_found >= 0),
  assets_scanned INTEGER NOT NULL DEFAULT 0 CHECK (assets_scanned >= 0),
  started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  completed_at TIMESTAMPTZ,
  duration_seconds DOUBLE PRECISION CHECK (duration_seconds >= 0),
  report_bucket TEXT,
  report_key TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_scans_created ON scans (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_scans_status ON scans (status);

CREATE TABLE IF NOT EXISTS vulnerabilities (
  id UUID PRIMARY KEY,
  scan_id UUID NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
  cve_id TEXT,
  title TEXT NOT NULL,
  description TEXT,
  severity TEXT NOT NULL CHECK (severity IN ('critical','high','medium','low','info')),
  cvss_score DOUBLE PRECISION CHECK (cvss_score BETWEEN 0 AND 10),
  affected_asset TEXT NOT NULL,
  port INTEGER CHECK (port BETWEEN 0 AND 65535),
  service TEXT,
  remediation TEXT,
  status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open','in_progress','resolved')),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_vulnerabilities_scan ON vulnerabilities (scan_id, severity);
CREATE INDEX IF NOT EXISTS idx_vulnerabilities_created ON vulnerabilities (created_at DESC);

CREATE TABLE IF NOT EXISTS assets (
  id UUID PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  ip_address TEXT,
  hostname TEXT,
  operating_system TEXT,
  location TEXT,
  criticality TEXT NOT NULL CHECK (criticality IN ('critical','high','medium','low')),
  last_scan_at TIMESTAMPTZ,
  vulnerability_count INTEGER NOT NULL DEFAULT 0 CHECK (vulnerability_count >= 0),
  status TEXT NOT NULL DEFAULT 'active',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_assets_criticality ON assets (criticality);

CREATE TABLE IF NOT EXISTS monitoring_checks (
  id UUID PRIMARY KEY,
  check_name TEXT NOT NULL,
  check_type TEXT NOT NULL,
  target TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('healthy','warning','critical')),
  last_check TIMESTAMPTZ NOT NULL DEFAULT now(),
  response_time DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (response_time >= 0),
  uptime_percentage DOUBLE PRECISION NOT NULL DEFAULT 100 CHECK (uptime_percentage BETWEEN 0 AND 100),
  details JSONB NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_monitoring_checks_last ON monitoring_checks (last_check DESC);

CREATE TABLE IF NOT EXISTS compliance_audits (
  id UUID PRIMARY KEY,
  framework TEXT NOT NULL,
  requirement TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('compliant','non_compliant','partial')),
  score DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (score BETWEEN 0 AND 100),
  evidence TEXT NOT NULL DEFAULT '',
  last_audit TIMESTAMPTZ NOT NULL DEFAULT now(),
  next_audit TIMESTAMPTZ,
  owner TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_compliance_audits_last ON compliance_audits (last_audit DESC);
CREATE INDEX IF NOT EXISTS idx_compliance_audits_framework ON compliance_audits (framework);

CREATE TABLE IF NOT EXISTS incidents (
  id UUID PRIMARY KEY,
  title TEXT NOT NULL,
  severity TEXT NOT NULL CHECK (severity IN ('critical','high','medium','low')),
  status TEXT NOT NULL CHECK (status IN ('open','investigating','contained','resolved','closed')),
  category TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  affected_systems TEXT[] NOT NULL DEFAULT '{}',
  detected_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  resolved_at TIMESTAMPTZ CHECK (resolved_at IS NULL OR resolved_at >= detected_at),
  assigned_to TEXT NOT NULL DEFAULT '',
  impact TEXT NOT NULL DEFAULT '',
  response_actions TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_incidents_detected ON incidents (detected_at DESC);
CREATE INDEX IF NOT EXISTS idx_incidents_status ON incidents (status);

CREATE TABLE IF NOT EXISTS training_modules (
  id UUID PRIMARY KEY,
  title TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  duration_minutes INTEGER NOT NULL DEFAULT 30 CHECK (duration_minutes > 0),
  completion_rate DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (completion_rate BETWEEN 0 AND 100),
  passing_score DOUBLE PRECISION NOT NULL DEFAULT 80,
  status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('active','draft','archived')),
  total_enrolled INTEGER NOT NULL DEFAULT 0 CHECK (total_enrolled >= 0),
  total_completed INTEGER NOT NULL DEFAULT 0 CHECK (total_completed >= 0),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_training_modules_created ON training_modules (created_at DESC);
`)
	return err
}
