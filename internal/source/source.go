// Package source defines the read contract the aggregation layer depends on,
// plus the error taxonomy shared by all data-source implementations. Both the
// Postgres store and the Airtable client satisfy DataSource, so everything
// above this boundary is storage-agnostic.
package source

import (
	"context"

	"github.com/yourorg/secops-dashboard/internal/model"
)

// DataSource is the per-domain read surface. Each method returns records in
// the domain's default order (see implementations); limit <= 0 means no limit.
// Implementations wrap query failures in *FetchError and never return partial
// result sets silently.
type DataSource interface {
	Scans(ctx context.Context, limit int) ([]model.Scan, error)
	Vulnerabilities(ctx context.Context, limit int) ([]model.Vulnerability, error)
	Assets(ctx context.Context, limit int) ([]model.Asset, error)
	Checks(ctx context.Context, limit int) ([]model.MonitoringCheck, error)
	Audits(ctx context.Context, limit int) ([]model.ComplianceAudit, error)
	Incidents(ctx context.Context, limit int) ([]model.Incident, error)
	TrainingModules(ctx context.Context, limit int) ([]model.TrainingModule, error)
}
