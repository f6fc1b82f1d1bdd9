package format

import "strings"

// Category is the semantic display bucket a severity or status maps to. The
// presentation layer decides colors; the core only categorizes.
type Category string

const (
	CategoryDanger   Category = "danger"
	CategoryCaution  Category = "caution"
	CategoryPositive Category = "positive"
	CategoryInfo     Category = "info"
	CategoryNeutral  Category = "neutral"
)

// SeverityCategory maps a severity label onto its display bucket.
func SeverityCategory(severity string) Category {
	switch strings.ToLower(severity) {
	case "critical":
		return CategoryDanger
	case "high":
		return CategoryCaution
	case "medium":
		return CategoryCaution
	case "low":
		return CategoryInfo
	default:
		return CategoryNeutral
	}
}

// StatusCategory maps a status label onto its display bucket.
func StatusCategory(status string) Category {
	switch strings.ToLower(status) {
	case "active", "success", "completed", "healthy", "compliant", "resolved":
		return CategoryPositive
	case "idle", "warning", "in progress", "in_progress", "partial":
		return CategoryCaution
	case "error", "failed", "critical", "non_compliant":
		return CategoryDanger
	default:
		return CategoryNeutral
	}
}
