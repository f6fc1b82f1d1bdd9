package metrics

import "github.com/yourorg/secops-dashboard/internal/model"

// FrameworkScore is the mean audit score for one framework. Emission order is
// first-seen framework order so chart series stay stable across refreshes.
type FrameworkScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type ComplianceMetrics struct {
	Total           int              `json:"total"`
	Compliant       int              `json:"compliant"`
	NonCompliant    int              `json:"non_compliant"`
	Partial         int              `json:"partial"`
	OverallScore    float64          `json:"overallScore"`
	FrameworkScores []FrameworkScore `json:"frameworkScores"`
}

// Compliance summarizes the audit collection. Scores are means rounded to one
// decimal; an empty collection yields 0 and no framework entries.
func Compliance(audits []model.ComplianceAudit) ComplianceMetrics {
	m := ComplianceMetrics{
		Total:           len(audits),
		FrameworkScores: []FrameworkScore{},
	}

	type frameworkAcc struct {
		total float64
		count int
	}
	var (
		scoreSum float64
		order    []string
		byName   = map[string]*frameworkAcc{}
	)
	for _, a := range audits {
		switch a.Status {
		case model.AuditStatusCompliant:
			m.Compliant++
		case model.AuditStatusNonCompliant:
			m.NonCompliant++
		case model.AuditStatusPartial:
			m.Partial++
		}
		scoreSum += a.Score

		acc, ok := byName[a.Framework]
		if !ok {
			acc = &frameworkAcc{}
			byName[a.Framework] = acc
			order = append(order, a.Framework)
		}
		acc.total += a.Score
		acc.count++
	}

	if len(audits) > 0 {
		m.OverallScore = clampPercent(round1(scoreSum / float64(len(audits))))
	}
	for _, name := range order {
		acc := byName[name]
		m.FrameworkScores = append(m.FrameworkScores, FrameworkScore{
			Name:  name,
			Score: clampPercent(round1(acc.total / float64(acc.count))),
		})
	}
	return m
}
