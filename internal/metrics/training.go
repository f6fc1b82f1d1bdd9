package metrics

import "github.com/yourorg/secops-dashboard/internal/model"

// CategoryStat aggregates enrollment per training category, first-seen order.
type CategoryStat struct {
	Name      string  `json:"name"`
	Enrolled  int     `json:"enrolled"`
	Completed int     `json:"completed"`
	Rate      float64 `json:"rate"`
}

type TrainingMetrics struct {
	TotalModules      int            `json:"totalModules"`
	ActiveModules     int            `json:"activeModules"`
	TotalEnrolled     int            `json:"totalEnrolled"`
	TotalCompleted    int            `json:"totalCompleted"`
	AvgCompletionRate float64        `json:"avgCompletionRate"`
	CategoryStats     []CategoryStat `json:"categoryStats"`
}

// Training summarizes the module collection. Per-category rates are derived
// from the enrollment sums (0 when a category has no enrollments); the
// overall average uses the independently stored completion_rate.
func Training(modules []model.TrainingModule) TrainingMetrics {
	m := TrainingMetrics{
		TotalModules:  len(modules),
		CategoryStats: []CategoryStat{},
	}

	type catAcc struct {
		enrolled  int
		completed int
	}
	var (
		rateSum float64
		order   []string
		byName  = map[string]*catAcc{}
	)
	for _, mod := range modules {
		if mod.Status == model.ModuleStatusActive {
			m.ActiveModules++
		}
		m.TotalEnrolled += mod.TotalEnrolled
		m.TotalCompleted += mod.TotalCompleted
		rateSum += mod.CompletionRate

		acc, ok := byName[mod.Category]
		if !ok {
			acc = &catAcc{}
			byName[mod.Category] = acc
			order = append(order, mod.Category)
		}
		acc.enrolled += mod.TotalEnrolled
		acc.completed += mod.TotalCompleted
	}

	if len(modules) > 0 {
		m.AvgCompletionRate = clampPercent(round1(rateSum / float64(len(modules))))
	}
	for _, name := range order {
		acc := byName[name]
		rate := 0.0
		if acc.enrolled > 0 {
			rate = clampPercent(round1(float64(acc.completed) / float64(acc.enrolled) * 100))
		}
		m.CategoryStats = append(m.CategoryStats, CategoryStat{
			Name:      name,
			Enrolled:  acc.enrolled,
			Completed: acc.completed,
			Rate:      rate,
		})
	}
	return m
}
