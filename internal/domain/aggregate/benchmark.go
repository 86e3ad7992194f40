package aggregate

import (
	"strings"

	"github.com/okian/cohortinsights/internal/domain/model"
)

// Benchmark metric names.
const (
	BenchAdoption          = "adoption_rate"
	BenchUtilization       = "utilization_rate"
	BenchNPS               = "nps"
	BenchCoachSatisfaction = "coach_satisfaction"
	BenchCompetencyGrowth  = "competency_growth"
)

// Comparison is a metric compared against its external benchmark.
type Comparison struct {
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Benchmark float64 `json:"benchmark"`
	VsAverage float64 `json:"vs_average"`
}

// Compare pairs each present metric value with the benchmark row of the same
// metric. Benchmarks scoped to a program type win over unscoped rows.
func Compare(values map[string]*float64, benchmarks []model.Benchmark, pt model.ProgramType) []Comparison {
	ref := make(map[string]float64)
	scoped := make(map[string]bool)
	for _, b := range benchmarks {
		metric := strings.ToLower(strings.TrimSpace(b.Metric))
		switch {
		case strings.EqualFold(b.ProgramType, string(pt)):
			ref[metric], scoped[metric] = b.Value, true
		case strings.TrimSpace(b.ProgramType) == "" && !scoped[metric]:
			ref[metric] = b.Value
		}
	}
	var out []Comparison
	for _, metric := range []string{BenchAdoption, BenchUtilization, BenchNPS, BenchCoachSatisfaction, BenchCompetencyGrowth} {
		v, ok := values[metric]
		bench, has := ref[metric]
		if !ok || v == nil || !has {
			continue
		}
		out = append(out, Comparison{Metric: metric, Value: *v, Benchmark: bench, VsAverage: Round1(*v - bench)})
	}
	return out
}
