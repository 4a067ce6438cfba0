// Package listing holds the pure filter, rank, sort and paginate pipeline
// over a loaded job catalog, plus its URL query round trip.
package listing

import (
	"strconv"
	"strings"

	"jobflow/internal/models"
)

// MatchesFilters reports whether job satisfies every constrained dimension
// of criteria. Empty criteria match every job.
func MatchesFilters(job *models.Job, criteria models.FilterCriteria) bool {
	if criteria.Query != "" && !matchesQuery(job, strings.ToLower(criteria.Query)) {
		return false
	}

	if criteria.Location != "" {
		location := strings.ToLower(criteria.Location)
		inLocation := strings.Contains(strings.ToLower(job.Location), location)
		remote := job.IsRemote() && strings.Contains(location, "remote")
		if !inLocation && !remote {
			return false
		}
	}

	if criteria.Role != "" && job.Role != criteria.Role {
		return false
	}
	if criteria.Experience != "" && string(job.Experience) != criteria.Experience {
		return false
	}
	if criteria.Type != "" && string(job.Type) != criteria.Type {
		return false
	}

	if criteria.Salary != "" {
		min, max := ParseSalaryBand(criteria.Salary)
		salary := job.EffectiveSalary()
		if max != 0 && salary > max {
			return false
		}
		if min != 0 && salary < min {
			return false
		}
	}

	return true
}

func matchesQuery(job *models.Job, query string) bool {
	if strings.Contains(strings.ToLower(job.Title), query) ||
		strings.Contains(strings.ToLower(job.Description), query) ||
		strings.Contains(strings.ToLower(job.Company.Name), query) {
		return true
	}
	for _, req := range job.Requirements {
		if strings.Contains(strings.ToLower(req), query) {
			return true
		}
	}
	return false
}

// ParseSalaryBand splits a "min-max" token. A side that is missing or not a
// number comes back as 0, meaning unbounded.
func ParseSalaryBand(band string) (min, max int) {
	parts := strings.Split(band, "-")
	min = parseBound(parts[0])
	if len(parts) > 1 {
		max = parseBound(parts[1])
	}
	return min, max
}

func parseBound(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Filter returns the jobs matching criteria, in input order. The result never
// aliases the input slice.
func Filter(jobs []models.Job, criteria models.FilterCriteria) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for i := range jobs {
		if MatchesFilters(&jobs[i], criteria) {
			out = append(out, jobs[i])
		}
	}
	return out
}
