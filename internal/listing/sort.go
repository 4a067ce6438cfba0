package listing

import (
	"sort"
	"strings"
	"time"

	"jobflow/internal/models"
)

const day = 24 * time.Hour

// Relevance weights.
const (
	scoreFeatured      = 100
	scoreUrgent        = 50
	scoreTitleMatch    = 30
	scoreCompanyMatch  = 20
	scoreLocationMatch = 25
	scorePostedWeek    = 15
	scorePostedMonth   = 10
)

// RelevanceScore ranks job against the active criteria at time now.
func RelevanceScore(job *models.Job, criteria models.FilterCriteria, now time.Time) int {
	score := 0
	if job.Featured {
		score += scoreFeatured
	}
	if job.Urgent {
		score += scoreUrgent
	}

	if criteria.Query != "" {
		query := strings.ToLower(criteria.Query)
		if strings.Contains(strings.ToLower(job.Title), query) {
			score += scoreTitleMatch
		}
		if strings.Contains(strings.ToLower(job.Company.Name), query) {
			score += scoreCompanyMatch
		}
	}

	if criteria.Location != "" {
		if strings.Contains(strings.ToLower(job.Location), strings.ToLower(criteria.Location)) {
			score += scoreLocationMatch
		}
	}

	age := now.Sub(job.Posted)
	switch {
	case age < 7*day:
		score += scorePostedWeek
	case age < 30*day:
		score += scorePostedMonth
	}

	return score
}

// Sort orders jobs in place by mode. Equal keys keep their input order.
func Sort(jobs []models.Job, mode models.SortMode, criteria models.FilterCriteria, now time.Time) {
	switch mode {
	case models.SortDate:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].Posted.After(jobs[j].Posted)
		})
	case models.SortSalaryHigh:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].SalaryMax > jobs[j].SalaryMax
		})
	case models.SortSalaryLow:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].SalaryMin < jobs[j].SalaryMin
		})
	default:
		keyed := make([]scoredJob, len(jobs))
		for i := range jobs {
			keyed[i] = scoredJob{job: jobs[i], score: RelevanceScore(&jobs[i], criteria, now)}
		}
		sort.SliceStable(keyed, func(i, j int) bool {
			return keyed[i].score > keyed[j].score
		})
		for i := range keyed {
			jobs[i] = keyed[i].job
		}
	}
}

type scoredJob struct {
	job   models.Job
	score int
}
