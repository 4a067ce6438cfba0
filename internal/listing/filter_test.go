package listing

import (
	"testing"

	"jobflow/internal/catalog"
	"jobflow/internal/models"
	"jobflow/internal/testutils"

	"github.com/stretchr/testify/assert"
)

func sampleJobs() []models.Job {
	return catalog.Join(testutils.SampleJobs(testutils.Now), testutils.SampleCompanies())
}

func TestMatchesFilters_EmptyCriteria(t *testing.T) {
	jobs := sampleJobs()
	for i := range jobs {
		assert.True(t, MatchesFilters(&jobs[i], models.FilterCriteria{}), jobs[i].Title)
	}
	assert.Len(t, Filter(jobs, models.FilterCriteria{}), len(jobs))
}

func TestMatchesFilters(t *testing.T) {
	job := models.Job{
		Title:        "Senior Go Developer",
		Description:  "Build payment APIs",
		Requirements: []string{"Kubernetes", "gRPC"},
		Location:     "Berlin, Germany",
		Remote:       models.WorkLocationRemote,
		Role:         "development",
		Experience:   models.JobLevelSenior,
		Type:         models.JobTypeFullTime,
		SalaryMin:    90000,
		SalaryMax:    120000,
		Company:      models.Company{Name: "Paystack"},
	}

	tests := []struct {
		name     string
		criteria models.FilterCriteria
		want     bool
	}{
		{"title case insensitive", models.FilterCriteria{Query: "go developer"}, true},
		{"description", models.FilterCriteria{Query: "PAYMENT"}, true},
		{"company name", models.FilterCriteria{Query: "paystack"}, true},
		{"requirement", models.FilterCriteria{Query: "grpc"}, true},
		{"no text match", models.FilterCriteria{Query: "rust"}, false},
		{"location substring", models.FilterCriteria{Location: "berlin"}, true},
		{"remote sentinel", models.FilterCriteria{Location: "Remote"}, true},
		{"remote inside location", models.FilterCriteria{Location: "remote only"}, true},
		{"other location", models.FilterCriteria{Location: "Paris"}, false},
		{"role equal", models.FilterCriteria{Role: "development"}, true},
		{"role differs", models.FilterCriteria{Role: "design"}, false},
		{"role is exact", models.FilterCriteria{Role: "Development"}, false},
		{"experience", models.FilterCriteria{Experience: "senior"}, true},
		{"experience differs", models.FilterCriteria{Experience: "entry"}, false},
		{"type", models.FilterCriteria{Type: "full-time"}, true},
		{"type differs", models.FilterCriteria{Type: "contract"}, false},
		{"salary in band", models.FilterCriteria{Salary: "100000-150000"}, true},
		{"salary above band", models.FilterCriteria{Salary: "50000-100000"}, false},
		{"salary below floor", models.FilterCriteria{Salary: "150000-"}, false},
		{"salary floor only", models.FilterCriteria{Salary: "100000"}, true},
		{"salary ceiling only", models.FilterCriteria{Salary: "-130000"}, true},
		{"every dimension", models.FilterCriteria{
			Query: "go", Location: "berlin", Role: "development",
			Experience: "senior", Type: "full-time", Salary: "100000-150000",
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesFilters(&job, tt.criteria))
		})
	}
}

func TestMatchesFilters_RemoteSentinelNeedsRemoteJob(t *testing.T) {
	job := models.Job{Location: "Austin, TX", Remote: models.WorkLocationHybrid}
	assert.False(t, MatchesFilters(&job, models.FilterCriteria{Location: "remote"}))
}

func TestMatchesFilters_EffectiveSalary(t *testing.T) {
	minOnly := models.Job{SalaryMin: 80000}
	assert.True(t, MatchesFilters(&minOnly, models.FilterCriteria{Salary: "50000-100000"}))
	assert.False(t, MatchesFilters(&minOnly, models.FilterCriteria{Salary: "90000-"}))

	unspecified := models.Job{}
	assert.False(t, MatchesFilters(&unspecified, models.FilterCriteria{Salary: "50000-"}))
	assert.True(t, MatchesFilters(&unspecified, models.FilterCriteria{Salary: "-50000"}))
}

func TestParseSalaryBand(t *testing.T) {
	tests := []struct {
		band     string
		min, max int
	}{
		{"50000-100000", 50000, 100000},
		{"150000-", 150000, 0},
		{"-80000", 0, 80000},
		{"120000", 120000, 0},
		{"abc-def", 0, 0},
		{"", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.band, func(t *testing.T) {
			min, max := ParseSalaryBand(tt.band)
			assert.Equal(t, tt.min, min)
			assert.Equal(t, tt.max, max)
		})
	}
}

func TestFilter_DoesNotAliasInput(t *testing.T) {
	jobs := sampleJobs()
	out := Filter(jobs, models.FilterCriteria{})
	out[0].Title = "changed"
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
}
