// Package testutils holds fixtures and HTTP helpers shared by package tests.
package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"jobflow/internal/catalog"
	"jobflow/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// SessionHeader carries the session id on test requests.
const SessionHeader = "X-Session-ID"

// SetupGinTestMode sets up Gin in test mode
func SetupGinTestMode() {
	gin.SetMode(gin.TestMode)
}

// Now is the reference time the sample jobs are posted relative to.
var Now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// SampleCompanies returns the four companies the sample jobs refer to.
func SampleCompanies() []models.Company {
	return []models.Company{
		{ID: "c1", Name: "Acme", Description: "Cloud tooling", Size: "51-200", Industry: "Technology"},
		{ID: "c2", Name: "Globex", Description: "Payments and lending", Size: "1000+", Industry: "Finance"},
		{ID: "c3", Name: "Initech", Description: "Clinic software", Size: "201-500", Industry: "Healthcare"},
		{ID: "c4", Name: "Umbrella", Description: "Stores and logistics", Size: "1000+", Industry: "Retail"},
	}
}

type sampleJob struct {
	title    string
	role     string
	typ      models.JobType
	level    models.JobLevel
	location string
	remote   models.WorkLocation
	min, max int
	company  string
	ageDays  int
	featured bool
	urgent   bool
	requires []string
}

// Exactly five titles contain "Engineer"; no other searchable text does.
var sampleJobs = []sampleJob{
	{"Backend Engineer", "development", models.JobTypeFullTime, models.JobLevelSenior, "San Francisco, CA", models.WorkLocationHybrid, 140000, 180000, "c1", 1, true, false, []string{"Go", "PostgreSQL", "Kubernetes"}},
	{"Product Manager", "product", models.JobTypeFullTime, models.JobLevelMid, "New York, NY", models.WorkLocationOnSite, 120000, 150000, "c2", 3, false, false, []string{"Roadmaps", "Analytics"}},
	{"Data Analyst", "data", models.JobTypeFullTime, models.JobLevelEntry, "Remote", models.WorkLocationRemote, 70000, 90000, "c3", 5, false, true, []string{"SQL", "Python"}},
	{"Frontend Engineer", "development", models.JobTypeContract, models.JobLevelMid, "Remote", models.WorkLocationRemote, 100000, 130000, "c1", 8, false, false, []string{"TypeScript", "React", "CSS", "Accessibility"}},
	{"UX Designer", "design", models.JobTypeFullTime, models.JobLevelMid, "Austin, TX", models.WorkLocationHybrid, 90000, 115000, "c4", 10, false, false, []string{"Figma", "Research"}},
	{"Sales Lead", "sales", models.JobTypeFullTime, models.JobLevelLead, "Chicago, IL", models.WorkLocationOnSite, 80000, 0, "c2", 12, false, false, []string{"Negotiation"}},
	{"Marketing Specialist", "marketing", models.JobTypePartTime, models.JobLevelEntry, "Boston, MA", models.WorkLocationOnSite, 45000, 60000, "c4", 15, false, false, []string{"SEO", "Copywriting"}},
	{"Platform Engineer", "development", models.JobTypeFullTime, models.JobLevelSenior, "Seattle, WA", models.WorkLocationRemote, 150000, 190000, "c1", 18, false, true, []string{"Terraform", "AWS", "Go"}},
	{"Accountant", "finance", models.JobTypeFullTime, models.JobLevelMid, "New York, NY", models.WorkLocationOnSite, 65000, 85000, "c2", 21, false, false, []string{"GAAP", "Excel"}},
	{"Recruiter", "hr", models.JobTypeContract, models.JobLevelMid, "Denver, CO", models.WorkLocationHybrid, 0, 75000, "c3", 25, false, false, []string{"Sourcing"}},
	{"Support Specialist", "support", models.JobTypeFullTime, models.JobLevelEntry, "Remote", models.WorkLocationRemote, 40000, 52000, "c4", 28, false, false, []string{"Zendesk", "Empathy"}},
	{"Content Writer", "marketing", models.JobTypeFreelance, models.JobLevelMid, "Remote", models.WorkLocationRemote, 0, 0, "c3", 32, false, false, []string{"Writing", "Editing"}},
	{"Mobile Engineer", "development", models.JobTypeFullTime, models.JobLevelMid, "Austin, TX", models.WorkLocationOnSite, 110000, 140000, "c3", 35, false, false, []string{"Swift", "Kotlin"}},
	{"Project Coordinator", "operations", models.JobTypeFullTime, models.JobLevelEntry, "Chicago, IL", models.WorkLocationOnSite, 50000, 62000, "c4", 40, false, false, []string{"Scheduling"}},
	{"Business Analyst", "data", models.JobTypeFullTime, models.JobLevelMid, "Boston, MA", models.WorkLocationHybrid, 85000, 105000, "c2", 45, false, false, []string{"SQL", "Stakeholders"}},
	{"Office Manager", "operations", models.JobTypePartTime, models.JobLevelMid, "Denver, CO", models.WorkLocationOnSite, 48000, 58000, "c1", 50, false, false, []string{"Facilities"}},
	{"Security Engineer", "development", models.JobTypeFullTime, models.JobLevelLead, "Washington, DC", models.WorkLocationOnSite, 160000, 210000, "c2", 60, false, false, []string{"Threat modeling", "Go"}},
	{"Design Intern", "design", models.JobTypeInternship, models.JobLevelEntry, "San Francisco, CA", models.WorkLocationOnSite, 30000, 35000, "c1", 70, false, false, []string{"Sketching"}},
	{"Chief Financial Officer", "finance", models.JobTypeFullTime, models.JobLevelExecutive, "New York, NY", models.WorkLocationOnSite, 250000, 320000, "c2", 90, false, false, []string{"Leadership", "Audit"}},
	{"Customer Success Manager", "support", models.JobTypeFullTime, models.JobLevelMid, "Remote", models.WorkLocationRemote, 75000, 95000, "c4", 400, false, false, []string{"Onboarding", "Renewals"}},
}

// SampleJobs returns twenty unjoined jobs posted relative to now. Ids run
// from "1" to "20" in catalog order.
func SampleJobs(now time.Time) []models.Job {
	jobs := make([]models.Job, len(sampleJobs))
	for i, s := range sampleJobs {
		jobs[i] = models.Job{
			ID:               fmt.Sprint(i + 1),
			Title:            s.title,
			Role:             s.role,
			Type:             s.typ,
			Experience:       s.level,
			Location:         s.location,
			Remote:           s.remote,
			SalaryMin:        s.min,
			SalaryMax:        s.max,
			Requirements:     append([]string(nil), s.requires...),
			Responsibilities: []string{"Own your area", "Work with the team"},
			Benefits:         []string{"Health", "401k"},
			Description:      "Join us as our next " + strings.ToLower(s.title) + ".",
			Posted:           now.Add(-time.Duration(s.ageDays) * 24 * time.Hour),
			Featured:         s.featured,
			Urgent:           s.urgent,
			CompanyID:        s.company,
		}
	}
	return jobs
}

// NewTestCatalog returns a loaded catalog of the sample data.
func NewTestCatalog(now time.Time) *catalog.Catalog {
	return catalog.NewStatic(SampleJobs(now), SampleCompanies())
}

// MockTime provides utilities for time-based testing
type MockTime struct {
	mu          sync.Mutex
	currentTime time.Time
}

// NewMockTime creates a new mock time instance
func NewMockTime(t time.Time) *MockTime {
	return &MockTime{currentTime: t}
}

// Now returns the current mock time
func (mt *MockTime) Now() time.Time {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return mt.currentTime
}

// Advance advances the mock time by the given duration
func (mt *MockTime) Advance(d time.Duration) {
	mt.mu.Lock()
	mt.currentTime = mt.currentTime.Add(d)
	mt.mu.Unlock()
}

// ParseJSONResponse parses JSON response body into a struct
func ParseJSONResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	err := json.Unmarshal(w.Body.Bytes(), target)
	require.NoError(t, err)
}

// AssertJSONResponse asserts that the response has the expected status and contains expected fields
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedFields map[string]interface{}) {
	require.Equal(t, expectedStatus, w.Code, w.Body.String())
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	ParseJSONResponse(t, w, &response)

	for key, expectedValue := range expectedFields {
		require.Contains(t, response, key)
		if expectedValue != nil {
			require.Equal(t, expectedValue, response[key])
		}
	}
}

// AssertErrorResponse asserts that the response is an error with the expected code
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedCode string) {
	require.Equal(t, expectedStatus, w.Code, w.Body.String())

	var response map[string]interface{}
	ParseJSONResponse(t, w, &response)

	require.Contains(t, response, "error")
	if expectedCode != "" {
		require.Equal(t, expectedCode, response["code"])
	}
}

// TestHTTPClient sends requests straight into a router, all under one
// session id.
type TestHTTPClient struct {
	router  http.Handler
	Session string
}

// NewTestHTTPClient creates a client with a fresh session id
func NewTestHTTPClient(router http.Handler) *TestHTTPClient {
	return &TestHTTPClient{router: router, Session: uuid.NewString()}
}

func (c *TestHTTPClient) Do(method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Session != "" {
		req.Header.Set(SessionHeader, c.Session)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func (c *TestHTTPClient) GET(url string) *httptest.ResponseRecorder {
	return c.Do(http.MethodGet, url, "")
}

func (c *TestHTTPClient) POST(url, body string) *httptest.ResponseRecorder {
	return c.Do(http.MethodPost, url, body)
}

func (c *TestHTTPClient) PUT(url, body string) *httptest.ResponseRecorder {
	return c.Do(http.MethodPut, url, body)
}

func (c *TestHTTPClient) DELETE(url string) *httptest.ResponseRecorder {
	return c.Do(http.MethodDelete, url, "")
}

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(t *testing.T, uuidStr string) {
	_, err := uuid.Parse(uuidStr)
	require.NoError(t, err, "Expected valid UUID, got: %s", uuidStr)
}
