package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"jobflow/internal/catalog"
	"jobflow/internal/middleware"
	"jobflow/internal/models"
	"jobflow/internal/storage"
	"jobflow/internal/testutils"
	"jobflow/internal/ui"
	"jobflow/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	router   *gin.Engine
	catalog  *catalog.Catalog
	sessions *storage.Manager
	chrome   *ui.Registry
	client   *testutils.TestHTTPClient
}

func newTestEnv(t *testing.T, cat *catalog.Catalog) *testEnv {
	t.Helper()
	testutils.SetupGinTestMode()
	require.NoError(t, validation.RegisterWithGin(validation.DefaultMaxFileSize))

	logger := zap.NewNop()
	clock := func() time.Time { return testutils.Now }
	sessions := storage.NewManager(storage.NewMemoryStore(), logger, storage.WithClock(clock))
	chrome := ui.NewRegistry(ui.Options{ToastDuration: time.Hour, Debounce: 10 * time.Millisecond})
	t.Cleanup(chrome.Close)

	jobs := NewJobsHandler(cat, sessions, chrome, logger, JobsOptions{})
	jobs.now = clock
	search := NewSearchHandler(sessions, chrome, logger, 0)
	session := NewSessionHandler(sessions, cat, chrome, logger)
	session.now = clock
	uiHandler := NewUIHandler(chrome, validation.NewValidator(0), logger)
	admin := NewAdminHandler(cat, logger, time.Second)

	r := gin.New()
	r.Use(middleware.SessionMiddleware(false))
	v1 := r.Group("/api/v1")
	v1.GET("/jobs", jobs.ListJobs)
	v1.POST("/jobs", jobs.PostJob)
	v1.GET("/jobs/:id", jobs.GetJob)
	v1.GET("/companies", jobs.ListCompanies)
	v1.POST("/applications", jobs.Apply)
	v1.POST("/search", search.Search)
	v1.POST("/search/save", search.SaveSearch)
	v1.POST("/validate", uiHandler.Validate)

	s := v1.Group("/session")
	s.GET("/theme", session.GetTheme)
	s.PUT("/theme", session.SetTheme)
	s.POST("/theme/toggle", session.ToggleTheme)
	s.GET("/saved-jobs", session.ListSavedJobs)
	s.POST("/saved-jobs/:id", session.SaveJob)
	s.DELETE("/saved-jobs/:id", session.UnsaveJob)
	s.POST("/saved-jobs/:id/toggle", session.ToggleSavedJob)
	s.GET("/recent-searches", session.ListRecentSearches)
	s.GET("/saved-searches", session.ListSavedSearches)
	s.GET("/applications", session.ListApplications)
	s.GET("/posted-jobs", session.ListPostedJobs)
	s.GET("/draft", session.GetDraft)
	s.PUT("/draft", session.SaveDraft)
	s.DELETE("/draft", session.ClearDraft)

	u := v1.Group("/ui")
	u.GET("/state", uiHandler.State)
	u.POST("/modals/:id/open", uiHandler.OpenModal)
	u.POST("/modals/close", uiHandler.CloseModal)
	u.POST("/modals/focus", uiHandler.FocusModal)
	u.POST("/keys", uiHandler.HandleKey)
	u.GET("/toasts", uiHandler.ListToasts)
	u.POST("/toasts", uiHandler.ShowToast)
	u.POST("/toasts/dismiss", uiHandler.DismissToast)
	u.POST("/nav/toggle", uiHandler.ToggleNav)
	u.POST("/nav/select", uiHandler.SelectNavLink)
	u.POST("/search-input", uiHandler.SearchInput)

	v1.GET("/admin/catalog", admin.CatalogStatus)
	v1.POST("/admin/catalog/reload", admin.ReloadCatalog)

	return &testEnv{
		router:   r,
		catalog:  cat,
		sessions: sessions,
		chrome:   chrome,
		client:   testutils.NewTestHTTPClient(r),
	}
}

// toasts returns the messages of the session's visible and pending toasts.
func (e *testEnv) toasts() []string {
	state := e.chrome.Get(e.client.Session).Toasts.State()
	var out []string
	if state.Visible != nil {
		out = append(out, state.Visible.Message)
	}
	for _, toast := range state.Pending {
		out = append(out, toast.Message)
	}
	return out
}

func TestListJobs_EngineerQuery(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	w := env.client.GET("/api/v1/jobs?q=engineer")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ListJobsResponse
	testutils.ParseJSONResponse(t, w, &resp)
	assert.Equal(t, 5, resp.Count)
	assert.Equal(t, "5 jobs", resp.CountLabel)
	assert.Len(t, resp.Jobs, 5)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, "/jobs?q=engineer", resp.URL)
	for _, job := range resp.Jobs {
		assert.Contains(t, job.Title, "Engineer")
		assert.NotEmpty(t, job.Company.Name, "company is joined")
	}
	assert.Equal(t, "AC", resp.Jobs[0].Initials)
	assert.Equal(t, "$140K - $180K", resp.Jobs[0].SalaryLabel)
	assert.Equal(t, "Today", resp.Jobs[0].PostedLabel)
}

func TestListJobs_Pagination(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	var resp ListJobsResponse
	testutils.ParseJSONResponse(t, env.client.GET("/api/v1/jobs?sort=date&page=2"), &resp)

	assert.Equal(t, 20, resp.Count)
	assert.Len(t, resp.Jobs, 8)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.Equal(t, "13", resp.Jobs[0].ID)
	assert.Equal(t, models.SortDate, resp.Sort)
}

func TestListJobs_SavedFlag(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))
	require.Equal(t, http.StatusOK, env.client.POST("/api/v1/session/saved-jobs/4", "").Code)

	var resp ListJobsResponse
	testutils.ParseJSONResponse(t, env.client.GET("/api/v1/jobs?q=frontend"), &resp)
	require.Len(t, resp.Jobs, 1)
	assert.True(t, resp.Jobs[0].Saved)
}

func TestListJobs_CatalogNotLoaded(t *testing.T) {
	cat := catalog.New(catalog.NewSource("/does/not/exist.json", nil), catalog.NewSource("/does/not/exist.json", nil), zap.NewNop())
	require.Error(t, cat.Reload(context.Background()))
	env := newTestEnv(t, cat)

	w := env.client.GET("/api/v1/jobs")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListJobsResponse
	testutils.ParseJSONResponse(t, w, &resp)
	assert.Empty(t, resp.Jobs)
	assert.NotNil(t, resp.Jobs)
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, []string{msgLoadFailed}, env.toasts())
}

func TestGetJob(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	w := env.client.GET("/api/v1/jobs/1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp JobDetailResponse
	testutils.ParseJSONResponse(t, w, &resp)
	assert.Equal(t, "Backend Engineer", resp.Job.Title)
	assert.False(t, resp.Saved)
	require.Len(t, resp.Similar, 3)
	for _, job := range resp.Similar {
		assert.NotEqual(t, "1", job.ID)
	}

	env.client.POST("/api/v1/session/saved-jobs/1", "")
	testutils.ParseJSONResponse(t, env.client.GET("/api/v1/jobs/1"), &resp)
	assert.True(t, resp.Saved)
}

func TestGetJob_NotFound(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	w := env.client.GET("/api/v1/jobs/999")
	testutils.AssertErrorResponse(t, w, http.StatusNotFound, "JOB_NOT_FOUND")
	assert.Equal(t, []string{msgJobNotFound}, env.toasts())
}

func TestListCompanies(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))
	testutils.AssertJSONResponse(t, env.client.GET("/api/v1/companies"), http.StatusOK, map[string]interface{}{
		"count": float64(4),
	})
}

func validPostingJSON(t *testing.T) string {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"title":        "Staff Engineer",
		"department":   "engineering",
		"type":         "full-time",
		"location":     "Remote",
		"salaryMin":    "150000",
		"salaryMax":    "200000",
		"description":  "Lead the platform",
		"requirements": "Go, distributed systems",
		"companyName":  "Acme",
		"contactName":  "Grace",
		"contactEmail": "grace@acme.io",
	})
	require.NoError(t, err)
	return string(body)
}

func TestPostJob(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	w := env.client.POST("/api/v1/jobs", validPostingJSON(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Job      models.PostedJob `json:"job"`
		Redirect string           `json:"redirect"`
	}
	testutils.ParseJSONResponse(t, w, &resp)
	testutils.ValidateUUID(t, resp.Job.ID)
	assert.True(t, testutils.Now.Equal(resp.Job.Posted))
	assert.Equal(t, "yearly", resp.Job.SalaryPeriod)
	assert.Equal(t, "/jobs", resp.Redirect)
	assert.Equal(t, []string{msgJobPosted}, env.toasts())

	var list struct {
		PostedJobs []models.PostedJob `json:"posted_jobs"`
	}
	testutils.ParseJSONResponse(t, env.client.GET("/api/v1/session/posted-jobs"), &list)
	require.Len(t, list.PostedJobs, 1, "exactly one record is appended")
	assert.Equal(t, resp.Job.ID, list.PostedJobs[0].ID)
}

func TestPostJob_ValidationFailure(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	body := strings.Replace(validPostingJSON(t), `"grace@acme.io"`, `"grace"`, 1)
	body = strings.Replace(body, `"200000"`, `"100000"`, 1)

	w := env.client.POST("/api/v1/jobs", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var resp ValidationErrorResponse
	testutils.ParseJSONResponse(t, w, &resp)
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)
	fields := map[string]string{}
	for _, f := range resp.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "Please enter a valid email address", fields["contactEmail"])
	assert.Equal(t, "Maximum salary must be greater than minimum salary", fields["salaryMax"])
	assert.NotEmpty(t, resp.Focus)
	assert.Equal(t, []string{validation.FormErrorToast}, env.toasts())

	var list struct {
		Count int `json:"count"`
	}
	testutils.ParseJSONResponse(t, env.client.GET("/api/v1/session/posted-jobs"), &list)
	assert.Equal(t, 0, list.Count)
}

func TestPostJob_MalformedJSON(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))
	testutils.AssertErrorResponse(t, env.client.POST("/api/v1/jobs", "{"), http.StatusBadRequest, "INVALID_REQUEST")
}

func TestApply(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))
	env.client.POST("/api/v1/ui/modals/apply/open", "")

	body := `{"jobId":"8","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","resume":"cv.pdf","resumeSize":2048}`
	w := env.client.POST("/api/v1/applications", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var app models.Application
	testutils.ParseJSONResponse(t, w, &app)
	testutils.ValidateUUID(t, app.ID)
	assert.Equal(t, "Platform Engineer", app.JobTitle, "title is filled from the catalog")

	_, open := env.chrome.Get(env.client.Session).Modals.Active()
	assert.False(t, open, "the apply modal is closed")
	assert.Equal(t, []string{msgApplicationSent}, env.toasts())

	testutils.AssertJSONResponse(t, env.client.GET("/api/v1/session/applications"), http.StatusOK, map[string]interface{}{
		"count": float64(1),
	})
}

func TestApply_ResumeTooLarge(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","resume":"cv.pdf","resumeSize":10485760}`
	w := env.client.POST("/api/v1/applications", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ValidationErrorResponse
	testutils.ParseJSONResponse(t, w, &resp)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "resumeSize", resp.Focus)
	assert.Equal(t, "File size must be less than 5MB", resp.Fields[0].Message)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	w := env.client.POST("/api/v1/search", `{"q":"  golang ","loc":"Berlin"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Redirect       string                `json:"redirect"`
		RecentSearches []models.RecentSearch `json:"recent_searches"`
	}
	testutils.ParseJSONResponse(t, w, &resp)
	assert.Equal(t, "/jobs?loc=Berlin&q=golang", resp.Redirect)
	require.Len(t, resp.RecentSearches, 1)
	assert.Equal(t, "golang", resp.RecentSearches[0].Query)

	env.client.POST("/api/v1/search", `{"q":"rust"}`)
	env.client.POST("/api/v1/search", `{"q":"golang","loc":"Berlin"}`)
	testutils.ParseJSONResponse(t, env.client.GET("/api/v1/session/recent-searches"), &resp)
	require.Len(t, resp.RecentSearches, 2, "repeated search replaces the old entry")
	assert.Equal(t, "golang", resp.RecentSearches[0].Query)
}

func TestSearch_Empty(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/search", `{"q":" "}`), http.StatusOK, map[string]interface{}{
		"redirect": "/jobs",
	})
	testutils.AssertJSONResponse(t, env.client.GET("/api/v1/session/recent-searches"), http.StatusOK, map[string]interface{}{
		"recent_searches": []interface{}{},
	})
}

func TestSaveSearch(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	w := env.client.POST("/api/v1/search/save", `{"filters":{"role":"design"},"sort":"bogus"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var saved models.SavedSearch
	testutils.ParseJSONResponse(t, w, &saved)
	assert.Equal(t, "design", saved.Filters.Role)
	assert.Equal(t, models.SortRelevance, saved.Sort)
	assert.Equal(t, []string{msgSearchSaved}, env.toasts())

	var list struct {
		SavedSearches []models.SavedSearch `json:"saved_searches"`
	}
	testutils.ParseJSONResponse(t, env.client.GET("/api/v1/session/saved-searches"), &list)
	assert.Len(t, list.SavedSearches, 1)
}

func TestTheme(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	testutils.AssertJSONResponse(t, env.client.GET("/api/v1/session/theme"), http.StatusOK, map[string]interface{}{"theme": "light"})
	testutils.AssertJSONResponse(t, env.client.PUT("/api/v1/session/theme", `{"theme":"dark"}`), http.StatusOK, map[string]interface{}{"theme": "dark"})
	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/session/theme/toggle", ""), http.StatusOK, map[string]interface{}{"theme": "light"})
	testutils.AssertErrorResponse(t, env.client.PUT("/api/v1/session/theme", `{"theme":"sepia"}`), http.StatusUnprocessableEntity, "INVALID_THEME")
}

func TestSavedJobs(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/session/saved-jobs/3", ""), http.StatusOK, map[string]interface{}{"changed": true})
	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/session/saved-jobs/3", ""), http.StatusOK, map[string]interface{}{"changed": false})
	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/session/saved-jobs/gone", ""), http.StatusOK, map[string]interface{}{"changed": true})

	var list struct {
		IDs  []string  `json:"ids"`
		Jobs []JobCard `json:"jobs"`
	}
	testutils.ParseJSONResponse(t, env.client.GET("/api/v1/session/saved-jobs"), &list)
	assert.Equal(t, []string{"3", "gone"}, list.IDs)
	require.Len(t, list.Jobs, 1, "ids missing from the catalog are skipped")
	assert.True(t, list.Jobs[0].Saved)

	testutils.AssertJSONResponse(t, env.client.DELETE("/api/v1/session/saved-jobs/3"), http.StatusOK, map[string]interface{}{"changed": true})
	testutils.AssertJSONResponse(t, env.client.DELETE("/api/v1/session/saved-jobs/3"), http.StatusOK, map[string]interface{}{"changed": false})

	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/session/saved-jobs/5/toggle", ""), http.StatusOK, map[string]interface{}{"saved": true})
	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/session/saved-jobs/5/toggle", ""), http.StatusOK, map[string]interface{}{"saved": false})

	assert.Equal(t, []string{msgJobSaved, msgJobSaved, msgJobUnsaved, msgJobSaved, msgJobUnsaved}, env.toasts())
}

func TestDraft(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	testutils.AssertJSONResponse(t, env.client.GET("/api/v1/session/draft"), http.StatusOK, map[string]interface{}{"exists": false})

	testutils.AssertJSONResponse(t, env.client.PUT("/api/v1/session/draft", `{"job-title":"Chef","featured-job":"on"}`), http.StatusOK, nil)
	testutils.AssertJSONResponse(t, env.client.PUT("/api/v1/session/draft", `{"job-title":"Head Chef"}`), http.StatusOK, nil)

	var resp struct {
		Draft  models.JobDraft `json:"draft"`
		Exists bool            `json:"exists"`
	}
	testutils.ParseJSONResponse(t, env.client.GET("/api/v1/session/draft"), &resp)
	assert.True(t, resp.Exists)
	assert.Equal(t, models.JobDraft{"job-title": "Head Chef"}, resp.Draft, "last write wins")

	assert.Equal(t, http.StatusNoContent, env.client.DELETE("/api/v1/session/draft").Code)
	testutils.AssertJSONResponse(t, env.client.GET("/api/v1/session/draft"), http.StatusOK, map[string]interface{}{"exists": false})

	testutils.AssertErrorResponse(t, env.client.PUT("/api/v1/session/draft", `["x"]`), http.StatusBadRequest, "INVALID_REQUEST")
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))
	env.client.PUT("/api/v1/session/theme", `{"theme":"dark"}`)

	other := testutils.NewTestHTTPClient(env.router)
	testutils.AssertJSONResponse(t, other.GET("/api/v1/session/theme"), http.StatusOK, map[string]interface{}{"theme": "light"})
}

func TestUI_Modals(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/ui/modals/post/open", ""), http.StatusOK, map[string]interface{}{"active": "post"})
	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/ui/modals/apply/open", ""), http.StatusOK, map[string]interface{}{"active": "apply"})
	testutils.AssertErrorResponse(t, env.client.POST("/api/v1/ui/modals/nope/open", ""), http.StatusNotFound, "MODAL_NOT_FOUND")

	var key struct {
		Handled bool          `json:"handled"`
		Modal   ui.ModalState `json:"modal"`
	}
	testutils.ParseJSONResponse(t, env.client.POST("/api/v1/ui/keys", `{"key":"Tab","shift":true}`), &key)
	assert.True(t, key.Handled)
	assert.Equal(t, "apply-close", key.Modal.Focused)

	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/ui/modals/focus", `{"element":"apply-email"}`), http.StatusOK, map[string]interface{}{"focused": true})
	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/ui/modals/focus", `{"element":"post-close"}`), http.StatusOK, map[string]interface{}{"focused": false})
	testutils.ParseJSONResponse(t, env.client.POST("/api/v1/ui/keys", `{"key":"Tab"}`), &key)
	assert.Equal(t, "apply-phone", key.Modal.Focused)

	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/ui/modals/close", `{"id":"post"}`), http.StatusOK, map[string]interface{}{"closed": false})
	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/ui/keys", `{"key":"Escape"}`), http.StatusOK, map[string]interface{}{"handled": true})
	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/ui/modals/close", ""), http.StatusOK, map[string]interface{}{"closed": false})
	testutils.AssertErrorResponse(t, env.client.POST("/api/v1/ui/keys", `{}`), http.StatusBadRequest, "INVALID_REQUEST")
}

func TestUI_Toasts(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	w := env.client.POST("/api/v1/ui/toasts", `{"message":"first","type":"success"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var first ui.Toast
	testutils.ParseJSONResponse(t, w, &first)
	assert.Equal(t, ui.ToastSuccess, first.Type)

	env.client.POST("/api/v1/ui/toasts", `{"message":"second","type":"loud"}`)

	var state ui.ToastState
	testutils.ParseJSONResponse(t, env.client.GET("/api/v1/ui/toasts"), &state)
	require.NotNil(t, state.Visible)
	assert.Equal(t, "first", state.Visible.Message)
	require.Len(t, state.Pending, 1)
	assert.Equal(t, ui.ToastInfo, state.Pending[0].Type)

	require.Equal(t, http.StatusOK, env.client.POST("/api/v1/ui/toasts/dismiss", "").Code)
	assert.Equal(t, []string{"second"}, env.toasts())

	testutils.AssertErrorResponse(t, env.client.POST("/api/v1/ui/toasts/dismiss", `{"id":"missing"}`), http.StatusNotFound, "TOAST_NOT_FOUND")
	testutils.AssertErrorResponse(t, env.client.POST("/api/v1/ui/toasts", `{"type":"info"}`), http.StatusBadRequest, "INVALID_REQUEST")
}

func TestUI_Nav(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/ui/nav/toggle", ""), http.StatusOK, map[string]interface{}{"open": true})
	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/ui/nav/select", ""), http.StatusOK, map[string]interface{}{"open": false})
	testutils.AssertJSONResponse(t, env.client.GET("/api/v1/ui/state"), http.StatusOK, map[string]interface{}{"navOpen": false})
}

func TestUI_SearchInput(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/ui/search-input", `{"field":"keywords","value":"des"}`), http.StatusAccepted, map[string]interface{}{"pending": true})
	env.client.POST("/api/v1/ui/search-input", `{"field":"keywords","value":"designer"}`)

	search := env.chrome.Get(env.client.Session).Search
	assert.Eventually(t, func() bool {
		q, _ := search.Params()
		return q == "designer"
	}, time.Second, 5*time.Millisecond)

	testutils.AssertErrorResponse(t, env.client.POST("/api/v1/ui/search-input", `{"field":"salary","value":"x"}`), http.StatusBadRequest, "INVALID_REQUEST")
}

func TestValidate(t *testing.T) {
	env := newTestEnv(t, testutils.NewTestCatalog(testutils.Now))

	body := `{"fields":[
		{"name":"apply-email","kind":"email","required":true,"value":"nope"},
		{"name":"apply-phone","kind":"tel","value":"+1 555 0100"}
	]}`

	var live validation.FormResult
	w := env.client.POST("/api/v1/validate", body)
	require.Equal(t, http.StatusOK, w.Code)
	testutils.ParseJSONResponse(t, w, &live)
	assert.False(t, live.Valid)
	assert.Equal(t, "apply-email", live.Focus)
	assert.Empty(t, env.toasts(), "live checks raise no toast")

	submit := strings.Replace(body, `"fields"`, `"submit":true,"fields"`, 1)
	assert.Equal(t, http.StatusUnprocessableEntity, env.client.POST("/api/v1/validate", submit).Code)
	assert.Equal(t, []string{validation.FormErrorToast}, env.toasts())

	ok := `{"submit":true,"fields":[{"name":"x","value":"y","required":true}]}`
	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/validate", ok), http.StatusOK, map[string]interface{}{"valid": true})

	testutils.AssertErrorResponse(t, env.client.POST("/api/v1/validate", `{"fields":[{"kind":"email"}]}`), http.StatusBadRequest, "INVALID_REQUEST")
}

func TestAdmin_ReloadCatalog(t *testing.T) {
	dir := t.TempDir()
	jobsPath := dir + "/jobs.json"
	companiesPath := dir + "/companies.json"
	writeJSON(t, jobsPath, testutils.SampleJobs(testutils.Now))
	writeJSON(t, companiesPath, testutils.SampleCompanies())

	cat := catalog.New(catalog.NewSource(jobsPath, nil), catalog.NewSource(companiesPath, nil), zap.NewNop())
	env := newTestEnv(t, cat)

	testutils.AssertJSONResponse(t, env.client.GET("/api/v1/admin/catalog"), http.StatusOK, map[string]interface{}{"loaded": false})
	testutils.AssertJSONResponse(t, env.client.POST("/api/v1/admin/catalog/reload", ""), http.StatusOK, map[string]interface{}{
		"loaded":    true,
		"jobs":      float64(20),
		"companies": float64(4),
	})

	require.NoError(t, writeFile(jobsPath, "not json"))
	testutils.AssertErrorResponse(t, env.client.POST("/api/v1/admin/catalog/reload", ""), http.StatusBadGateway, "CATALOG_RELOAD_FAILED")
	testutils.AssertJSONResponse(t, env.client.GET("/api/v1/admin/catalog"), http.StatusOK, map[string]interface{}{
		"jobs":       float64(20),
		"last_error": nil,
	})
}
