package listing

import (
	"time"

	"jobflow/internal/models"
)

// View is the listing state of one session: the active criteria and sort,
// the current page and the filtered, sorted result. It is re-derived in full
// from the catalog on every change.
type View struct {
	Filters  models.FilterCriteria
	SortMode models.SortMode
	Page     int
	Filtered []models.Job

	pageSize int
}

// Result is one rendered page of a View.
type Result struct {
	Jobs       []models.Job          `json:"jobs"`
	Count      int                   `json:"count"`
	Filters    models.FilterCriteria `json:"filters"`
	Sort       models.SortMode       `json:"sort"`
	Pagination Pagination            `json:"pagination"`
	URL        string                `json:"url"`
}

func NewView(pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{SortMode: models.SortRelevance, Page: 1, pageSize: pageSize}
}

// Apply filters and sorts jobs under the given state and resets to page 1.
// jobs is not modified.
func (v *View) Apply(jobs []models.Job, criteria models.FilterCriteria, mode models.SortMode, now time.Time) {
	v.Filters = criteria
	v.SortMode = models.ParseSortMode(string(mode))
	v.Filtered = Filter(jobs, criteria)
	Sort(v.Filtered, v.SortMode, criteria, now)
	v.Page = 1
}

// ApplyQuery applies the state carried by q and moves to its page.
func (v *View) ApplyQuery(jobs []models.Job, q Query, now time.Time) {
	v.Apply(jobs, q.Criteria, q.Sort, now)
	v.GoToPage(q.Page)
}

// ClearFilters drops every constraint and re-applies with the current sort.
func (v *View) ClearFilters(jobs []models.Job, now time.Time) {
	v.Apply(jobs, models.FilterCriteria{}, v.SortMode, now)
}

// GoToPage moves to page without validating it against the result size.
func (v *View) GoToPage(page int) {
	if page < 1 {
		page = 1
	}
	v.Page = page
}

// Result renders the current page.
func (v *View) Result() Result {
	jobs, p := Paginate(v.Filtered, v.Page, v.pageSize)
	return Result{
		Jobs:       jobs,
		Count:      len(v.Filtered),
		Filters:    v.Filters,
		Sort:       v.SortMode,
		Pagination: p,
		URL:        URL(v.Filters, v.SortMode),
	}
}
