package listing

import (
	"net/url"
	"strconv"

	"jobflow/internal/models"
)

// URL query parameter names shared by the listing and the search form.
const (
	ParamQuery      = "q"
	ParamLocation   = "loc"
	ParamRole       = "role"
	ParamExperience = "experience"
	ParamType       = "type"
	ParamSalary     = "salary"
	ParamSort       = "sort"
	ParamPage       = "page"
	ParamJobID      = "id"
)

// JobsPath is where the search form sends the user.
const JobsPath = "/jobs"

// Query is the listing state carried in a shareable URL.
type Query struct {
	Criteria models.FilterCriteria
	Sort     models.SortMode
	Page     int
	JobID    string
}

// ParseQuery reads listing state from URL parameters. Missing or invalid
// values fall back to no constraint, relevance and page 1.
func ParseQuery(values url.Values) Query {
	q := Query{
		Criteria: models.FilterCriteria{
			Query:      values.Get(ParamQuery),
			Location:   values.Get(ParamLocation),
			Role:       values.Get(ParamRole),
			Experience: values.Get(ParamExperience),
			Type:       values.Get(ParamType),
			Salary:     values.Get(ParamSalary),
		},
		Sort:  models.ParseSortMode(values.Get(ParamSort)),
		Page:  1,
		JobID: values.Get(ParamJobID),
	}
	if page, err := strconv.Atoi(values.Get(ParamPage)); err == nil && page > 0 {
		q.Page = page
	}
	return q
}

// EncodeQuery writes the non-empty criteria and a non-default sort mode.
func EncodeQuery(criteria models.FilterCriteria, sort models.SortMode) url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set(ParamQuery, criteria.Query)
	set(ParamLocation, criteria.Location)
	set(ParamRole, criteria.Role)
	set(ParamExperience, criteria.Experience)
	set(ParamType, criteria.Type)
	set(ParamSalary, criteria.Salary)
	if sort != "" && sort != models.SortRelevance {
		values.Set(ParamSort, string(sort))
	}
	return values
}

// URL renders the listing path for criteria and sort.
func URL(criteria models.FilterCriteria, sort models.SortMode) string {
	encoded := EncodeQuery(criteria, sort).Encode()
	if encoded == "" {
		return JobsPath
	}
	return JobsPath + "?" + encoded
}

// SearchURL is the redirect target of the search form.
func SearchURL(query, location string) string {
	return URL(models.FilterCriteria{Query: query, Location: location}, models.SortRelevance)
}

// JobURL links to the detail view of one job.
func JobURL(id string) string {
	return JobsPath + "?" + url.Values{ParamJobID: {id}}.Encode()
}
