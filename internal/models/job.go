package models

import (
	"strconv"
	"strings"
	"time"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
)

type JobLevel string

const (
	JobLevelEntry     JobLevel = "entry"
	JobLevelMid       JobLevel = "mid"
	JobLevelSenior    JobLevel = "senior"
	JobLevelLead      JobLevel = "lead"
	JobLevelExecutive JobLevel = "executive"
)

// WorkLocation is the job's remote arrangement. Only WorkLocationRemote
// takes part in the remote location match.
type WorkLocation string

const (
	WorkLocationRemote WorkLocation = "remote"
	WorkLocationOnSite WorkLocation = "onsite"
	WorkLocationHybrid WorkLocation = "hybrid"
)

// Job is a single posted position. Records are immutable once a catalog
// snapshot has been built from them.
type Job struct {
	ID               string       `json:"id" yaml:"id"`
	Title            string       `json:"title" yaml:"title"`
	Role             string       `json:"role" yaml:"role"`
	Type             JobType      `json:"type" yaml:"type"`
	Experience       JobLevel     `json:"experience" yaml:"experience"`
	Location         string       `json:"location" yaml:"location"`
	Remote           WorkLocation `json:"remote" yaml:"remote"`
	SalaryMin        int          `json:"salaryMin" yaml:"salaryMin"`
	SalaryMax        int          `json:"salaryMax" yaml:"salaryMax"`
	Requirements     []string     `json:"requirements" yaml:"requirements"`
	Responsibilities []string     `json:"responsibilities" yaml:"responsibilities"`
	Benefits         []string     `json:"benefits" yaml:"benefits"`
	Description      string       `json:"description" yaml:"description"`
	Posted           time.Time    `json:"posted" yaml:"posted"`
	Featured         bool         `json:"featured" yaml:"featured"`
	Urgent           bool         `json:"urgent" yaml:"urgent"`
	CompanyID        string       `json:"companyId" yaml:"companyId"`

	// Company is filled by the catalog join; a job whose CompanyID has no
	// match carries the zero value.
	Company Company `json:"company" yaml:"-"`
}

// Company is joined onto Job by identifier equality.
type Company struct {
	ID          string `json:"id,omitempty" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	Size        string `json:"size,omitempty" yaml:"size"`
	Industry    string `json:"industry,omitempty" yaml:"industry"`
}

// EffectiveSalary is the figure the salary band filter compares against:
// the maximum when present, otherwise the minimum.
func (j *Job) EffectiveSalary() int {
	if j.SalaryMax != 0 {
		return j.SalaryMax
	}
	return j.SalaryMin
}

// IsRemote reports whether the job is fully remote.
func (j *Job) IsRemote() bool {
	return j.Remote == WorkLocationRemote
}

// Initials returns the two-letter badge shown for the company.
func (c Company) Initials() string {
	name := []rune(strings.TrimSpace(c.Name))
	if len(name) > 2 {
		name = name[:2]
	}
	return strings.ToUpper(string(name))
}

// Summary truncates the description to n runes, appending "..." when cut.
func (j *Job) Summary(n int) string {
	r := []rune(j.Description)
	if len(r) <= n {
		return j.Description
	}
	return string(r[:n]) + "..."
}

// Tags returns up to n requirement tags plus a "+k more" marker.
func (j *Job) Tags(n int) []string {
	if len(j.Requirements) <= n {
		return append([]string(nil), j.Requirements...)
	}
	tags := append([]string(nil), j.Requirements[:n]...)
	return append(tags, "+"+strconv.Itoa(len(j.Requirements)-n)+" more")
}
