package models

import (
	"time"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is one of the two supported themes.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Opposite returns the theme a toggle switches to.
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Application is the snapshot of a submitted application form. Records are
// appended and never updated or deleted.
type Application struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	JobID       string    `json:"jobId"`
	JobTitle    string    `json:"jobTitle"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Location    string    `json:"location"`
	Resume      string    `json:"resume"`
	CoverLetter string    `json:"coverLetter"`
	Portfolio   string    `json:"portfolio"`
}

// PostedJob is a job submitted through the posting form.
type PostedJob struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Department         string    `json:"department"`
	Type               string    `json:"type"`
	Experience         string    `json:"experience"`
	Location           string    `json:"location"`
	Remote             string    `json:"remote"`
	SalaryMin          string    `json:"salaryMin"`
	SalaryMax          string    `json:"salaryMax"`
	SalaryPeriod       string    `json:"salaryPeriod"`
	Benefits           string    `json:"benefits"`
	Description        string    `json:"description"`
	Responsibilities   string    `json:"responsibilities"`
	Requirements       string    `json:"requirements"`
	NiceToHave         string    `json:"niceToHave"`
	CompanyName        string    `json:"companyName"`
	CompanyWebsite     string    `json:"companyWebsite"`
	CompanyDescription string    `json:"companyDescription"`
	CompanySize        string    `json:"companySize"`
	CompanyIndustry    string    `json:"companyIndustry"`
	ContactName        string    `json:"contactName"`
	ContactTitle       string    `json:"contactTitle"`
	ContactEmail       string    `json:"contactEmail"`
	ContactPhone       string    `json:"contactPhone"`
	Featured           bool      `json:"featured"`
	Urgent             bool      `json:"urgent"`
	Deadline           string    `json:"deadline"`
	Posted             time.Time `json:"posted"`
}

// JobDraft is the flat field-id to value snapshot of the posting form.
// Checkbox fields are stored as "on" when checked.
type JobDraft map[string]string
