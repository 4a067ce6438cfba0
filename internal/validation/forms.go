package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"jobflow/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ApplicationForm is the apply modal submission.
type ApplicationForm struct {
	JobID       string `json:"jobId"`
	JobTitle    string `json:"jobTitle"`
	FirstName   string `json:"firstName" binding:"required,max=100"`
	LastName    string `json:"lastName" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,looseemail"`
	Phone       string `json:"phone" binding:"omitempty,phone"`
	Location    string `json:"location" binding:"max=200"`
	Resume      string `json:"resume" binding:"required"`
	ResumeSize  int64  `json:"resumeSize" binding:"filesize"`
	CoverLetter string `json:"coverLetter" binding:"max=10000"`
	Portfolio   string `json:"portfolio" binding:"omitempty,url"`
}

// ToApplication converts the form into the stored record. The identifier
// and timestamp are assigned on save.
func (f ApplicationForm) ToApplication() models.Application {
	jobID := f.JobID
	if jobID == "" {
		jobID = "unknown"
	}
	jobTitle := f.JobTitle
	if jobTitle == "" {
		jobTitle = "Unknown Position"
	}
	return models.Application{
		JobID:       jobID,
		JobTitle:    jobTitle,
		FirstName:   strings.TrimSpace(f.FirstName),
		LastName:    strings.TrimSpace(f.LastName),
		Email:       strings.TrimSpace(f.Email),
		Phone:       strings.TrimSpace(f.Phone),
		Location:    strings.TrimSpace(f.Location),
		Resume:      f.Resume,
		CoverLetter: f.CoverLetter,
		Portfolio:   strings.TrimSpace(f.Portfolio),
	}
}

// JobPostingForm is the post-a-job submission.
type JobPostingForm struct {
	Title              string `json:"title" binding:"required,max=200"`
	Department         string `json:"department" binding:"required"`
	Type               string `json:"type" binding:"required,oneof=full-time part-time contract internship freelance"`
	Experience         string `json:"experience" binding:"omitempty,oneof=entry mid senior lead executive"`
	Location           string `json:"location" binding:"required"`
	Remote             string `json:"remote" binding:"omitempty,oneof=remote onsite hybrid"`
	SalaryMin          string `json:"salaryMin" binding:"omitempty,numeric"`
	SalaryMax          string `json:"salaryMax" binding:"omitempty,numeric"`
	SalaryPeriod       string `json:"salaryPeriod" binding:"omitempty,oneof=yearly monthly hourly"`
	Benefits           string `json:"benefits"`
	Description        string `json:"description" binding:"required"`
	Responsibilities   string `json:"responsibilities"`
	Requirements       string `json:"requirements" binding:"required"`
	NiceToHave         string `json:"niceToHave"`
	CompanyName        string `json:"companyName" binding:"required"`
	CompanyWebsite     string `json:"companyWebsite" binding:"omitempty,url"`
	CompanyDescription string `json:"companyDescription"`
	CompanySize        string `json:"companySize"`
	CompanyIndustry    string `json:"companyIndustry"`
	ContactName        string `json:"contactName" binding:"required"`
	ContactTitle       string `json:"contactTitle"`
	ContactEmail       string `json:"contactEmail" binding:"required,looseemail"`
	ContactPhone       string `json:"contactPhone" binding:"omitempty,phone"`
	Featured           bool   `json:"featured"`
	Urgent             bool   `json:"urgent"`
	Deadline           string `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
}

// ToPostedJob converts the form into the stored record. The identifier and
// posting time are assigned on save.
func (f JobPostingForm) ToPostedJob() models.PostedJob {
	period := f.SalaryPeriod
	if period == "" {
		period = "yearly"
	}
	return models.PostedJob{
		Title:              strings.TrimSpace(f.Title),
		Department:         f.Department,
		Type:               f.Type,
		Experience:         f.Experience,
		Location:           strings.TrimSpace(f.Location),
		Remote:             f.Remote,
		SalaryMin:          f.SalaryMin,
		SalaryMax:          f.SalaryMax,
		SalaryPeriod:       period,
		Benefits:           f.Benefits,
		Description:        f.Description,
		Responsibilities:   f.Responsibilities,
		Requirements:       f.Requirements,
		NiceToHave:         f.NiceToHave,
		CompanyName:        strings.TrimSpace(f.CompanyName),
		CompanyWebsite:     strings.TrimSpace(f.CompanyWebsite),
		CompanyDescription: f.CompanyDescription,
		CompanySize:        f.CompanySize,
		CompanyIndustry:    f.CompanyIndustry,
		ContactName:        strings.TrimSpace(f.ContactName),
		ContactTitle:       f.ContactTitle,
		ContactEmail:       strings.TrimSpace(f.ContactEmail),
		ContactPhone:       strings.TrimSpace(f.ContactPhone),
		Featured:           f.Featured,
		Urgent:             f.Urgent,
		Deadline:           f.Deadline,
	}
}

// SearchForm is the hero/header search box.
type SearchForm struct {
	Query    string `json:"q" form:"q" binding:"max=200"`
	Location string `json:"loc" form:"loc" binding:"max=200"`
}

// IsEmpty reports whether neither box was filled in.
func (f SearchForm) IsEmpty() bool {
	return strings.TrimSpace(f.Query) == "" && strings.TrimSpace(f.Location) == ""
}

// New returns a validator configured like the one gin binds with, carrying
// the custom tags and struct rules of the forms.
func New(maxFileSize int64) (*validator.Validate, error) {
	v := validator.New()
	v.SetTagName("binding")
	if err := Register(v, maxFileSize); err != nil {
		return nil, err
	}
	return v, nil
}

// RegisterWithGin installs the custom tags on gin's binding validator.
func RegisterWithGin(maxFileSize int64) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v, maxFileSize)
}

// Register adds the phone, looseemail and filesize tags, the salary range
// rule and JSON field naming to v.
func Register(v *validator.Validate, maxFileSize int64) error {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"phone": func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		},
		"looseemail": func(fl validator.FieldLevel) bool {
			return IsValidEmail(strings.TrimSpace(fl.Field().String()))
		},
		"filesize": func(fl validator.FieldLevel) bool {
			return fl.Field().Int() <= maxFileSize
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		form := sl.Current().Interface().(JobPostingForm)
		if ValidateSalaryRange(form.SalaryMin, form.SalaryMax) != "" {
			sl.ReportError(form.SalaryMax, "salaryMax", "SalaryMax", "salaryrange", "")
		}
	}, JobPostingForm{})

	return nil
}

var tagMessages = map[string]string{
	"required":    "This field is required",
	"looseemail":  "Please enter a valid email address",
	"email":       "Please enter a valid email address",
	"url":         "Please enter a valid URL",
	"phone":       "Please enter a valid phone number",
	"numeric":     "Please enter a number",
	"oneof":       "Please select a valid option",
	"datetime":    "Please enter a valid date",
	"salaryrange": "Maximum salary must be greater than minimum salary",
}

// FieldErrors converts a binding error into inline field messages. It
// returns nil when err is not a validation failure, e.g. malformed JSON.
func FieldErrors(err error, maxFileSize int64) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := tagMessages[fe.Tag()]
		switch {
		case fe.Tag() == "filesize":
			msg = fmt.Sprintf("File size must be less than %dMB", maxFileSize/(1024*1024))
		case fe.Tag() == "max":
			msg = "Value must be at most " + fe.Param() + " characters"
		case !ok:
			msg = "Invalid value"
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
