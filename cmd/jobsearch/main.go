// Command jobsearch prints a page of the job listing in the terminal, using
// the same catalog sources and listing pipeline as the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"jobflow/config"
	"jobflow/internal/catalog"
	"jobflow/internal/listing"
	"jobflow/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

func main() {
	defaults := config.Default().Catalog

	jobsSource := flag.String("jobs", defaults.JobsSource, "Jobs source: JSON or YAML file, or http(s) URL")
	companiesSource := flag.String("companies", defaults.CompaniesSource, "Companies source: JSON or YAML file, or http(s) URL")
	query := flag.String("q", "", "Keywords to match in title, description, company or requirements")
	location := flag.String("loc", "", "Location; include \"remote\" to match remote jobs")
	role := flag.String("role", "", "Role, e.g. development")
	experience := flag.String("experience", "", "Experience level: entry, mid, senior, lead, executive")
	jobType := flag.String("type", "", "Employment type, e.g. full-time")
	salary := flag.String("salary", "", "Salary band as min-max, e.g. 100000-150000")
	sortMode := flag.String("sort", "", "relevance, date, salary-high or salary-low")
	page := flag.Int("page", 1, "Results page")
	pageSize := flag.Int("n", listing.DefaultPageSize, "Jobs per page")
	timeout := flag.Duration("timeout", defaults.FetchTimeout, "Catalog fetch timeout")
	flag.Parse()

	values := url.Values{}
	for param, value := range map[string]string{
		listing.ParamQuery:      *query,
		listing.ParamLocation:   *location,
		listing.ParamRole:       *role,
		listing.ParamExperience: *experience,
		listing.ParamType:       *jobType,
		listing.ParamSalary:     *salary,
		listing.ParamSort:       *sortMode,
	} {
		if value != "" {
			values.Set(param, value)
		}
	}
	values.Set(listing.ParamPage, fmt.Sprint(*page))

	client := &http.Client{Timeout: *timeout}
	cat := catalog.New(
		catalog.NewSource(*jobsSource, client),
		catalog.NewSource(*companiesSource, client),
		zap.NewNop(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	spinner, _ := pterm.DefaultSpinner.Start("Loading jobs...")
	if err := cat.Reload(ctx); err != nil {
		spinner.Fail("Failed to load jobs. Please try again later.")
		pterm.Error.Println(err)
		os.Exit(1)
	}
	spinner.Success(fmt.Sprintf("Loaded %s jobs", humanize.Comma(int64(len(cat.Jobs())))))

	now := time.Now()
	view := listing.NewView(*pageSize)
	view.ApplyQuery(cat.Jobs(), listing.ParseQuery(values), now)
	result := view.Result()

	if result.Count == 0 {
		pterm.Warning.Println("No jobs found. Try adjusting your filters.")
		return
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData(result.Jobs, now)).Render(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	pterm.Info.Println(summary(result))
}

// tableData lays out one page of jobs as table rows under a header.
func tableData(jobs []models.Job, now time.Time) pterm.TableData {
	data := pterm.TableData{{"ID", "Title", "Company", "Location", "Type", "Salary", "Posted", ""}}
	for _, job := range jobs {
		data = append(data, []string{
			job.ID,
			job.Title,
			job.Company.Name,
			job.Location,
			string(job.Type),
			colorizeSalary(job),
			listing.FormatPosted(job.Posted, now),
			badges(job),
		})
	}
	return data
}

func colorizeSalary(job models.Job) string {
	label := listing.FormatSalary(job.SalaryMin, job.SalaryMax)
	switch salary := job.EffectiveSalary(); {
	case salary == 0:
		return pterm.Gray(label)
	case salary >= 150000:
		return pterm.Green(label)
	case salary >= 80000:
		return pterm.Yellow(label)
	default:
		return label
	}
}

func badges(job models.Job) string {
	switch {
	case job.Featured && job.Urgent:
		return "featured, urgent"
	case job.Featured:
		return "featured"
	case job.Urgent:
		return "urgent"
	default:
		return ""
	}
}

func summary(result listing.Result) string {
	p := result.Pagination
	return fmt.Sprintf("%s, page %d of %d, sorted by %s",
		listing.FormatCount(result.Count), p.Page, p.TotalPages, result.Sort)
}
