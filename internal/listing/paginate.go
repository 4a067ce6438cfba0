package listing

import "jobflow/internal/models"

// DefaultPageSize is the number of jobs on one results page.
const DefaultPageSize = 12

// windowRadius is how many page links are offered on each side of the
// current page.
const windowRadius = 2

// Pagination describes one page of a filtered result.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int   `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Window     []int `json:"window"`
}

// CalculatePagination computes page metadata for total items. Page and page
// size below 1 are raised to the defaults; pages past the end are kept as
// requested so the caller sees an empty page.
func CalculatePagination(page, pageSize, total int) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := (total + pageSize - 1) / pageSize

	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
		Window:     pageWindow(page, totalPages),
	}
}

func pageWindow(page, totalPages int) []int {
	if totalPages <= 1 {
		return []int{}
	}
	start := page - windowRadius
	if start < 1 {
		start = 1
	}
	end := page + windowRadius
	if end > totalPages {
		end = totalPages
	}
	if start > end {
		return []int{}
	}
	window := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		window = append(window, i)
	}
	return window
}

// Paginate returns the slice of jobs shown on page. An out-of-range page
// yields an empty slice.
func Paginate(jobs []models.Job, page, pageSize int) ([]models.Job, Pagination) {
	p := CalculatePagination(page, pageSize, len(jobs))

	start := (p.Page - 1) * p.PageSize
	if start >= len(jobs) {
		return []models.Job{}, p
	}
	end := start + p.PageSize
	if end > len(jobs) {
		end = len(jobs)
	}
	return jobs[start:end], p
}
