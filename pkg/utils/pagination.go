package utils

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PaginationParams is the page/limit pair every list endpoint accepts
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// PaginationMeta is returned next to list data as "pagination"
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// GetPaginationParams applies defaults (page 1, limit 10) and caps limit at MaxLimit
func GetPaginationParams(page, limit int) PaginationParams {
	p := PaginationParams{Page: page, Limit: limit}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	switch {
	case p.Limit < 1:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	return p
}

// ParsePaginationParams reads the raw page and limit query values; garbage falls back to defaults
func ParsePaginationParams(pageStr, limitStr string) PaginationParams {
	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)
	return GetPaginationParams(page, limit)
}

func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// CalculateMeta reports totalPages = ceil(total/limit), zero when nothing matched
func CalculateMeta(total int64, page, limit int) PaginationMeta {
	if limit < 1 {
		limit = DefaultLimit
	}
	var pages int64
	if total > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(pages),
	}
}
