package utils

import "github.com/robot-chappi/cloud-storage-chappic-back-end/config"

const (
	DefaultPerPage = 30
	MaxPerPage     = 100
)

// GetPagination translates a 1-indexed page and a page size into the
// take/skip pair used by the repositories. Non-positive inputs fall back to
// page 1 and the configured default page size; oversized page sizes are
// clamped to the configured maximum.
func GetPagination(page int, perPage int) (take int, skip int) {
	defaultPerPage, maxPerPage := DefaultPerPage, MaxPerPage
	if config.AppConfig != nil {
		if config.AppConfig.Pagination.DefaultPerPage > 0 {
			defaultPerPage = config.AppConfig.Pagination.DefaultPerPage
		}
		if config.AppConfig.Pagination.MaxPerPage > 0 {
			maxPerPage = config.AppConfig.Pagination.MaxPerPage
		}
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return perPage, (page - 1) * perPage
}

type PaginationData struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}
