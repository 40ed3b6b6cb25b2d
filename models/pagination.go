package models

import (
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Page is one offset page of results together with the counters list views need.
type Page[T any] struct {
	Data        []*T  `json:"data"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

// NormalizePage clamps page to >= 1 and perPage to 1..MaxPerPage, falling back to DefaultPerPage.
func NormalizePage(page int, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	return page, perPage
}

// FetchPage counts the rows matched by dbCtx, then loads the requested page.
// orders are applied to the page query only.
func FetchPage[T any](dbCtx *gorm.DB, page int, perPage int, orders []string, associations ...string) (*Page[T], error) {
	page, perPage = NormalizePage(page, perPage)

	var total int64
	if err := dbCtx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	query := dbCtx.Session(&gorm.Session{})
	for _, order := range orders {
		query = query.Order(order)
	}
	// preloading
	for _, field := range associations {
		query = query.Preload(field)
	}
	results := make([]*T, 0)
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&results).Error; err != nil {
		return nil, err
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	result := Page[T]{
		Data:        results,
		Total:       total,
		CurrentPage: page,
		PerPage:     perPage,
		LastPage:    lastPage,
	}
	if len(results) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(results) - 1
		result.From = &from
		result.To = &to
	}
	return &result, nil
}
