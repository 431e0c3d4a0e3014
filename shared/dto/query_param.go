package dto

import (
	"cmp"
	"hotel/shared/constant"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads paging and sorting from the query string. Values that do
// not parse as positive numbers are ignored. With withDefaults set, missing
// page and limit fall back to the defaults so listings are always paginated.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	q.Page = positive(values.Get(constant.RequestParamPage), q.Page)
	q.Limit = positive(values.Get(constant.RequestParamLimit), q.Limit)

	if sortBy := values.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	q.Page = cmp.Or(q.Page, constant.DefaultValuePage)
	q.Limit = cmp.Or(q.Limit, constant.DefaultValueLimit)
}

func positive(raw string, fallback int) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}

	return fallback
}

// RestrictSort keeps SortBy only when it names one of the allowed columns and
// falls back to defaultColumn otherwise. SortBy ends up in the ORDER BY clause
// verbatim, so every handler must call this before querying.
func (q *QueryParams) RestrictSort(defaultColumn string, allowed ...string) {
	if !slices.Contains(allowed, q.SortBy) {
		q.SortBy = defaultColumn
	}

	if q.SortDir == "" {
		q.SortDir = SortDirAsc
	}
}
