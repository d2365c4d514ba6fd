// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/url"
	"strconv"
)

// =============================================================================
// LIST PLUMBING
// =============================================================================

// ListOptions are the common paging and search parameters for listing
// endpoints. Zero values mean "server default".
type ListOptions struct {
	Page   int
	Limit  int
	Search string
}

// query renders the options as URL query parameters.
func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

// normalized returns the options with defaults applied, for endpoints
// where the client has to page locally.
func (o ListOptions) normalized() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 10
	}
	return o
}

// Page is one page of a listing plus the server-side total, used to
// render pagination controls.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// TotalPages returns the number of pages for the given page size.
func (p *Page[T]) TotalPages(limit int) int {
	if limit < 1 {
		return 1
	}
	pages := (p.Total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return pages
}
