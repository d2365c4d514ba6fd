// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/jeranaias/efine-tui/internal/model"
)

// =============================================================================
// DRIVERS
// =============================================================================

// ListDrivers returns a page of registered drivers.
func (c *Client) ListDrivers(ctx context.Context, opts ListOptions) (*Page[model.Driver], error) {
	var page Page[model.Driver]
	if err := c.do(ctx, http.MethodGet, "/admin/drivers", opts.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetDriver fetches one driver by id.
func (c *Client) GetDriver(ctx context.Context, id string) (*model.Driver, error) {
	var driver model.Driver
	if err := c.do(ctx, http.MethodGet, "/admin/drivers/"+url.PathEscape(id), nil, nil, &driver); err != nil {
		return nil, err
	}
	return &driver, nil
}

// CreateDriver registers a new driver record.
func (c *Client) CreateDriver(ctx context.Context, driver model.Driver) (*model.Driver, error) {
	var created model.Driver
	if err := c.do(ctx, http.MethodPost, "/admin/drivers", nil, driver, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateDriver replaces the editable fields of a driver record.
func (c *Client) UpdateDriver(ctx context.Context, id string, driver model.Driver) (*model.Driver, error) {
	var updated model.Driver
	if err := c.do(ctx, http.MethodPut, "/admin/drivers/"+url.PathEscape(id), nil, driver, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteDriver removes a driver record.
func (c *Client) DeleteDriver(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/drivers/"+url.PathEscape(id), nil, nil, nil)
}

// SuspendDriver sets the driver's license status to Suspended.
func (c *Client) SuspendDriver(ctx context.Context, id string) (*model.Driver, error) {
	var driver model.Driver
	if err := c.do(ctx, http.MethodPut, "/admin/drivers/"+url.PathEscape(id)+"/suspend", nil, nil, &driver); err != nil {
		return nil, err
	}
	return &driver, nil
}

// ActivateDriver restores a suspended license to Active.
func (c *Client) ActivateDriver(ctx context.Context, id string) (*model.Driver, error) {
	var driver model.Driver
	if err := c.do(ctx, http.MethodPut, "/admin/drivers/"+url.PathEscape(id)+"/activate", nil, nil, &driver); err != nil {
		return nil, err
	}
	return &driver, nil
}

// =============================================================================
// OFFICERS
// =============================================================================

// ListOfficers returns a page of police officer accounts.
func (c *Client) ListOfficers(ctx context.Context, opts ListOptions) (*Page[model.Officer], error) {
	var page Page[model.Officer]
	if err := c.do(ctx, http.MethodGet, "/admin/officers", opts.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateOfficer registers a new officer account.
func (c *Client) CreateOfficer(ctx context.Context, officer model.Officer) (*model.Officer, error) {
	var created model.Officer
	if err := c.do(ctx, http.MethodPost, "/admin/officers", nil, officer, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOfficer replaces the editable fields of an officer account.
func (c *Client) UpdateOfficer(ctx context.Context, id string, officer model.Officer) (*model.Officer, error) {
	var updated model.Officer
	if err := c.do(ctx, http.MethodPut, "/admin/officers/"+url.PathEscape(id), nil, officer, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOfficer removes an officer account.
func (c *Client) DeleteOfficer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/officers/"+url.PathEscape(id), nil, nil, nil)
}

// ListStations returns all police stations. Used by the officer
// enrollment wizard; this endpoint does not page.
func (c *Client) ListStations(ctx context.Context) ([]model.Station, error) {
	var stations []model.Station
	if err := c.doUnauth(ctx, http.MethodGet, "/stations", nil, nil, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// =============================================================================
// OFFENSES
// =============================================================================

// ListOffenses returns a page of offense types.
//
// The listing endpoint predates the paged envelope and returns a bare
// array with no server-side search, so paging and filtering happen here.
// The raw message is inspected first because a bare array fails to
// decode into the envelope.
func (c *Client) ListOffenses(ctx context.Context, opts ListOptions) (*Page[model.Offense], error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/fines/offenses", nil, nil, &raw); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var page Page[model.Offense]
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "unexpected offense response", Cause: err}
		}
		return &page, nil
	}

	var all []model.Offense
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "unexpected offense response", Cause: err}
	}
	return pageOffenses(all, opts), nil
}

// pageOffenses applies search and paging to a full offense list.
func pageOffenses(all []model.Offense, opts ListOptions) *Page[model.Offense] {
	opts = opts.normalized()

	filtered := all
	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		filtered = nil
		for _, o := range all {
			if strings.Contains(strings.ToLower(o.OffenseName), needle) ||
				strings.Contains(strings.ToLower(o.SectionOfAct), needle) {
				filtered = append(filtered, o)
			}
		}
	}

	total := len(filtered)
	start := (opts.Page - 1) * opts.Limit
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return &Page[model.Offense]{Data: filtered[start:end], Total: total}
}

// CreateOffense adds a new offense type.
func (c *Client) CreateOffense(ctx context.Context, offense model.Offense) (*model.Offense, error) {
	var created model.Offense
	if err := c.do(ctx, http.MethodPost, "/fines/add", nil, offense, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOffense replaces the editable fields of an offense type.
func (c *Client) UpdateOffense(ctx context.Context, id string, offense model.Offense) (*model.Offense, error) {
	var updated model.Offense
	if err := c.do(ctx, http.MethodPut, "/admin/fines/offenses/"+url.PathEscape(id), nil, offense, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOffense removes an offense type.
func (c *Client) DeleteOffense(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/fines/offenses/"+url.PathEscape(id), nil, nil, nil)
}

// =============================================================================
// FINES AND PAYMENTS
// =============================================================================

// FineFilter narrows the issued-fine listing.
type FineFilter struct {
	ListOptions
	// Status filters by payment state; empty means all.
	Status model.FineStatus
}

// ListFines returns a page of issued fines.
func (c *Client) ListFines(ctx context.Context, filter FineFilter) (*Page[model.IssuedFine], error) {
	q := filter.query()
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	var page Page[model.IssuedFine]
	if err := c.do(ctx, http.MethodGet, "/admin/fines", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListPayments returns a page of paid fines, newest first.
func (c *Client) ListPayments(ctx context.Context, opts ListOptions) (*Page[model.IssuedFine], error) {
	var page Page[model.IssuedFine]
	if err := c.do(ctx, http.MethodGet, "/admin/payments", opts.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// =============================================================================
// DASHBOARD
// =============================================================================

// Dashboard is the stats endpoint payload.
type Dashboard struct {
	Stats          model.DashboardStats `json:"stats"`
	RecentActivity model.RecentActivity `json:"recentActivity"`
}

// GetDashboard fetches the aggregate counters and recent activity.
func (c *Client) GetDashboard(ctx context.Context) (*Dashboard, error) {
	var dash Dashboard
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard/stats", nil, nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}
