// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/PedroNoriega/agentless-hub/internal/models"
	apperrors "github.com/PedroNoriega/agentless-hub/internal/pkg/errors"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

// DefaultSeriesMinutes is the time-series window when the request does
// not specify one.
const DefaultSeriesMinutes = 120

// HostReader is the host lookup surface the handler needs.
type HostReader interface {
	GetByID(ctx context.Context, id int64) (*models.Host, error)
	ListWithLastSeen(ctx context.Context) ([]*models.HostLastSeen, error)
}

// SampleReader is the time-series query surface the handler needs.
type SampleReader interface {
	SeriesInRange(ctx context.Context, hostID, fromTS int64) ([]*models.Sample, []*models.DiskUsage, error)
	Latest(ctx context.Context, hostID int64) (*models.Sample, *models.ExtrasSnapshot, []*models.DiskUsage, error)
}

// HostHandler serves the fleet query endpoints.
type HostHandler struct {
	BaseHandler
	hosts   HostReader
	samples SampleReader

	now func() time.Time
}

// NewHostHandler creates a host handler.
func NewHostHandler(hosts HostReader, samples SampleReader, log *logger.Logger) *HostHandler {
	return &HostHandler{
		BaseHandler: NewBaseHandler(log),
		hosts:       hosts,
		samples:     samples,
		now:         time.Now,
	}
}

// Routes returns the host routes.
func (h *HostHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Route("/{hostID}", func(r chi.Router) {
		r.Get("/series", h.Series)
		r.Get("/latest", h.Latest)
	})

	return r
}

// SeriesResponse is the response for the time-series endpoint.
type SeriesResponse struct {
	HostID  int64               `json:"host_id"`
	Minutes int                 `json:"minutes"`
	Samples []*models.Sample    `json:"samples"`
	Disks   []*models.DiskUsage `json:"disks"`
}

// LatestResponse is the response for the latest-snapshot endpoint.
type LatestResponse struct {
	HostID int64               `json:"host_id"`
	Sample *models.Sample      `json:"sample"`
	Disks  []*models.DiskUsage `json:"disks"`
	Extras json.RawMessage     `json:"extras"`
}

// List handles GET /api/hosts
// Returns every registered host with the timestamp of its most recent
// sample (null when never sampled).
func (h *HostHandler) List(w http.ResponseWriter, r *http.Request) {
	hosts, err := h.hosts.ListWithLastSeen(r.Context())
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.OK(w, hosts)
}

// Series handles GET /api/hosts/{hostID}/series?minutes=120
// Returns samples and disk rows within the trailing window, ascending by
// timestamp.
func (h *HostHandler) Series(w http.ResponseWriter, r *http.Request) {
	host, err := h.pathHost(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	minutes := DefaultSeriesMinutes
	if raw := r.URL.Query().Get("minutes"); raw != "" {
		minutes, err = strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			h.Error(w, r, apperrors.InvalidInput("minutes must be a positive integer"))
			return
		}
	}

	fromTS := h.now().Unix() - int64(minutes)*60
	samples, disks, err := h.samples.SeriesInRange(r.Context(), host.ID, fromTS)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.OK(w, &SeriesResponse{
		HostID:  host.ID,
		Minutes: minutes,
		Samples: samples,
		Disks:   disks,
	})
}

// Latest handles GET /api/hosts/{hostID}/latest
// Returns the most recent sample, the disk snapshot at its timestamp, and
// the decoded extras blob.
func (h *HostHandler) Latest(w http.ResponseWriter, r *http.Request) {
	host, err := h.pathHost(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	sample, extras, disks, err := h.samples.Latest(r.Context(), host.ID)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.OK(w, &LatestResponse{
		HostID: host.ID,
		Sample: sample,
		Disks:  disks,
		Extras: extras.Decode(),
	})
}

// pathHost resolves the {hostID} path parameter to a registered host.
func (h *HostHandler) pathHost(r *http.Request) (*models.Host, error) {
	raw := chi.URLParam(r, "hostID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperrors.InvalidInput("host id must be an integer")
	}
	return h.hosts.GetByID(r.Context(), id)
}
