// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PedroNoriega/agentless-hub/internal/models"
	apperrors "github.com/PedroNoriega/agentless-hub/internal/pkg/errors"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
)

type fakeHostReader struct {
	hosts map[int64]*models.Host
}

func (f *fakeHostReader) GetByID(ctx context.Context, id int64) (*models.Host, error) {
	h, ok := f.hosts[id]
	if !ok {
		return nil, apperrors.NotFound("host")
	}
	return h, nil
}

func (f *fakeHostReader) ListWithLastSeen(ctx context.Context) ([]*models.HostLastSeen, error) {
	var out []*models.HostLastSeen
	for _, h := range f.hosts {
		out = append(out, &models.HostLastSeen{Host: *h})
	}
	return out, nil
}

type fakeSampleReader struct {
	samples []*models.Sample
	disks   []*models.DiskUsage
	extras  *models.ExtrasSnapshot

	gotHostID int64
	gotFromTS int64
}

func (f *fakeSampleReader) SeriesInRange(ctx context.Context, hostID, fromTS int64) ([]*models.Sample, []*models.DiskUsage, error) {
	f.gotHostID = hostID
	f.gotFromTS = fromTS
	return f.samples, f.disks, nil
}

func (f *fakeSampleReader) Latest(ctx context.Context, hostID int64) (*models.Sample, *models.ExtrasSnapshot, []*models.DiskUsage, error) {
	f.gotHostID = hostID
	if len(f.samples) == 0 {
		return nil, nil, nil, nil
	}
	return f.samples[len(f.samples)-1], f.extras, f.disks, nil
}

func newTestHandler(samples *fakeSampleReader) *HostHandler {
	hosts := &fakeHostReader{hosts: map[int64]*models.Host{
		1: {ID: 1, Name: "web-1", IP: "10.0.0.10", OS: models.OSLinux},
	}}
	return NewHostHandler(hosts, samples, logger.Nop())
}

func doRequest(h *HostHandler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestList(t *testing.T) {
	h := newTestHandler(&fakeSampleReader{})
	rr := doRequest(h, "/")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeEnvelope(t, rr)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
}

func TestSeries_DefaultWindow(t *testing.T) {
	ts := int64(1000)
	samples := &fakeSampleReader{samples: []*models.Sample{{TS: ts}}}
	h := newTestHandler(samples)

	rr := doRequest(h, "/1/series")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if samples.gotHostID != 1 {
		t.Errorf("queried host = %d, want 1", samples.gotHostID)
	}
}

func TestSeries_MinutesValidation(t *testing.T) {
	for _, q := range []string{"minutes=0", "minutes=-5", "minutes=abc"} {
		rr := doRequest(newTestHandler(&fakeSampleReader{}), "/1/series?"+q)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status for %q = %d, want 400", q, rr.Code)
		}
	}
}

func TestSeries_WindowArithmetic(t *testing.T) {
	samples := &fakeSampleReader{}
	h := newTestHandler(samples)

	rr := doRequest(h, "/1/series?minutes=10")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	// fromTS must be roughly now - 600s.
	want := h.now().Unix() - 600
	if diff := samples.gotFromTS - want; diff < -2 || diff > 2 {
		t.Errorf("fromTS = %d, want about %d", samples.gotFromTS, want)
	}
}

func TestSeries_UnknownHost(t *testing.T) {
	rr := doRequest(newTestHandler(&fakeSampleReader{}), "/99/series")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestSeries_BadHostID(t *testing.T) {
	rr := doRequest(newTestHandler(&fakeSampleReader{}), "/abc/series")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestLatest_NeverSampled(t *testing.T) {
	rr := doRequest(newTestHandler(&fakeSampleReader{}), "/1/latest")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	body := decodeEnvelope(t, rr)
	data := body["data"].(map[string]any)
	if data["sample"] != nil {
		t.Errorf("sample = %v, want null", data["sample"])
	}
	if extras, ok := data["extras"].(map[string]any); !ok || len(extras) != 0 {
		t.Errorf("extras = %v, want {}", data["extras"])
	}
}

func TestLatest_WithExtras(t *testing.T) {
	cpu := 12.5
	samples := &fakeSampleReader{
		samples: []*models.Sample{{TS: 300, CPU: &cpu}},
		extras:  &models.ExtrasSnapshot{TS: 300, Payload: `{"temp_c":55}`},
		disks:   []*models.DiskUsage{{TS: 300, Device: "/dev/sda1", Mount: "/"}},
	}
	rr := doRequest(newTestHandler(samples), "/1/latest")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	body := decodeEnvelope(t, rr)
	data := body["data"].(map[string]any)
	extras := data["extras"].(map[string]any)
	if extras["temp_c"] != 55.0 {
		t.Errorf("extras.temp_c = %v, want 55", extras["temp_c"])
	}
	sample := data["sample"].(map[string]any)
	if sample["cpu"] != 12.5 {
		t.Errorf("sample.cpu = %v, want 12.5", sample["cpu"])
	}
}
