package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chway/pkg/graph"
	"chway/pkg/routing"
)

// mockRouter implements routing.Router for testing.
type mockRouter struct {
	result     *routing.RouteResult
	nodeResult *routing.NodeRouteResult
	err        error
}

func (m *mockRouter) Route(ctx context.Context, start, end routing.LatLng) (*routing.RouteResult, error) {
	return m.result, m.err
}

func (m *mockRouter) NodeRoute(ctx context.Context, source, target graph.NodeID) (*routing.NodeRouteResult, error) {
	return m.nodeResult, m.err
}

func TestHandleRouteSuccess(t *testing.T) {
	mock := &mockRouter{
		result: &routing.RouteResult{
			TotalDistanceMeters: 1234.5,
			Segments: []routing.Segment{
				{
					DistanceMeters: 1234.5,
					Geometry: []routing.LatLng{
						{Lat: 48.7, Lng: 9.2},
						{Lat: 48.75, Lng: 9.25},
					},
				},
			},
		},
	}
	h := NewHandlers(mock, StatsResponse{NumNodes: 100})

	body := `{"start":{"lat":48.7,"lng":9.2},"end":{"lat":48.75,"lng":9.25}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp RouteResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalDistanceMeters != 1234.5 {
		t.Errorf("TotalDistanceMeters = %f, want 1234.5", resp.TotalDistanceMeters)
	}
	if len(resp.Segments) != 1 || len(resp.Segments[0].Geometry) != 2 {
		t.Errorf("unexpected segments: %+v", resp.Segments)
	}
}

func TestHandleRouteRejectsWrongContentType(t *testing.T) {
	h := NewHandlers(&mockRouter{}, StatsResponse{})

	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleRouteInvalidCoordinates(t *testing.T) {
	h := NewHandlers(&mockRouter{}, StatsResponse{})

	body := `{"start":{"lat":95.0,"lng":9.2},"end":{"lat":48.75,"lng":9.25}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Field != "start" {
		t.Errorf("field = %q, want %q", resp.Field, "start")
	}
}

func TestHandleRouteErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no route", routing.ErrNoRoute, http.StatusNotFound, "no_route_found"},
		{"point too far", routing.ErrPointTooFar, http.StatusUnprocessableEntity, "point_too_far_from_road"},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, "request_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandlers(&mockRouter{err: tt.err}, StatsResponse{})

			body := `{"start":{"lat":48.7,"lng":9.2},"end":{"lat":48.75,"lng":9.25}}`
			req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			h.HandleRoute(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp ErrorResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Error != tt.wantCode {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestHandleNodeRouteSuccess(t *testing.T) {
	mock := &mockRouter{
		nodeResult: &routing.NodeRouteResult{Cost: 7, Path: []graph.NodeID{0, 1, 2}},
	}
	h := NewHandlers(mock, StatsResponse{})

	req := httptest.NewRequest("GET", "/api/v1/route/nodes?from=0&to=2", nil)
	w := httptest.NewRecorder()

	h.HandleNodeRoute(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp NodeRouteResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Cost != 7 {
		t.Errorf("cost = %d, want 7", resp.Cost)
	}
	if len(resp.Path) != 3 || resp.Path[0] != 0 || resp.Path[2] != 2 {
		t.Errorf("path = %v, want [0 1 2]", resp.Path)
	}
}

func TestHandleNodeRouteBadParams(t *testing.T) {
	h := NewHandlers(&mockRouter{}, StatsResponse{})

	for _, target := range []string{
		"/api/v1/route/nodes?from=abc&to=2",
		"/api/v1/route/nodes?from=1",
		"/api/v1/route/nodes?from=-1&to=2",
	} {
		req := httptest.NewRequest("GET", target, nil)
		w := httptest.NewRecorder()
		h.HandleNodeRoute(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, w.Code)
		}
	}
}

func TestHandleNodeRouteOutOfRange(t *testing.T) {
	h := NewHandlers(&mockRouter{err: routing.ErrNodeOutOfRange}, StatsResponse{})

	req := httptest.NewRequest("GET", "/api/v1/route/nodes?from=999&to=2", nil)
	w := httptest.NewRecorder()
	h.HandleNodeRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error != "node_id_out_of_range" {
		t.Errorf("error = %q, want node_id_out_of_range", resp.Error)
	}
}

func TestHandleNodeRouteUnreachable(t *testing.T) {
	h := NewHandlers(&mockRouter{err: routing.ErrNoRoute}, StatsResponse{})

	req := httptest.NewRequest("GET", "/api/v1/route/nodes?from=0&to=5", nil)
	w := httptest.NewRecorder()
	h.HandleNodeRoute(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestHandleStats(t *testing.T) {
	stats := StatsResponse{NumNodes: 42, NumFwdEdges: 100, NumBwdEdges: 90, NumShortcuts: 17}
	h := NewHandlers(&mockRouter{}, stats)

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	h.HandleStats(w, req)

	var resp StatsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp != stats {
		t.Errorf("stats = %+v, want %+v", resp, stats)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(&mockRouter{}, StatsResponse{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
