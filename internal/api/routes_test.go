package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/launchsim/core/internal/command"
	"github.com/launchsim/core/internal/enginecontrol"
	"github.com/launchsim/core/internal/telemetrydevice"
	"github.com/launchsim/core/internal/vehicle"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	state := vehicle.New(500_000, 1_500_000)
	engines := enginecontrol.New(nil, 1)
	device := telemetrydevice.New(telemetrydevice.DefaultCapacity)
	svc := command.NewService(state, nil, nil)

	srv := NewServer(Config{State: state, Engines: engines, Device: device, Commands: svc})
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	srv.httpServer = &http.Server{Handler: mux}
	return srv
}

func TestHandleHealthNoAuthRequired(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestHandleStateReturnsSnapshot(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Result != "ok" {
		t.Fatalf("expected result=ok, got %v", resp.Result)
	}
}

func TestHandleCommandGoSetsMissionGo(t *testing.T) {
	srv := newTestServer(t)
	body := strings.NewReader(`{"cmd":"go"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/command", body)
	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %T", resp.Data)
	}
	if missionGo, _ := data["missionGo"].(bool); !missionGo {
		t.Fatalf("expected missionGo=true after go command, got %+v", data)
	}
}

func TestHandleCommandRejectsUnknownVerb(t *testing.T) {
	srv := newTestServer(t)
	body := strings.NewReader(`{"cmd":"bogus"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/command", body)
	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleTelemetryStreamEmitsRecords(t *testing.T) {
	srv := newTestServer(t)

	device := srv.device
	if err := device.AppendRecord([]byte("1.000,alt=1.00,vel=2.00,thr=50,go=1\n")); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/telemetry/stream", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)

	scanner := bufio.NewScanner(strings.NewReader(w.Body.String()))
	found := false
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "data: 1.000,alt=1.00") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an SSE data frame carrying the appended record, got body: %q", w.Body.String())
	}
}
