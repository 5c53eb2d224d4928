package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/launchsim/core/internal/command"
	"github.com/launchsim/core/internal/metrics"
)

// RegisterRoutes wires every component K route onto mux. The
// Inspection API is a read/control surface for local and ground-test
// use; spec.md §6's command protocol carries no bearer-token auth of
// its own, so none of these routes gate on one either.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/health", s.handleHealth)
	mux.HandleFunc("/v1/state", s.handleState)
	mux.HandleFunc("/v1/telemetry/stream", s.handleTelemetryStream)
	mux.HandleFunc("/v1/command", s.handleCommand)
	mux.Handle("/metrics", metrics.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
		return
	}
	WriteSuccess(w, map[string]interface{}{
		"status":  "ok",
		"uptimeS": time.Since(s.startTime).Seconds(),
	})
}

type stateView struct {
	MissionTimeS      float64      `json:"missionTimeS"`
	AltitudeM         float64      `json:"altitudeM"`
	VelocityMS        float64      `json:"velocityMs"`
	AccelerationMS2   float64      `json:"accelerationMs2"`
	FuelPct           float64      `json:"fuelPct"`
	MassKg            float64      `json:"massKg"`
	DynamicPressurePa float64      `json:"dynamicPressurePa"`
	Mach              float64      `json:"mach"`
	Phase             string       `json:"phase"`
	SystemState       string       `json:"systemState"`
	MissionGo         bool         `json:"missionGo"`
	Throttle          int          `json:"throttle"`
	AbortRequested    bool         `json:"abortRequested"`
	Engines           []engineView `json:"engines,omitempty"`
}

type engineView struct {
	ID        int     `json:"id"`
	State     string  `json:"state"`
	ThrustPct float64 `json:"thrustPct"`
	ChamberPa float64 `json:"chamberPa"`
	NozzleK   float64 `json:"nozzleK"`
	Fault     string  `json:"fault,omitempty"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
		return
	}
	if s.state == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "vehicle state not wired")
		return
	}

	snap := s.state.Snapshot()
	view := stateView{
		MissionTimeS:      snap.MissionTimeS,
		AltitudeM:         snap.AltitudeM,
		VelocityMS:        snap.VelocityMS,
		AccelerationMS2:   snap.AccelerationMS2,
		FuelPct:           snap.FuelPct,
		MassKg:            snap.MassKg,
		DynamicPressurePa: snap.DynamicPressurePa,
		Mach:              snap.Mach,
		Phase:             snap.Phase.String(),
		SystemState:       snap.SystemState.String(),
		MissionGo:         snap.MissionGo,
		Throttle:          snap.Throttle,
		AbortRequested:    snap.AbortRequested,
	}

	if s.engines != nil {
		for _, e := range s.engines.Snapshot() {
			ev := engineView{ID: e.ID, State: e.State.String(), ThrustPct: e.ThrustPct, ChamberPa: e.ChamberPa, NozzleK: e.NozzleK}
			if e.Fault != nil {
				ev.Fault = e.Fault.String()
			}
			view.Engines = append(view.Engines, ev)
		}
	}

	WriteSuccess(w, view)
}

type commandRequest struct {
	Cmd   string `json:"cmd"`
	Value int    `json:"value"`
}

type commandResponse struct {
	Ok        bool `json:"ok"`
	MissionGo bool `json:"missionGo"`
	Throttle  int  `json:"throttle"`
}

// handleCommand accepts cmd_server.c's naive JSON shape
// ({"cmd":"go","value":0}) and translates it into an OperatorCommand,
// submitted to the Command Service the same way the console (J) does.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only POST is allowed")
		return
	}
	if s.cmds == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "command service not wired")
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "malformed JSON body")
		return
	}

	cmd, ok := translateCommand(req)
	if !ok {
		WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", fmt.Sprintf("unrecognized cmd %q", req.Cmd))
		return
	}

	reply, err := s.cmds.Send(r.Context(), cmd)
	if err != nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error())
		return
	}

	WriteSuccess(w, commandResponse{Ok: reply.Ok, MissionGo: reply.MissionGo, Throttle: reply.Throttle})
}

func translateCommand(req commandRequest) (command.OperatorCommand, bool) {
	switch req.Cmd {
	case "status":
		return command.OperatorCommand{Type: command.Status}, true
	case "go":
		return command.OperatorCommand{Type: command.Go}, true
	case "nogo":
		return command.OperatorCommand{Type: command.NoGo}, true
	case "abort":
		return command.OperatorCommand{Type: command.Abort}, true
	case "throttle":
		return command.OperatorCommand{Type: command.Throttle, Value: req.Value}, true
	default:
		return command.OperatorCommand{}, false
	}
}
