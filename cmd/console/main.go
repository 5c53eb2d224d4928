// Command console is the standalone Operator Console process
// (component J). It talks to a running simulator's HTTP Inspection API
// (component K) over POST /v1/command, since a console invoked as a
// separate OS process has no shared memory with the simulator's
// Command Service actor — the Inspection API's JSON command endpoint is
// the only cross-process transport the simulator exposes.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/launchsim/core/internal/command"
	"github.com/launchsim/core/internal/console"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the simulator's inspection API")
	flag.Parse()

	sender := &httpSender{
		baseURL: *addr,
		client:  &http.Client{Timeout: 5 * time.Second},
	}

	c := console.New(sender, os.Stdin, os.Stdout)
	if err := c.Run(context.Background()); err != nil && !errors.Is(err, console.ErrQuit) {
		fmt.Fprintln(os.Stderr, "console:", err)
		os.Exit(1)
	}
}

// httpSender implements console.Sender over the Inspection API's
// POST /v1/command route.
type httpSender struct {
	baseURL string
	client  *http.Client
}

type wireRequest struct {
	Cmd   string `json:"cmd"`
	Value int    `json:"value"`
}

type wireEnvelope struct {
	Result string `json:"result"`
	Data   struct {
		Ok        bool `json:"ok"`
		MissionGo bool `json:"missionGo"`
		Throttle  int  `json:"throttle"`
	} `json:"data"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *httpSender) Send(ctx context.Context, cmd command.OperatorCommand) (command.Reply, error) {
	body, err := json.Marshal(wireRequest{Cmd: cmdName(cmd.Type), Value: cmd.Value})
	if err != nil {
		return command.Reply{}, fmt.Errorf("encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/v1/command", bytes.NewReader(body))
	if err != nil {
		return command.Reply{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return command.Reply{}, fmt.Errorf("contact inspection api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env wireEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return command.Reply{}, fmt.Errorf("decode response: %w", err)
	}
	if env.Result != "ok" {
		return command.Reply{}, fmt.Errorf("inspection api error %s: %s", env.Code, env.Message)
	}

	return command.Reply{Ok: env.Data.Ok, MissionGo: env.Data.MissionGo, Throttle: env.Data.Throttle}, nil
}

func cmdName(t command.Type) string {
	switch t {
	case command.Status:
		return "status"
	case command.Go:
		return "go"
	case command.NoGo:
		return "nogo"
	case command.Abort:
		return "abort"
	case command.Throttle:
		return "throttle"
	default:
		return "status"
	}
}
