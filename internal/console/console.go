// Package console implements the Operator Console / Driver (component J):
// a line-oriented client for the Command Service, reading commands from
// an input stream and printing replies to an output stream.
//
// Grounded on the scan-dispatch-print client loop shape used throughout
// CarlosSprekelsen-radioContainer/rcc's cmd/ entrypoints, generalized
// from radio control verbs to spec.md §4.J's fixed command grammar.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/launchsim/core/internal/command"
)

// Sender is the subset of command.Service.Send a console needs, so tests
// can substitute a fake without standing up a real Service.
type Sender interface {
	Send(ctx context.Context, cmd command.OperatorCommand) (command.Reply, error)
}

// Console reads command lines from in and writes replies to out.
type Console struct {
	sender Sender
	in     *bufio.Scanner
	out    io.Writer
}

// New creates a Console wired to the given Command Service client.
func New(sender Sender, in io.Reader, out io.Writer) *Console {
	return &Console{sender: sender, in: bufio.NewScanner(in), out: out}
}

// ErrQuit is returned by Run when the operator typed "quit" or "exit".
var ErrQuit = errors.New("console: operator requested exit")

// Run processes lines until EOF, an input read error, or a quit/exit line.
// Per spec.md §4.J, a Command Service transport failure is reported and
// the loop continues; Run returns ErrQuit on quit/exit, nil on EOF, and
// the scanner's error if reading the input fails.
func (c *Console) Run(ctx context.Context) error {
	for c.in.Scan() {
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return ErrQuit
		}

		cmd, ok := parseLine(line)
		if !ok {
			fmt.Fprintln(c.out, "unrecognized command")
			continue
		}

		reply, err := c.sender.Send(ctx, cmd)
		if err != nil {
			fmt.Fprintln(c.out, "Failed to contact FCC")
			continue
		}

		ok1 := 0
		if reply.Ok {
			ok1 = 1
		}
		go1 := 0
		if reply.MissionGo {
			go1 = 1
		}
		fmt.Fprintf(c.out, "ok=%d go=%d throttle=%d\n", ok1, go1, reply.Throttle)
	}
	return c.in.Err()
}

// parseLine translates one trimmed input line into an OperatorCommand
// per spec.md §4.J's grammar: status | go | nogo | abort | throttle <N>.
func parseLine(line string) (command.OperatorCommand, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command.OperatorCommand{}, false
	}

	switch fields[0] {
	case "status":
		if len(fields) != 1 {
			return command.OperatorCommand{}, false
		}
		return command.OperatorCommand{Type: command.Status}, true
	case "go":
		if len(fields) != 1 {
			return command.OperatorCommand{}, false
		}
		return command.OperatorCommand{Type: command.Go}, true
	case "nogo":
		if len(fields) != 1 {
			return command.OperatorCommand{}, false
		}
		return command.OperatorCommand{Type: command.NoGo}, true
	case "abort":
		if len(fields) != 1 {
			return command.OperatorCommand{}, false
		}
		return command.OperatorCommand{Type: command.Abort}, true
	case "throttle":
		if len(fields) != 2 {
			return command.OperatorCommand{}, false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return command.OperatorCommand{}, false
		}
		// Out-of-range N is accepted here; the service clamps it.
		return command.OperatorCommand{Type: command.Throttle, Value: n}, true
	default:
		return command.OperatorCommand{}, false
	}
}
