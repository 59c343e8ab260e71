package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/execabs"

	perrors "pingwatch/pkg/errors"
)

// Result is the raw outcome of one probe invocation.
type Result struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (r Result) String() string {
	return fmt.Sprintf("Result(args=%q, exit=%d, stdout=%q, stderr=%q)",
		strings.Join(r.Args, " "), r.ExitCode, r.Stdout, r.Stderr)
}

// Prober performs a single reachability check.
type Prober interface {
	// Probe sends one echo request of payloadBytes to host. A non-zero exit
	// status is reported in Result, not as an error; err is only set when
	// the probe tool itself could not be run.
	Probe(ctx context.Context, host string, payloadBytes int) (Result, error)
}

// ExitCodes are the probe tool's exit statuses with a dedicated meaning on
// the current platform. NoCode marks a status the platform does not use.
type ExitCodes struct {
	PacketLoss  int
	UnknownHost int
}

// NoCode never matches a real exit status.
const NoCode = -1 << 31

// PingProber runs the system ping command.
type PingProber struct {
	command string
}

// NewPingProber creates a prober for the platform's ping command.
func NewPingProber() *PingProber {
	return &PingProber{command: "ping"}
}

func (p *PingProber) Probe(ctx context.Context, host string, payloadBytes int) (Result, error) {
	args := pingArgs(host, payloadBytes)
	result := Result{Args: append([]string{p.command}, args...)}

	// execabs refuses to resolve the binary from the working directory.
	cmd := execabs.CommandContext(ctx, p.command, args...)
	out, err := cmd.Output()
	result.Stdout = string(out)
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		result.Stderr = string(exitErr.Stderr)
		return result, nil
	}

	return result, &perrors.ProbeError{
		Host: host,
		Err:  fmt.Errorf("%w: %v", perrors.ErrProbeFailed, err),
	}
}
