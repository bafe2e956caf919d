// Package format wraps the external source formatter behind a
// capability interface so failure handling is testable without
// spawning a real process.
package format

import (
	"os/exec"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modsync/pkg/logging"
)

// Result classifies a formatter invocation.
type Result int

const (
	Success Result = iota
	Failure
	Unavailable
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

// Formatter formats the source tree rooted at rootDir. Invocations are
// fire-and-forget: failures are surfaced as warnings only and never
// block or fail the write that triggered them.
type Formatter interface {
	Format(rootDir string) Result
}

// CargoFmt shells out to `cargo fmt`.
type CargoFmt struct {
	logger zerolog.Logger
}

// NewCargoFmt creates the production formatter.
func NewCargoFmt() *CargoFmt {
	return &CargoFmt{logger: logging.GetLogger("format")}
}

// Format runs `cargo fmt` in rootDir.
func (c *CargoFmt) Format(rootDir string) Result {
	if _, err := exec.LookPath("cargo"); err != nil {
		c.logger.Warn().Str("root", rootDir).Msg("cargo not found, skipping format")
		return Unavailable
	}

	cmd := exec.Command("cargo", "fmt")
	cmd.Dir = rootDir
	if err := cmd.Run(); err != nil {
		c.logger.Warn().Err(err).Str("root", rootDir).Msg("cargo fmt failed")
		return Failure
	}

	c.logger.Debug().Str("root", rootDir).Msg("Formatted")
	return Success
}

// Noop is a formatter that does nothing, used when formatting is off.
type Noop struct{}

func (Noop) Format(string) Result { return Success }

// Recorder is a test fake remembering every invocation.
type Recorder struct {
	mu     sync.Mutex
	Result Result
	calls  []string
}

// Format records rootDir and returns the configured Result.
func (r *Recorder) Format(rootDir string) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, rootDir)
	return r.Result
}

// Calls returns the recorded root directories in invocation order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}
