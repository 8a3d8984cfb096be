package util

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// CmdSpec describes a subprocess to run.
type CmdSpec struct {
	Path string   // Binary path
	Args []string // Arguments
	Env  []string // Optional environment variables (KEY=VALUE). If nil, inherit.
	Dir  string   // Working directory; empty = inherit.

	StdoutLine    func(string) // Called for each stdout line (if non-nil)
	StderrLine    func(string) // Called for each stderr line (if non-nil)
	CaptureStdout bool         // When false, do not buffer stdout into CmdResult (still invoke StdoutLine)
}

// String renders the command line in a copy-pasteable form.
func (s CmdSpec) String() string {
	return shellQuote(s.Path, s.Args)
}

// CmdResult contains captured output and exit status.
type CmdResult struct {
	Stdout []byte
	Stderr []byte
	Code   int
	Err    error
}

// CmdRunner executes subprocesses. Tests substitute fakes that simulate the
// external tools.
type CmdRunner interface {
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

type defaultRunner struct {
	log zerolog.Logger
}

// NewDefaultRunner returns a runner that executes commands for real and logs
// each command line and output line at debug level.
func NewDefaultRunner(log zerolog.Logger) CmdRunner {
	return defaultRunner{log: log}
}

func (r defaultRunner) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	r.log.Debug().Str("dir", spec.Dir).Msgf("+ %s", spec)
	spec.StdoutLine = teeLine(spec.StdoutLine, func(l string) { r.log.Debug().Str("stream", "stdout").Msg(l) })
	spec.StderrLine = teeLine(spec.StderrLine, func(l string) { r.log.Debug().Str("stream", "stderr").Msg(l) })
	res, err := Run(ctx, spec)
	if err != nil {
		r.log.Debug().Int("code", res.Code).Err(err).Msg("command failed")
	}
	return res, err
}

type dryRunner struct {
	log zerolog.Logger
}

// NewDryRunner returns a runner that only logs command lines. Every command
// "succeeds" with empty output.
func NewDryRunner(log zerolog.Logger) CmdRunner {
	return dryRunner{log: log}
}

func (r dryRunner) Run(_ context.Context, spec CmdSpec) (CmdResult, error) {
	r.log.Info().Str("dir", spec.Dir).Msgf("test mode, not running: %s", spec)
	return CmdResult{}, nil
}

func teeLine(a, b func(string)) func(string) {
	if a == nil {
		return b
	}
	return func(s string) {
		a(s)
		b(s)
	}
}

// Run executes the command. It always captures stderr. Stdout capture can be
// disabled with CaptureStdout=false when a StdoutLine callback is set.
// On non-zero exit, returns an error describing the exit code, while also
// populating CmdResult.Code and captured buffers.
func Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	var stdoutBuf, stderrBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	if spec.Env != nil {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}

	if err := cmd.Start(); err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		scanLines(stdoutPipe, func(line string) {
			if spec.StdoutLine != nil {
				spec.StdoutLine(line)
			}
			if spec.CaptureStdout || spec.StdoutLine == nil {
				stdoutBuf.WriteString(line)
				stdoutBuf.WriteByte('\n')
			}
		})
	}()

	go func() {
		defer wg.Done()
		scanLines(stderrPipe, func(line string) {
			if spec.StderrLine != nil {
				spec.StderrLine(line)
			}
			stderrBuf.WriteString(line)
			stderrBuf.WriteByte('\n')
		})
	}()

	// Readers must drain before Wait closes the pipes.
	wg.Wait()
	waitErr := cmd.Wait()

	code := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	res := CmdResult{
		Stdout: stdoutBuf.Bytes(),
		Stderr: stderrBuf.Bytes(),
		Code:   code,
		Err:    waitErr,
	}

	if waitErr != nil {
		return res, fmt.Errorf("command failed (exit %d): %w", code, waitErr)
	}
	return res, nil
}

func scanLines(r io.Reader, fn func(string)) {
	sc := bufio.NewScanner(r)
	const maxCapacity = 1024 * 1024 // 1 MB
	sc.Buffer(make([]byte, 0, 64*1024), maxCapacity)
	sc.Split(ScanProgressLines)
	for sc.Scan() {
		fn(sc.Text())
	}
	// A scan error leaves the rest unread; the exit status reports the failure.
}

// ScanProgressLines is a bufio.SplitFunc that treats '\n', '\r' and runs of
// backspaces as line terminators, so that in-place progress counters of
// archivers come through as separate lines. Empty lines are dropped.
func ScanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isLineBreak(data[start]) {
		start++
	}
	for i := start; i < len(data); i++ {
		if isLineBreak(data[i]) {
			return i + 1, data[start:i], nil
		}
	}
	if atEOF {
		if start < len(data) {
			return len(data), data[start:], nil
		}
		return len(data), nil, nil
	}
	return start, nil, nil
}

func isLineBreak(b byte) bool {
	return b == '\n' || b == '\r' || b == '\b'
}

// shellQuote returns a printable shell-like command string for logging.
func shellQuote(path string, args []string) string {
	b := &strings.Builder{}
	b.WriteString(quote(path))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(quote(a))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'\\$`(){}[]*&;|<>?!") {
		return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
	}
	return s
}
