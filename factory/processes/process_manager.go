package processes

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/logger"
)

// ErrTimeout is returned when a process outlives its timeout and is killed.
var ErrTimeout = errors.ErrTimeout

// WaitDelay is how long Run waits for output pipes to close after the
// process exits or is killed.
var WaitDelay = time.Second

const maxLine = 1024 * 1024

// Command describes one external process invocation.
type Command struct {
	Name    string // executable
	Args    []string
	Dir     string
	Env     []string // appended to the parent environment when set
	Timeout time.Duration
}

func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Result is what a finished process left behind.
type Result struct {
	ExitCode int
	Stdout   []string
	Stderr   []string
	Duration time.Duration
}

// ExitError reports a process that exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
	Stderr  []string
}

func (e *ExitError) Error() string {
	msg := e.Command + ": exited with code " + strconv.Itoa(e.Code)
	if len(e.Stderr) > 0 {
		msg += ": " + e.Stderr[len(e.Stderr)-1]
	}
	return msg
}

// ExecutableName adds the platform executable suffix.
func ExecutableName(name string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(name), ".exe") {
		return name + ".exe"
	}
	return name
}

// SplitArgs splits a shell-quoted argument string.
func SplitArgs(s string) ([]string, error) {
	args, err := shellquote.Split(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid argument string %q", s)
	}
	return args, nil
}

// Run starts cmd, logs and captures every output line, and waits for it.
// Past cmd.Timeout the process is killed and the error wraps ErrTimeout.
func Run(ctx context.Context, cmd Command, log *zap.SugaredLogger) (*Result, error) {
	if log == nil {
		log = logger.ComponentLogger("process")
	}
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	result := &Result{}
	var mu sync.Mutex
	stdout := &lineWriter{emit: func(line string) {
		log.Info(line)
		mu.Lock()
		result.Stdout = append(result.Stdout, line)
		mu.Unlock()
	}}
	stderr := &lineWriter{emit: func(line string) {
		log.Warn(line)
		mu.Lock()
		result.Stderr = append(result.Stderr, line)
		mu.Unlock()
	}}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}
	// Wait copies the output itself, so WaitDelay bounds it even when a
	// killed process leaves children holding the pipes.
	c.Stdout = stdout
	c.Stderr = stderr
	c.WaitDelay = WaitDelay

	log = logger.ChildLogger(log, logger.FieldBinary, cmd.Name)
	log.Debugw("Starting process", "command", cmd.String())

	start := time.Now()
	if err := c.Start(); err != nil {
		return nil, errors.Wrapf(err, "failed to start %s", cmd.Name)
	}

	waitErr := c.Wait()
	stdout.flush()
	stderr.flush()
	result.Duration = time.Since(start)
	result.ExitCode = c.ProcessState.ExitCode()

	log.Debugw("Process finished",
		logger.FieldExitCode, result.ExitCode,
		logger.FieldDurationMS, result.Duration.Milliseconds())

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return result, errors.Wrapf(ErrTimeout, "%s killed after %s", cmd.Name, cmd.Timeout)
	}
	if waitErr != nil && !errors.Is(waitErr, exec.ErrWaitDelay) {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return result, &ExitError{Command: cmd.Name, Code: exitErr.ExitCode(), Stderr: result.Stderr}
		}
		return result, errors.Wrapf(waitErr, "%s failed", cmd.Name)
	}
	if errors.Is(waitErr, exec.ErrWaitDelay) {
		log.Warnw("Process output still open after exit", logger.FieldError, waitErr)
	}
	return result, nil
}

// lineWriter splits what a process writes into lines. Each instance is
// written by a single copying goroutine.
type lineWriter struct {
	buf  []byte
	emit func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(strings.TrimSuffix(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) > maxLine {
		w.flush()
	}
	return len(p), nil
}

// flush emits a trailing line without a newline.
func (w *lineWriter) flush() {
	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}
