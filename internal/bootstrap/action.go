package bootstrap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"

	"github.com/granito-source/concordion/internal/classpath"
)

// Application is a launched application runtime.
type Application interface {
	// PID is the process id, 0 for an application without a process.
	PID() int
	// Output returns the most recent output lines.
	Output() []string
}

// StartupAction launches one application runtime.
type StartupAction interface {
	// Loader is the runtime's class-loading context.
	Loader() *classpath.Loader
	// OverrideConfig sets configuration seen by the application.
	OverrideConfig(overrides map[string]string)
	// Run launches the application.
	Run() (Application, error)
}

// DefaultOutputLines bounds the output kept per application.
const DefaultOutputLines = 200

// MaxLineBytes bounds one captured output line; longer lines are cut and
// the rest of the line is read and dropped.
const MaxLineBytes = 4096

// EnvName maps a configuration key to its environment variable:
// "http.test-port" becomes "HTTP_TEST_PORT".
func EnvName(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// ExecAction launches the application command with os/exec. Without a
// command the application is the runtime loader itself and nothing is
// launched.
type ExecAction struct {
	loader  *classpath.Loader
	command []string
	env     map[string]string
	dir     string
	mode    string
	logger  *slog.Logger

	mu        sync.Mutex
	overrides map[string]string
}

// Loader implements StartupAction.
func (a *ExecAction) Loader() *classpath.Loader {
	return a.loader
}

// Mode returns the launch mode.
func (a *ExecAction) Mode() string {
	return a.mode
}

// Command returns the application command line.
func (a *ExecAction) Command() []string {
	return slices.Clone(a.command)
}

// OverrideConfig implements StartupAction. Overrides become properties of
// the runtime loader and environment variables of the process.
func (a *ExecAction) OverrideConfig(overrides map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	maps.Copy(a.overrides, overrides)
	a.loader.Properties().SetAll(overrides)
}

// Environ returns the environment of the launched process.
func (a *ExecAction) Environ() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	env := os.Environ()
	for _, k := range slices.Sorted(maps.Keys(a.env)) {
		env = append(env, fmt.Sprintf("%s=%s", k, a.env[k]))
	}
	for _, k := range slices.Sorted(maps.Keys(a.overrides)) {
		env = append(env, fmt.Sprintf("%s=%s", EnvName(k), a.overrides[k]))
	}
	return env
}

// Run implements StartupAction. It does not wait for the application to
// become ready.
func (a *ExecAction) Run() (Application, error) {
	if len(a.command) == 0 {
		a.logger.Info("application runs in process", "loader", a.loader.Name(), "mode", a.mode)
		return inProcess{}, nil
	}

	cmd := exec.Command(a.command[0], a.command[1:]...)
	cmd.Dir = a.dir
	cmd.Env = a.Environ()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe for %s: %w", a.command[0], err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdout.Close()
		return nil, fmt.Errorf("stderr pipe for %s: %w", a.command[0], err)
	}

	if err := cmd.Start(); err != nil {
		stdout.Close()
		stderr.Close()
		return nil, fmt.Errorf("failed to start %s %v: %w", a.command[0], a.command[1:], err)
	}

	p := &process{pid: cmd.Process.Pid, logs: newLineBuffer(DefaultOutputLines), done: make(chan struct{})}
	var readers sync.WaitGroup
	readers.Add(2)
	go p.capture(&readers, "STDOUT", stdout)
	go p.capture(&readers, "STDERR", stderr)
	go func() {
		readers.Wait()
		p.exit(cmd.Wait())
		a.logger.Info("application exited", "pid", p.pid, "error", p.Err())
	}()

	a.logger.Info("application started",
		"pid", p.pid,
		"command", strings.Join(a.command, " "),
		"mode", a.mode,
	)
	return p, nil
}

type inProcess struct{}

func (inProcess) PID() int         { return 0 }
func (inProcess) Output() []string { return nil }

type process struct {
	pid  int
	logs *lineBuffer
	done chan struct{}

	mu  sync.Mutex
	err error
}

func (p *process) PID() int {
	return p.pid
}

func (p *process) Output() []string {
	return p.logs.Lines()
}

// Done is closed once the process exited.
func (p *process) Done() <-chan struct{} {
	return p.done
}

// Err is the exit error, nil while running or after a clean exit.
func (p *process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *process) exit(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	close(p.done)
}

// capture drains r until EOF. The pipe must never stop being read, or the
// application blocks on its next write.
func (p *process) capture(wg *sync.WaitGroup, stream string, r io.Reader) {
	defer wg.Done()
	br := bufio.NewReader(r)
	var line []byte
	for {
		chunk, isPrefix, err := br.ReadLine()
		if room := MaxLineBytes - len(line); room > 0 {
			line = append(line, chunk[:min(room, len(chunk))]...)
		}
		if err != nil {
			if len(line) > 0 {
				p.logs.Add(fmt.Sprintf("[%s] %s", stream, line))
			}
			if !errors.Is(err, io.EOF) {
				_, _ = io.Copy(io.Discard, r)
			}
			return
		}
		if !isPrefix {
			p.logs.Add(fmt.Sprintf("[%s] %s", stream, line))
			line = line[:0]
		}
	}
}

// lineBuffer keeps the last max lines.
type lineBuffer struct {
	mu    sync.Mutex
	max   int
	lines []string
}

func newLineBuffer(limit int) *lineBuffer {
	return &lineBuffer{max: limit}
}

func (b *lineBuffer) Add(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
	if over := len(b.lines) - b.max; over > 0 {
		b.lines = slices.Delete(b.lines, 0, over)
	}
}

func (b *lineBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.lines)
}
