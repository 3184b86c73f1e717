// Package checks implements the launcher's environment preconditions:
// interpreter resolution, the single-probe SIS reachability check, the GUI
// library import/install check, and the Ollama API readiness probe.
//
// Everything that would spawn a process goes through a CommandFactory so
// tests never execute real tools.
package checks

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"turbineup/internal/jsonutil"
)

// GUIPackages are installed via pip when the GUI library import fails.
var GUIPackages = []string{"PyQt5", "matplotlib", "numpy"}

// sisProbePort is the SIS gateway service port, used for the TCP fallback
// probe when no ping binary is available.
const sisProbePort = "8880"

// CommandFactory builds an *exec.Cmd for the given context and argv. The
// default factory uses exec.CommandContext. Tests can inject a factory that
// records invocations or substitutes a stub.
type CommandFactory func(ctx context.Context, name string, args ...string) *exec.Cmd

// defaultCommandFactory creates a real command.
func defaultCommandFactory(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// LookPathFunc resolves a binary on PATH. Tests can stub it.
type LookPathFunc func(file string) (string, error)

// Checks bundles the precondition probes with their injection points.
type Checks struct {
	Commands CommandFactory
	LookPath LookPathFunc
	HTTP     *http.Client
}

// New returns Checks wired to the real system.
func New() *Checks {
	return &Checks{
		Commands: defaultCommandFactory,
		LookPath: exec.LookPath,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Checks) commands() CommandFactory {
	if c.Commands != nil {
		return c.Commands
	}
	return defaultCommandFactory
}

func (c *Checks) lookPath(file string) (string, error) {
	if c.LookPath != nil {
		return c.LookPath(file)
	}
	return exec.LookPath(file)
}

// Interpreter verifies the Python interpreter resolves and answers a version
// query. This is the only fatal precondition: its failure aborts the mode.
func (c *Checks) Interpreter(ctx context.Context, python string) error {
	if _, err := c.lookPath(python); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", python, err)
	}
	cmd := c.commands()(ctx, python, "--version")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s --version: %w: %s", python, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ProbeHost sends a single reachability probe to the SIS gateway. It prefers
// `ping -c 1`; when no ping binary exists it falls back to a TCP dial of the
// gateway service port. Failure is always a soft warning for callers.
func (c *Checks) ProbeHost(ctx context.Context, host string) error {
	if _, err := c.lookPath("ping"); err == nil {
		cmd := c.commands()(ctx, "ping", "-c", "1", "-W", "3", host)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("ping %s: %w: %s", host, err, strings.TrimSpace(string(out)))
		}
		return nil
	}
	d := net.Dialer{Timeout: 3 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, sisProbePort))
	if err != nil {
		return fmt.Errorf("dial %s: %w", host, err)
	}
	return conn.Close()
}

// GUIImport verifies the GUI toolkit imports in the interpreter.
func (c *Checks) GUIImport(ctx context.Context, python string) error {
	cmd := c.commands()(ctx, python, "-c", "import PyQt5")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("import PyQt5: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// InstallGUIPackages installs the GUI dependency set via pip. Called only
// after GUIImport fails; its own failure is a soft warning.
func (c *Checks) InstallGUIPackages(ctx context.Context, python string) error {
	args := append([]string{"-m", "pip", "install"}, GUIPackages...)
	cmd := c.commands()(ctx, python, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pip install: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// tagsResponse is the shape of GET /api/tags.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// OllamaReady checks the Ollama REST API once: the service answers /api/tags
// and the configured model appears in the loaded model list. An empty model
// only checks that the service answers.
func (c *Checks) OllamaReady(ctx context.Context, host, model string) error {
	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	url := fmt.Sprintf("http://%s/api/tags", host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama not answering at %s: %w", host, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama /api/tags: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read /api/tags response: %w", err)
	}
	var tags tagsResponse
	if err := jsonutil.UnmarshalWithContext(body, &tags, "parse /api/tags"); err != nil {
		return err
	}
	if model == "" {
		return nil
	}
	for _, m := range tags.Models {
		if strings.Contains(m.Name, model) {
			return nil
		}
	}
	return fmt.Errorf("model %s not loaded", model)
}

// WaitOllamaReady polls OllamaReady every interval until it succeeds or the
// budget elapses. The budget equals the fixed delay it replaces, so enabling
// the readiness probe can only shorten a startup, never lengthen it.
func (c *Checks) WaitOllamaReady(ctx context.Context, host, model string, budget time.Duration) error {
	const interval = 2 * time.Second
	deadline := time.Now().Add(budget)
	var lastErr error
	for {
		probeCtx, cancel := context.WithTimeout(ctx, interval)
		lastErr = c.OllamaReady(probeCtx, host, model)
		cancel()
		if lastErr == nil {
			return nil
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			return fmt.Errorf("ollama not ready after %s: %w", budget, lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
