package launch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbineup/internal/config"
	"turbineup/internal/progress"
	"turbineup/internal/session"
)

// stubChecks implements Preconditions with per-check error injection.
type stubChecks struct {
	interpreterErr error
	probeErr       error
	guiImportErr   error
	installErr     error
	readyErr       error

	readyCalls []string // model argument per WaitOllamaReady call
}

func (s *stubChecks) Interpreter(context.Context, string) error { return s.interpreterErr }
func (s *stubChecks) ProbeHost(context.Context, string) error   { return s.probeErr }
func (s *stubChecks) GUIImport(context.Context, string) error   { return s.guiImportErr }
func (s *stubChecks) InstallGUIPackages(context.Context, string) error {
	return s.installErr
}
func (s *stubChecks) WaitOllamaReady(_ context.Context, _, model string, _ time.Duration) error {
	s.readyCalls = append(s.readyCalls, model)
	return s.readyErr
}

type spawnCall struct {
	window  string
	workDir string
	command string
}

// harness bundles a runner with recorders for spawns and sleeps.
type harness struct {
	runner *Runner
	checks *stubChecks
	spawns []spawnCall
	sleeps []time.Duration
}

func newHarness(cfg config.Config) *harness {
	h := &harness{checks: &stubChecks{}}
	h.runner = &Runner{
		Cfg:    cfg,
		Checks: h.checks,
		Spawn: func(window, workDir, command string) (string, error) {
			h.spawns = append(h.spawns, spawnCall{window, workDir, command})
			return "%42", nil
		},
		RunScript: func(context.Context, string, string) (string, error) {
			return "DeepSeek service OK\n", nil
		},
		Sleep:   func(d time.Duration) { h.sleeps = append(h.sleeps, d) },
		Exists:  func(string) bool { return true },
		Emitter: progress.NopEmitter{},
	}
	return h
}

func testConfig() config.Config {
	cfg := config.Default("/opt/turbine")
	return cfg
}

func windows(spawns []spawnCall) []string {
	out := make([]string, len(spawns))
	for i, s := range spawns {
		out[i] = s.window
	}
	return out
}

func TestCommandLineModeSpawnOrder(t *testing.T) {
	h := newHarness(testConfig())
	rep := h.runner.Run(context.Background(), ModeCommandLine)

	require.False(t, rep.Fatal)
	assert.Equal(t, []string{
		"ollama-serve",
		"ollama-model",
		"main-system",
		"result-receiver",
		"fault-receiver",
		"deepseek-receiver",
		"sis-sender",
	}, windows(h.spawns))
}

func TestCommandLineModeDelayTable(t *testing.T) {
	cfg := testConfig()
	h := newHarness(cfg)
	h.runner.Run(context.Background(), ModeCommandLine)

	d := cfg.Delays
	assert.Equal(t, []time.Duration{
		d.OllamaService,
		d.ModelLoad,
		d.MainSystem,
		d.Receiver, d.Receiver, d.Receiver,
	}, h.sleeps)
}

func TestCommandLineModeWorkingDirectories(t *testing.T) {
	cfg := testConfig()
	h := newHarness(cfg)
	h.runner.Run(context.Background(), ModeCommandLine)

	require.Len(t, h.spawns, 7)
	assert.Equal(t, cfg.OllamaDir, h.spawns[0].workDir, "service script runs in the ollama dir")
	for _, s := range h.spawns[1:] {
		assert.Equal(t, cfg.ProjectRoot, s.workDir, "window %s", s.window)
	}
}

func TestFatalInterpreterStopsBeforeAnySpawn(t *testing.T) {
	for _, mode := range Modes() {
		t.Run(mode.Title(), func(t *testing.T) {
			h := newHarness(testConfig())
			h.checks.interpreterErr = errors.New("python not found")

			rep := h.runner.Run(context.Background(), mode)

			assert.True(t, rep.Fatal)
			assert.Empty(t, h.spawns)
			assert.Empty(t, h.sleeps)
			require.Len(t, rep.Steps, 1)
			assert.Equal(t, progress.StatusFailed, rep.Steps[0].Status)
		})
	}
}

func TestMissingStartScriptIsSoft(t *testing.T) {
	h := newHarness(testConfig())
	h.runner.Exists = func(string) bool { return false }

	rep := h.runner.Run(context.Background(), ModeDeepSeekOnly)

	require.False(t, rep.Fatal)
	// Model runtime still spawns; the service window does not.
	assert.Equal(t, []string{"ollama-model"}, windows(h.spawns))

	var warned bool
	for _, s := range rep.Steps {
		if s.Name == "start ollama service" && s.Status == progress.StatusWarn {
			warned = true
		}
	}
	assert.True(t, warned, "missing script should record a warning")
	// Both fixed waits still happen.
	assert.Len(t, h.sleeps, 2)
}

func TestUnreachableSISIsSoft(t *testing.T) {
	cfg := testConfig()
	h := newHarness(cfg)
	h.checks.probeErr = errors.New("host unreachable")

	rep := h.runner.Run(context.Background(), ModeCommandLine)

	require.False(t, rep.Fatal)
	assert.Len(t, h.spawns, 7, "all spawns still happen")
	assert.Contains(t, h.sleeps, cfg.Delays.Warning)
}

func TestSpawnFailureIsSoft(t *testing.T) {
	h := newHarness(testConfig())
	h.runner.Spawn = func(window, _, _ string) (string, error) {
		h.spawns = append(h.spawns, spawnCall{window: window})
		return "", errors.New("tmux new-window: no server")
	}

	rep := h.runner.Run(context.Background(), ModeCommandLine)

	require.False(t, rep.Fatal)
	assert.Len(t, h.spawns, 7, "every spawn is still attempted")
}

func TestGUIModeInstallsPackagesOnImportFailure(t *testing.T) {
	h := newHarness(testConfig())
	h.checks.guiImportErr = errors.New("No module named 'PyQt5'")

	rep := h.runner.Run(context.Background(), ModeGUI)

	require.False(t, rep.Fatal)
	var ok bool
	for _, s := range rep.Steps {
		if s.Name == "check GUI library" && s.Status == progress.StatusOK {
			ok = true
			assert.Equal(t, "GUI packages installed", s.Detail)
		}
	}
	assert.True(t, ok)
}

func TestGUIModeSpawnsGUIInItsDirectory(t *testing.T) {
	cfg := testConfig()
	h := newHarness(cfg)
	h.runner.Run(context.Background(), ModeGUI)

	require.NotEmpty(t, h.spawns)
	last := h.spawns[len(h.spawns)-1]
	assert.Equal(t, "gui", last.window)
	assert.Equal(t, cfg.GUIDir, last.workDir)
	assert.Equal(t, cfg.PythonCommand("gui_main.py"), last.command)
}

func TestDataCollectionModeSpawnsOnlySender(t *testing.T) {
	cfg := testConfig()
	h := newHarness(cfg)
	rep := h.runner.Run(context.Background(), ModeDataCollection)

	require.False(t, rep.Fatal)
	require.Len(t, h.spawns, 1)
	assert.Equal(t, "sis-sender", h.spawns[0].window)
	assert.Equal(t, cfg.ProjectRoot, h.spawns[0].workDir)
	assert.Empty(t, h.sleeps, "no fixed waits in data collection mode")
}

func TestReadinessProbeReplacesOllamaWaits(t *testing.T) {
	cfg := testConfig()
	cfg.ReadinessProbe = true
	h := newHarness(cfg)

	h.runner.Run(context.Background(), ModeDeepSeekOnly)

	assert.Empty(t, h.sleeps, "probe replaces the fixed waits")
	// Service wait probes with no model, model wait with the configured one.
	assert.Equal(t, []string{"", cfg.Model}, h.checks.readyCalls)
}

func TestReadinessProbeFailureIsSoft(t *testing.T) {
	cfg := testConfig()
	cfg.ReadinessProbe = true
	h := newHarness(cfg)
	h.checks.readyErr = errors.New("ollama not ready after 45s")

	rep := h.runner.Run(context.Background(), ModeCommandLine)

	require.False(t, rep.Fatal)
	assert.Len(t, h.spawns, 7)
}

func TestVerificationFailureIsSoft(t *testing.T) {
	h := newHarness(testConfig())
	h.runner.RunScript = func(context.Context, string, string) (string, error) {
		return "Traceback (most recent call last)\nConnectionError\n", errors.New("exit status 1")
	}

	rep := h.runner.Run(context.Background(), ModeCommandLine)

	require.False(t, rep.Fatal)
	var warned bool
	for _, s := range rep.Steps {
		if s.Name == "verify deepseek service" {
			warned = s.Status == progress.StatusWarn
			assert.Equal(t, "ConnectionError", s.Detail, "detail is the output tail")
		}
	}
	assert.True(t, warned)
}

func TestRunRegistersTrackedWindows(t *testing.T) {
	h := newHarness(testConfig())
	h.runner.Tracker = session.New(nil)

	h.runner.Run(context.Background(), ModeCommandLine)

	assert.Equal(t, 7, h.runner.Tracker.Count())
	got := h.runner.Tracker.WindowsFor(session.NewKey(session.KindReceiver, "fault"))
	require.Len(t, got, 1)
	assert.Equal(t, "%42", got[0].PaneID)
}
