// Package launch implements the startup sequences of the monitoring stack.
// A Runner executes one mode: precondition checks, then the mode's programs
// in a fixed order, each long-running program in its own terminal window,
// with the fixed inter-step waits between them. The sequence is strictly
// forward-only and best-effort: only the interpreter check is fatal, child
// startup failures are never surfaced, and nothing is retried or rolled back.
package launch

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"turbineup/internal/config"
	"turbineup/internal/progress"
	"turbineup/internal/session"
)

// Preconditions is the subset of environment checks the runner consults.
// *checks.Checks satisfies it; tests inject a stub.
type Preconditions interface {
	Interpreter(ctx context.Context, python string) error
	ProbeHost(ctx context.Context, host string) error
	GUIImport(ctx context.Context, python string) error
	InstallGUIPackages(ctx context.Context, python string) error
	WaitOllamaReady(ctx context.Context, host, model string, budget time.Duration) error
}

// SpawnFunc starts a command in its own terminal window rooted at workDir
// and returns the tmux pane ID. The window must outlive the launcher's
// current step; the runner never waits on or stops what it spawned.
type SpawnFunc func(windowName, workDir, command string) (string, error)

// ScriptFunc runs a command synchronously in workDir and returns its
// combined output. Used for the verification script only.
type ScriptFunc func(ctx context.Context, workDir, command string) (string, error)

// Sleeper waits for a fixed duration. Tests inject a recorder so sequences
// run instantly.
type Sleeper func(d time.Duration)

// FileExists reports whether a path exists. Tests stub it.
type FileExists func(path string) bool

// StepResult records the final outcome of one step.
type StepResult struct {
	Name   string
	Status progress.Status
	Detail string
}

// Report summarizes one sequence run for the banner and the trace exporter.
type Report struct {
	Mode     Mode
	Started  time.Time
	Finished time.Time
	Steps    []StepResult
	Fatal    bool // a fatal precondition stopped the sequence
}

// Runner executes startup sequences. All collaborators are injectable;
// zero-value fields fall back to real implementations where one exists.
type Runner struct {
	Cfg       config.Config
	Checks    Preconditions
	Spawn     SpawnFunc
	RunScript ScriptFunc
	Sleep     Sleeper
	Exists    FileExists
	Emitter   progress.Emitter
	Tracker   *session.Tracker
}

// Run executes the sequence for the given mode and returns its report.
func (r *Runner) Run(ctx context.Context, mode Mode) *Report {
	rep := &Report{Mode: mode, Started: time.Now()}
	switch mode {
	case ModeCommandLine:
		r.runCommandLine(ctx, rep)
	case ModeGUI:
		r.runGUI(ctx, rep)
	case ModeDataCollection:
		r.runDataCollection(ctx, rep)
	case ModeDeepSeekOnly:
		r.runDeepSeekOnly(ctx, rep)
	}
	rep.Finished = time.Now()
	return rep
}

func (r *Runner) runCommandLine(ctx context.Context, rep *Report) {
	if !r.checkInterpreter(ctx, rep) {
		return
	}
	r.probeSIS(ctx, rep)
	r.startOllamaService(ctx, rep)
	r.startModel(ctx, rep)
	r.runVerification(ctx, rep)

	cfg := r.Cfg
	r.spawnStep(rep, "start monitoring core",
		session.NewKey(session.KindCore, "main_system"),
		"main-system", cfg.ProjectRoot, cfg.PythonCommand("main_system.py"))
	r.wait(rep, cfg.Delays.MainSystem)

	receivers := []struct{ name, script string }{
		{"result", "result_receiver.py"},
		{"fault", "fault_receiver.py"},
		{"deepseek", "deepseek_receiver.py"},
	}
	for _, rcv := range receivers {
		r.spawnStep(rep, "start "+rcv.name+" receiver",
			session.NewKey(session.KindReceiver, rcv.name),
			rcv.name+"-receiver", cfg.ProjectRoot, cfg.PythonCommand(rcv.script))
		r.wait(rep, cfg.Delays.Receiver)
	}

	r.spawnStep(rep, "start SIS data sender",
		session.NewKey(session.KindSender, "sis_data_sender"),
		"sis-sender", cfg.ProjectRoot, cfg.PythonCommand("sis_data_sender.py"))
}

func (r *Runner) runGUI(ctx context.Context, rep *Report) {
	if !r.checkInterpreter(ctx, rep) {
		return
	}
	r.checkGUILibrary(ctx, rep)
	r.startOllamaService(ctx, rep)
	r.startModel(ctx, rep)

	r.spawnStep(rep, "start GUI",
		session.NewKey(session.KindGUI, "gui_main"),
		"gui", r.Cfg.GUIDir, r.Cfg.PythonCommand("gui_main.py"))
}

func (r *Runner) runDataCollection(ctx context.Context, rep *Report) {
	if !r.checkInterpreter(ctx, rep) {
		return
	}
	r.spawnStep(rep, "start SIS data sender",
		session.NewKey(session.KindSender, "sis_data_sender"),
		"sis-sender", r.Cfg.ProjectRoot, r.Cfg.PythonCommand("sis_data_sender.py"))
}

func (r *Runner) runDeepSeekOnly(ctx context.Context, rep *Report) {
	if !r.checkInterpreter(ctx, rep) {
		return
	}
	r.startOllamaService(ctx, rep)
	r.startModel(ctx, rep)
}

// checkInterpreter is the only fatal gate: on failure the sequence stops
// before anything is spawned.
func (r *Runner) checkInterpreter(ctx context.Context, rep *Report) bool {
	const name = "check python interpreter"
	r.emit(name, progress.StatusRunning, "")
	if err := r.Checks.Interpreter(ctx, r.Cfg.Python); err != nil {
		r.record(rep, name, progress.StatusFailed, err.Error())
		rep.Fatal = true
		return false
	}
	r.record(rep, name, progress.StatusOK, "")
	return true
}

// probeSIS sends the single reachability probe. Unreachable is a warning;
// the sequence continues after the short warning delay.
func (r *Runner) probeSIS(ctx context.Context, rep *Report) {
	name := "probe SIS host " + r.Cfg.SISHost
	r.emit(name, progress.StatusRunning, "")
	if err := r.Checks.ProbeHost(ctx, r.Cfg.SISHost); err != nil {
		r.record(rep, name, progress.StatusWarn, err.Error())
		r.sleep(r.Cfg.Delays.Warning)
		return
	}
	r.record(rep, name, progress.StatusOK, "")
}

// checkGUILibrary verifies the GUI toolkit imports and installs the GUI
// package set when it does not. Both failures are soft.
func (r *Runner) checkGUILibrary(ctx context.Context, rep *Report) {
	const name = "check GUI library"
	r.emit(name, progress.StatusRunning, "")
	if err := r.Checks.GUIImport(ctx, r.Cfg.Python); err == nil {
		r.record(rep, name, progress.StatusOK, "")
		return
	}
	r.emit(name, progress.StatusRunning, "PyQt5 missing, installing GUI packages")
	if err := r.Checks.InstallGUIPackages(ctx, r.Cfg.Python); err != nil {
		r.record(rep, name, progress.StatusWarn, err.Error())
		r.sleep(r.Cfg.Delays.Warning)
		return
	}
	r.record(rep, name, progress.StatusOK, "GUI packages installed")
}

// startOllamaService launches the service start script in its own window if
// it exists, then waits the service delay. A missing script is a warning;
// the wait happens regardless (the service may already be running).
func (r *Runner) startOllamaService(ctx context.Context, rep *Report) {
	const name = "start ollama service"
	script := r.Cfg.StartScriptPath()
	if !r.exists(script) {
		r.record(rep, name, progress.StatusWarn, "start script missing: "+script)
	} else {
		r.spawnStep(rep, name,
			session.NewKey(session.KindModel, "ollama-serve"),
			"ollama-serve", r.Cfg.OllamaDir, "sh "+r.Cfg.StartScript)
	}
	r.waitReady(ctx, rep, "wait for ollama service", "", r.Cfg.Delays.OllamaService)
}

// startModel launches the model runtime in its own window and waits the
// model-load delay.
func (r *Runner) startModel(ctx context.Context, rep *Report) {
	r.spawnStep(rep, "start model runtime",
		session.NewKey(session.KindModel, r.Cfg.Model),
		"ollama-model", r.Cfg.ProjectRoot, "ollama run "+r.Cfg.Model)
	r.waitReady(ctx, rep, "wait for model", r.Cfg.Model, r.Cfg.Delays.ModelLoad)
}

// runVerification runs the verification script synchronously and records
// its output tail. Failure is a soft warning.
func (r *Runner) runVerification(ctx context.Context, rep *Report) {
	const name = "verify deepseek service"
	r.emit(name, progress.StatusRunning, "")
	if r.RunScript == nil {
		r.record(rep, name, progress.StatusSkipped, "no script runner wired")
		return
	}
	out, err := r.RunScript(ctx, r.Cfg.ProjectRoot, r.Cfg.PythonCommand("check_deepseek.py"))
	if err != nil {
		r.record(rep, name, progress.StatusWarn, tail(out, err.Error()))
		r.sleep(r.Cfg.Delays.Warning)
		return
	}
	r.record(rep, name, progress.StatusOK, tail(out, ""))
}

// spawnStep starts one program in its own window and registers the pane.
// A spawn failure is a warning: the original launcher never observed child
// startup failures either, and later steps must still be attempted.
func (r *Runner) spawnStep(rep *Report, name string, key session.ComponentKey, window, workDir, command string) {
	r.emit(name, progress.StatusRunning, command)
	paneID, err := r.Spawn(window, workDir, command)
	if err != nil {
		r.record(rep, name, progress.StatusWarn, err.Error())
		return
	}
	if r.Tracker != nil {
		r.Tracker.Register(key, paneID)
	}
	r.record(rep, name, progress.StatusOK, fmt.Sprintf("window %s (%s)", window, paneID))
}

// wait sleeps one entry of the fixed delay table.
func (r *Runner) wait(rep *Report, d time.Duration) {
	if d <= 0 {
		return
	}
	name := fmt.Sprintf("wait %s", d)
	r.emit(name, progress.StatusRunning, "")
	r.sleep(d)
	r.record(rep, name, progress.StatusOK, "")
}

// waitReady either sleeps the fixed budget or, when the readiness probe is
// enabled, polls the Ollama API with that budget as the cap. A probe
// failure is a warning: it is no worse than having slept blind.
func (r *Runner) waitReady(ctx context.Context, rep *Report, name, model string, budget time.Duration) {
	if !r.Cfg.ReadinessProbe {
		r.wait(rep, budget)
		return
	}
	r.emit(name, progress.StatusRunning, "")
	if err := r.Checks.WaitOllamaReady(ctx, r.Cfg.OllamaHost, model, budget); err != nil {
		r.record(rep, name, progress.StatusWarn, err.Error())
		return
	}
	r.record(rep, name, progress.StatusOK, "")
}

func (r *Runner) exists(path string) bool {
	if r.Exists != nil {
		return r.Exists(path)
	}
	_, err := os.Stat(path)
	return err == nil
}

func (r *Runner) sleep(d time.Duration) {
	if r.Sleep != nil {
		r.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (r *Runner) emit(step string, status progress.Status, msg string) {
	if r.Emitter != nil {
		r.Emitter.Emit(progress.Event{Step: step, Message: msg, Status: status})
	}
}

// record appends the final step result and emits it.
func (r *Runner) record(rep *Report, name string, status progress.Status, detail string) {
	rep.Steps = append(rep.Steps, StepResult{Name: name, Status: status, Detail: detail})
	r.emit(name, status, detail)
}

// tail returns the last non-empty line of out, or fallback when out is empty.
func tail(out, fallback string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return fallback
}
