// Package config holds the launcher configuration: where the monitoring
// stack lives on disk, how to reach its external services, and the fixed
// delay table the startup sequences use. Values come from built-in defaults,
// an optional turbineup.json in the project root, and env var overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"turbineup/internal/jsonutil"
)

const (
	// RootEnv is the env var override for the project root directory.
	RootEnv = "TURBINEUP_ROOT"
	// ConfigEnv is the env var override for the config file path.
	ConfigEnv = "TURBINEUP_CONFIG"

	// ConfigFileName is the optional config file looked up in the project root.
	ConfigFileName = "turbineup.json"
)

// Delays is the fixed wait table between startup steps. The values mirror
// the operator-tuned waits the stack has always used; they are configurable
// so test and dev setups can shrink them.
type Delays struct {
	OllamaService time.Duration // after starting the Ollama service
	ModelLoad     time.Duration // after launching the model runtime
	MainSystem    time.Duration // after launching the monitoring core
	Receiver      time.Duration // after launching each receiver
	Warning       time.Duration // after a soft warning
}

// DefaultDelays returns the standard wait table.
func DefaultDelays() Delays {
	return Delays{
		OllamaService: 20 * time.Second,
		ModelLoad:     45 * time.Second,
		MainSystem:    10 * time.Second,
		Receiver:      3 * time.Second,
		Warning:       2 * time.Second,
	}
}

// Config is the resolved launcher configuration.
type Config struct {
	ProjectRoot string // monitoring stack checkout; all scripts are relative to it
	OllamaDir   string // <root>/ollama, holds the service start script
	GUIDir      string // <root>/GUI, cwd for the GUI program

	Python   string // interpreter binary name
	CondaEnv string // conda environment activated before each python run

	SISHost        string // plant SIS gateway, probed once before mode 1
	OllamaHost     string // Ollama REST endpoint host:port
	Model          string // model identifier passed to `ollama run`
	StartScript    string // Ollama service start script, relative to OllamaDir
	ReadinessProbe bool   // poll the Ollama API instead of sleeping fixed delays

	Delays Delays
}

// fileConfig is the JSON shape of turbineup.json. All fields are optional;
// zero values fall back to defaults. Delays are in seconds.
type fileConfig struct {
	ProjectRoot    string `json:"project_root"`
	Python         string `json:"python"`
	CondaEnv       string `json:"conda_env"`
	SISHost        string `json:"sis_host"`
	OllamaHost     string `json:"ollama_host"`
	Model          string `json:"model"`
	StartScript    string `json:"start_script"`
	ReadinessProbe bool   `json:"readiness_probe"`

	DelaySeconds struct {
		OllamaService int `json:"ollama_service"`
		ModelLoad     int `json:"model_load"`
		MainSystem    int `json:"main_system"`
		Receiver      int `json:"receiver"`
		Warning       int `json:"warning"`
	} `json:"delay_seconds"`
}

// Default returns the built-in configuration rooted at root.
// Defaults mirror the plant deployment: DeepSeek-R1 14B on a local Ollama,
// SIS gateway on the plant network.
func Default(root string) Config {
	return Config{
		ProjectRoot:    root,
		OllamaDir:      filepath.Join(root, "ollama"),
		GUIDir:         filepath.Join(root, "GUI"),
		Python:         "python",
		CondaEnv:       "gas_turbine",
		SISHost:        "59.51.82.42",
		OllamaHost:     "localhost:11434",
		Model:          "deepseek-r1:14b",
		StartScript:    "start_ollama.sh",
		ReadinessProbe: false,
		Delays:         DefaultDelays(),
	}
}

// ResolveRoot returns the project root: TURBINEUP_ROOT if set, otherwise the
// directory containing the launcher executable.
func ResolveRoot() (string, error) {
	if root := os.Getenv(RootEnv); root != "" {
		return root, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve launcher location: %w", err)
	}
	return filepath.Dir(exe), nil
}

// Load builds the configuration for the given project root, merging
// turbineup.json on top of defaults when the file exists. A missing config
// file is not an error; a malformed one is.
func Load(root string) (Config, error) {
	cfg := Default(root)

	path := os.Getenv(ConfigEnv)
	if path == "" {
		path = filepath.Join(root, ConfigFileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	var fc fileConfig
	if err := jsonutil.UnmarshalWithContext(data, &fc, "parse "+path); err != nil {
		return cfg, err
	}
	cfg.apply(fc)
	return cfg, nil
}

// apply overlays non-zero file values onto the config.
func (c *Config) apply(fc fileConfig) {
	if fc.ProjectRoot != "" {
		c.ProjectRoot = fc.ProjectRoot
		c.OllamaDir = filepath.Join(fc.ProjectRoot, "ollama")
		c.GUIDir = filepath.Join(fc.ProjectRoot, "GUI")
	}
	if fc.Python != "" {
		c.Python = fc.Python
	}
	if fc.CondaEnv != "" {
		c.CondaEnv = fc.CondaEnv
	}
	if fc.SISHost != "" {
		c.SISHost = fc.SISHost
	}
	if fc.OllamaHost != "" {
		c.OllamaHost = fc.OllamaHost
	}
	if fc.Model != "" {
		c.Model = fc.Model
	}
	if fc.StartScript != "" {
		c.StartScript = fc.StartScript
	}
	if fc.ReadinessProbe {
		c.ReadinessProbe = true
	}
	d := fc.DelaySeconds
	if d.OllamaService > 0 {
		c.Delays.OllamaService = time.Duration(d.OllamaService) * time.Second
	}
	if d.ModelLoad > 0 {
		c.Delays.ModelLoad = time.Duration(d.ModelLoad) * time.Second
	}
	if d.MainSystem > 0 {
		c.Delays.MainSystem = time.Duration(d.MainSystem) * time.Second
	}
	if d.Receiver > 0 {
		c.Delays.Receiver = time.Duration(d.Receiver) * time.Second
	}
	if d.Warning > 0 {
		c.Delays.Warning = time.Duration(d.Warning) * time.Second
	}
}

// StartScriptPath returns the absolute path of the Ollama service start script.
func (c Config) StartScriptPath() string {
	return filepath.Join(c.OllamaDir, c.StartScript)
}

// PythonCommand composes the shell command line that activates the conda
// environment and runs the given script with the interpreter.
func (c Config) PythonCommand(script string) string {
	return fmt.Sprintf("conda activate %s && %s %s", c.CondaEnv, c.Python, script)
}
