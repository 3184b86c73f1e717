package launch

// Mode is one of the launcher's startup sequences. The numeric values match
// the menu digits operators have always typed.
type Mode int

const (
	ModeCommandLine Mode = iota + 1
	ModeGUI
	ModeDataCollection
	ModeDeepSeekOnly
)

// Modes lists the launchable modes in menu order (exit is a UI concern).
func Modes() []Mode {
	return []Mode{ModeCommandLine, ModeGUI, ModeDataCollection, ModeDeepSeekOnly}
}

// Title returns the menu label for the mode.
func (m Mode) Title() string {
	switch m {
	case ModeCommandLine:
		return "Command-line monitoring"
	case ModeGUI:
		return "GUI monitoring"
	case ModeDataCollection:
		return "Data collection only"
	case ModeDeepSeekOnly:
		return "DeepSeek service only"
	}
	return "unknown"
}

// Description returns the one-line menu description for the mode.
func (m Mode) Description() string {
	switch m {
	case ModeCommandLine:
		return "full stack: model, monitoring core, receivers, data sender"
	case ModeGUI:
		return "model plus the operator GUI"
	case ModeDataCollection:
		return "SIS data sender only"
	case ModeDeepSeekOnly:
		return "Ollama service and model runtime only"
	}
	return ""
}

// Banner returns the completion banner shown after the sequence finishes.
func (m Mode) Banner() string {
	switch m {
	case ModeCommandLine:
		return "Command-line monitoring stack started"
	case ModeGUI:
		return "GUI monitoring started"
	case ModeDataCollection:
		return "Data collection mode started"
	case ModeDeepSeekOnly:
		return "DeepSeek service started"
	}
	return "Done"
}

func (m Mode) String() string {
	return m.Title()
}
