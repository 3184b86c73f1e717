package session

import "fmt"

// ComponentKind groups the launchable programs of the monitoring stack.
type ComponentKind string

const (
	KindModel    ComponentKind = "model"    // ollama model runtime
	KindCore     ComponentKind = "core"     // main monitoring system
	KindReceiver ComponentKind = "receiver" // result/fault/deepseek receivers
	KindSender   ComponentKind = "sender"   // SIS data sender
	KindGUI      ComponentKind = "gui"      // operator GUI
)

// ComponentKey identifies one launchable component, e.g. "receiver:fault".
type ComponentKey struct {
	kind ComponentKind
	name string
}

// NewKey creates a ComponentKey.
func NewKey(kind ComponentKind, name string) ComponentKey {
	return ComponentKey{kind: kind, name: name}
}

// String returns the "kind:name" form used in logs and the status footer.
func (k ComponentKey) String() string {
	return fmt.Sprintf("%s:%s", k.kind, k.name)
}
