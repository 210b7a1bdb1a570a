package module

// Ports returns the runner port for cross wiring and schedulers
func (m *Module) Ports() any { return m.ports }
