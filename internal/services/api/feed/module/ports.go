package module

// Ports returns the feed port for cross wiring
func (m *Module) Ports() any { return m.ports }
