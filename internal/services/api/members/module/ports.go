package module

// Ports returns the member port for cross wiring
func (m *Module) Ports() any { return m.ports }
