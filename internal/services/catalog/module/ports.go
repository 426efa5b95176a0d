package module

import (
	catdom "maitred/internal/services/catalog/domain"
)

// Ports bundles the catalog's exported ports for cross-module wiring
type Ports struct {
	Reader catdom.ReaderPort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
