// Package board holds the file-format independent PCB data model: layers,
// components, pins, nets, wires, vias and design rules. Units are
// millimetres; rotations are degrees counter-clockwise from +x.
package board

import "sync"

// Id is an interned integer identifying any user-visible name (layer, net,
// pin, component, padstack, ruleset).
type Id int64

// NameMap interns names to ids, process-wide, with concurrent readers and an
// exclusive writer for interning a new name.
type NameMap struct {
	mu        sync.RWMutex
	nameToID  map[string]Id
	idToName  []string
}

func NewNameMap() *NameMap {
	return &NameMap{nameToID: make(map[string]Id)}
}

// ID interns name if unseen and returns its id.
func (m *NameMap) ID(name string) Id {
	m.mu.RLock()
	if id, ok := m.nameToID[name]; ok {
		m.mu.RUnlock()
		return id
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.nameToID[name]; ok {
		return id
	}
	id := Id(len(m.idToName))
	m.nameToID[name] = id
	m.idToName = append(m.idToName, name)
	return id
}

// Name returns the name id was interned from.
func (m *NameMap) Name(id Id) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.idToName[id]
}
