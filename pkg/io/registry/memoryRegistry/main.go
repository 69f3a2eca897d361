package memoryregistry

import (
	"fmt"
	"sync"

	"github.com/xpanvictor/voicewithin/pkg/io/device"
	"github.com/xpanvictor/voicewithin/pkg/io/registry"
)

type mmrRegistry struct {
	mu    sync.RWMutex
	order []device.EndpointID
	epMap map[device.EndpointID]device.Endpoint
}

// AttachEndpoint implements registry.Registry.
func (m *mmrRegistry) AttachEndpoint(ep device.Endpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.epMap[ep.ID()]; exists {
		return fmt.Errorf("endpoint %s already attached", ep.ID())
	}
	m.epMap[ep.ID()] = ep
	m.order = append(m.order, ep.ID())
	return nil
}

// DetachEndpoint implements registry.Registry.
func (m *mmrRegistry) DetachEndpoint(id device.EndpointID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.epMap[id]; !exists {
		return registry.ErrEndpointNotFound
	}
	delete(m.epMap, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListEndpoints implements registry.Registry. Attach order is preserved.
func (m *mmrRegistry) ListEndpoints() []device.Endpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	eps := make([]device.Endpoint, 0, len(m.order))
	for _, id := range m.order {
		eps = append(eps, m.epMap[id])
	}
	return eps
}

// GetEndpoint implements registry.Registry.
func (m *mmrRegistry) GetEndpoint(id device.EndpointID) (device.Endpoint, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ep, ok := m.epMap[id]
	return ep, ok
}

func New() registry.Registry {
	return &mmrRegistry{
		epMap: make(map[device.EndpointID]device.Endpoint),
	}
}
