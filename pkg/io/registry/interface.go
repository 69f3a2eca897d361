package registry

import (
	"errors"

	"github.com/xpanvictor/voicewithin/pkg/io/device"
)

var ErrEndpointNotFound = errors.New("endpoint not found")

// Registry tracks the endpoints notifications fan out to.
type Registry interface {
	// endpoint lifecycle
	AttachEndpoint(ep device.Endpoint) error
	DetachEndpoint(id device.EndpointID) error
	// queries
	ListEndpoints() []device.Endpoint
	GetEndpoint(id device.EndpointID) (device.Endpoint, bool)
}
