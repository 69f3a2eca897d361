package io

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
	"github.com/xpanvictor/voicewithin/pkg/io/registry"
)

// Publisher fans notifications out to every registered endpoint.
type Publisher struct {
	reg    registry.Registry
	logger *Logger.Logger
}

func New(reg registry.Registry, logger *Logger.Logger) *Publisher {
	return &Publisher{reg: reg, logger: logger}
}

// Publish delivers n to all endpoints. One endpoint failing does not stop the
// rest; the failures are logged and returned joined.
func (p *Publisher) Publish(ctx context.Context, n device.Notification) error {
	if n.At.IsZero() {
		n.At = time.Now()
	}

	var errs []error
	for _, ep := range p.reg.ListEndpoints() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := ep.Deliver(n); err != nil {
			p.logger.Warnf("notification %s not delivered to %s: %v", n.Kind, ep.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", ep.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every endpoint and detaches it.
func (p *Publisher) Close() error {
	var errs []error
	for _, ep := range p.reg.ListEndpoints() {
		if err := ep.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ep.Name(), err))
		}
		_ = p.reg.DetachEndpoint(ep.ID())
	}
	return errors.Join(errs...)
}
