//go:build !windows

package trigger

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

// Signal toggles on SIGUSR1. Bind the desktop hotkey to
// `pkill -USR1 voicewithin`.
type Signal struct {
	sigs   chan os.Signal
	out    chan struct{}
	done   chan struct{}
	once   sync.Once
	logger *Logger.Logger
}

func NewSignal(logger *Logger.Logger) (*Signal, error) {
	s := &Signal{
		sigs:   make(chan os.Signal, 1),
		out:    make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
	signal.Notify(s.sigs, syscall.SIGUSR1)
	go s.loop()
	logger.Infow("trigger registered", "source", KindSignal, "signal", "SIGUSR1", "pid", os.Getpid())
	return s, nil
}

func (s *Signal) loop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.sigs:
			if !deliver(s.out) {
				s.logger.Debug("trigger already pending, dropped")
			}
		}
	}
}

func (s *Signal) C() <-chan struct{} { return s.out }

// Close unregisters the signal handler.
func (s *Signal) Close() error {
	s.once.Do(func() {
		signal.Stop(s.sigs)
		close(s.done)
		s.logger.Infow("trigger unregistered", "source", KindSignal)
	})
	return nil
}
