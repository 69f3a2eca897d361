//go:build windows

package trigger

import (
	"errors"

	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

var ErrSignalUnsupported = errors.New("signal trigger is not supported on windows, use hotkey.source=stdin")

type Signal struct{}

func NewSignal(logger *Logger.Logger) (*Signal, error) {
	return nil, ErrSignalUnsupported
}

func (s *Signal) C() <-chan struct{} { return nil }
func (s *Signal) Close() error       { return nil }
