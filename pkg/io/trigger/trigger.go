// Package trigger turns an external input into toggle events. The desktop
// hotkey itself lives outside the process and is bridged in through one of
// these sources.
package trigger

import (
	"errors"
	"fmt"

	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

var ErrUnknownSource = errors.New("unknown trigger source")

// Source delivers one value per trigger. A trigger that fires while the
// previous one is still pending is dropped.
type Source interface {
	C() <-chan struct{}
	Close() error
}

const (
	KindSignal = "signal"
	KindStdin  = "stdin"
)

// New builds the source named by kind.
func New(kind string, logger *Logger.Logger) (Source, error) {
	switch kind {
	case KindSignal:
		s, err := NewSignal(logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindStdin:
		return NewStdin(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}

func deliver(out chan struct{}) bool {
	select {
	case out <- struct{}{}:
		return true
	default:
		return false
	}
}
