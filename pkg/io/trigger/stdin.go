package trigger

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

// Lines toggles once per line read, so pressing Enter in a foreground
// terminal starts and stops a recording.
type Lines struct {
	out    chan struct{}
	done   chan struct{}
	once   sync.Once
	logger *Logger.Logger
}

func NewStdin(logger *Logger.Logger) *Lines {
	return NewLines(os.Stdin, logger)
}

// NewLines reads r until EOF or Close. A read blocked on r is not
// interrupted by Close; its line is discarded.
func NewLines(r io.Reader, logger *Logger.Logger) *Lines {
	l := &Lines{
		out:    make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
	go l.scan(r)
	logger.Infow("trigger registered", "source", KindStdin, "hint", "press Enter to start or stop")
	return l
}

func (l *Lines) scan(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case <-l.done:
			return
		default:
		}
		if !deliver(l.out) {
			l.logger.Debug("trigger already pending, dropped")
		}
	}
	if err := sc.Err(); err != nil {
		l.logger.Warnf("trigger input closed: %v", err)
	}
}

func (l *Lines) C() <-chan struct{} { return l.out }

func (l *Lines) Close() error {
	l.once.Do(func() {
		close(l.done)
		l.logger.Infow("trigger unregistered", "source", KindStdin)
	})
	return nil
}
