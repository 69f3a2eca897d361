package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// Session is one press-record-press cycle. The state machine is the single
// source of truth for whether a trigger starts, stops or is dropped.
//
//	idle --start--> recording --stop--> processing --finish--> idle
//	recording|processing --reset--> idle
type Session struct {
	ID           uuid.UUID
	StartedAt    *time.Time
	StateMachine *fsm.FSM
}

func newSession(onEnter func(from, to State, ev Event)) *Session {
	s := &Session{}
	s.StateMachine = fsm.NewFSM(
		string(Idle),
		fsm.Events{
			{Name: string(EvStart), Src: []string{string(Idle)}, Dst: string(Recording)},
			{Name: string(EvStop), Src: []string{string(Recording)}, Dst: string(Processing)},
			{Name: string(EvFinish), Src: []string{string(Processing)}, Dst: string(Idle)},
			{Name: string(EvReset), Src: []string{string(Recording), string(Processing)}, Dst: string(Idle)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				onEnter(State(e.Src), State(e.Dst), Event(e.Event))
			},
		},
	)
	return s
}

func (s *Session) State() State {
	return State(s.StateMachine.Current())
}

func (s *Session) Can(ev Event) bool {
	return s.StateMachine.Can(string(ev))
}

func (s *Session) fire(ctx context.Context, ev Event) error {
	return s.StateMachine.Event(ctx, string(ev))
}

// begin stamps a fresh identity for the next recording.
func (s *Session) begin(at time.Time) {
	s.ID = uuid.New()
	s.StartedAt = &at
}

func (s *Session) clear() {
	s.ID = uuid.Nil
	s.StartedAt = nil
}
