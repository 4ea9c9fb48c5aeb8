package httpheader

import (
	"github.com/qmuntal/stateless"
)

// Slot states: a slot starts unevaluated and settles exactly once into
// decoded or failed, both terminal.
const (
	slotUnevaluated = "unevaluated"
	slotDecoded     = "decoded"
	slotFailed      = "failed"
)

const (
	triggerDecoded = "decode-ok"
	triggerFailed  = "decode-fail"
)

// slot is the per-request memo cell of one header's decode outcome.
type slot struct {
	fsm    *stateless.StateMachine
	val    any
	absent bool
	raw    []string
	err    error
	calls  int
}

func newSlot() *slot {
	fsm := stateless.NewStateMachine(slotUnevaluated)
	fsm.Configure(slotUnevaluated).
		Permit(triggerDecoded, slotDecoded).
		Permit(triggerFailed, slotFailed)
	return &slot{fsm: fsm}
}

func (s *slot) state() string { return s.fsm.MustState().(string) } //nolint:forcetypeassert

func (s *slot) resolved() bool { return s.state() != slotUnevaluated }

func (s *slot) failed() bool { return s.state() == slotFailed }

func (s *slot) settle(v any, absent bool) {
	s.val, s.absent = v, absent
	s.fire(triggerDecoded)
}

func (s *slot) fail(raw []string, err error) {
	s.raw, s.err = raw, err
	s.fire(triggerFailed)
}

// fire panics on an invalid transition: settling a slot twice is a bug in
// the store, not a request error.
func (s *slot) fire(trigger string) {
	if err := s.fsm.Fire(trigger); err != nil {
		panic(err)
	}
}
