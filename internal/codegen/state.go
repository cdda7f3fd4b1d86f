package codegen

import (
	"fmt"
	"strings"

	"lunar/internal/types"
)

// EmitterState is threaded through every emit call: it carries the
// output buffer, the current indent, the monotonic counter used to
// name generated temporaries and switch labels, whether emission is
// currently inside a switch body (continue is only ever rejected, but
// break needs to know whether it's jumping out of a switch or a loop),
// and the type checker used to answer the capability queries the
// rewriters and class emitter depend on.
type EmitterState struct {
	out          strings.Builder
	indent       int
	genCounter   int
	breakTargets []string
	checker      types.TypeChecker
}

func newState(checker types.TypeChecker) *EmitterState {
	return &EmitterState{checker: checker}
}

// pushLoopBreak marks that a native Lua `break` is the right lowering
// for a break statement until the matching pop — used for for/while
// bodies, where Lua's own break already does the right thing.
func (s *EmitterState) pushLoopBreak() {
	s.breakTargets = append(s.breakTargets, "")
}

// pushSwitchBreak marks that a break statement inside the current
// construct must instead jump to the named switch-exit label, since
// Lua has no switch construct of its own to break out of.
func (s *EmitterState) pushSwitchBreak(doneLabel string) {
	s.breakTargets = append(s.breakTargets, doneLabel)
}

func (s *EmitterState) popBreakTarget() {
	s.breakTargets = s.breakTargets[:len(s.breakTargets)-1]
}

// currentBreakTarget returns the goto label for the innermost
// enclosing switch, or "" if the innermost enclosing breakable
// construct is a loop (native break applies).
func (s *EmitterState) currentBreakTarget() string {
	if len(s.breakTargets) == 0 {
		return ""
	}
	return s.breakTargets[len(s.breakTargets)-1]
}

func (s *EmitterState) indentString() string {
	return strings.Repeat("    ", s.indent)
}

func (s *EmitterState) writeIndented(format string, args ...interface{}) {
	s.out.WriteString(s.indentString())
	s.write(format, args...)
}

func (s *EmitterState) write(format string, args ...interface{}) {
	if len(args) == 0 {
		s.out.WriteString(format)
		return
	}
	s.out.WriteString(fmt.Sprintf(format, args...))
}

func (s *EmitterState) nextGenID() int {
	id := s.genCounter
	s.genCounter++
	return id
}
