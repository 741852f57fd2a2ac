package dst

import "sync/atomic"

// nextStateID is the process-wide monotonic counter states are minted
// from: state identity is global, so fresh states allocated during
// compilation never collide, whichever sub-DST they end up merged into.
var nextStateID atomic.Int64

// State is an identity-bearing DST node. Out is nil for non-final
// states; a non-nil Out (output-name -> pattern-variable-name) marks the
// state final.
type State struct {
	ID  int64
	Out map[string]string
}

// NewState allocates a fresh state with a globally unique id.
func NewState() *State {
	return &State{ID: nextStateID.Add(1)}
}

// IsFinal reports whether the state carries an output label.
func (s *State) IsFinal() bool {
	return s.Out != nil
}
