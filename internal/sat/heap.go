package sat

// The order heap is a max-heap over variables keyed by VSIDS activity,
// implemented on top of yagh.IntMap[float64]: priorities are stored
// negated so that Pop() (a min-heap) returns the variable of maximum
// activity, and insert/update are both a single Put call since yagh
// supports decrease-key natively.
//
// Activity decay is realized the way MiniSat-family solvers generally do
// it: rather than literally multiplying every variable's score by d each
// tick, the shared increment varInc is divided by d. Bumping a variable by
// varInc after n ticks therefore adds the same amount a direct
// d^(ticks-since-bump) decay would have left it with; periodic rescaling
// keeps varInc and the activities themselves from overflowing. This is the
// lazy, read-on-demand realization of a "decay by d each tick" policy
// without a per-variable last-tick array.

// heapInsert re-inserts v into the order heap if it is not already present
// (idempotent).
func (s *Solver) heapInsert(v Var) {
	if s.varFlags[v].is(FlagEnqueued) {
		return
	}
	s.heap.Put(int(v), -s.activity[v])
	s.varFlags[v].set(FlagEnqueued)
}

// heapPopDecision pops and returns the unassigned, non-eliminated variable
// of maximum activity, skipping stale entries left by cancelUntil/BVE.
func (s *Solver) heapPopDecision() (Var, bool) {
	for {
		e, ok := s.heap.Pop()
		if !ok {
			return NullVar, false
		}
		v := Var(e.Elem)
		s.varFlags[v].clear(FlagEnqueued)
		if s.value[v] != LUnassigned || s.varFlags[v].is(FlagEliminated) {
			continue
		}
		return v, true
	}
}

// heapUpdate re-heapifies v's entry after its activity changed.
func (s *Solver) heapUpdate(v Var) {
	if s.varFlags[v].is(FlagEnqueued) {
		s.heap.Put(int(v), -s.activity[v])
	}
}

// bumpVarActivity rewards v for participating in the current conflict.
func (s *Solver) bumpVarActivity(v Var) {
	s.activity[v] += s.varInc
	s.heapUpdate(v)
	if s.activity[v] > 1e100 {
		s.rescaleVarActivity()
	}
}

// decayVarActivity advances the activity tick by increasing the shared
// increment, lazily decaying every variable's effective score.
func (s *Solver) decayVarActivity() {
	s.varInc /= s.opts.VariableDecay
}

func (s *Solver) rescaleVarActivity() {
	for v := 1; v <= s.nVars; v++ {
		s.activity[v] *= 1e-100
		s.heapUpdate(Var(v))
	}
	s.varInc *= 1e-100
}
