package sat

import "time"

// AddClause registers a permanent (non-learnt) clause over the given
// literals, applying the root-level cleanup and unit/empty short-circuits.
// Once the solver has latched unsat, further calls are no-ops.
func (s *Solver) AddClause(lits []Lit) *Error {
	if s.unsat {
		return nil
	}
	res := s.NewClause(lits, false)
	switch {
	case res.Empty:
		s.unsat = true
		return newError(ErrEmptyClause, "added clause is empty after root-level cleanup")
	case res.Unit:
		if err := s.AssignAtRootLevel(res.UnitLit); err != nil {
			s.unsat = true
			return err
		}
	}
	return nil
}

// Solve runs CDCL search to completion or to a soft stop condition
// (timeout, conflict budget).
func (s *Solver) Solve() Status {
	if s.unsat {
		return StatusUNSAT
	}
	s.startTime = time.Now()

	for {
		if s.opts.Timeout > 0 && time.Since(s.startTime) > s.opts.Timeout {
			return StatusTimeOut
		}

		cid, conflict := s.Propagate()
		if conflict {
			if s.decisionLevel() == 0 {
				s.unsat = true
				return StatusUNSAT
			}
			if err := s.handleConflict(cid); err != nil {
				s.unsat = true
				return StatusUNSAT
			}
			continue
		}

		if s.decisionLevel() == 0 {
			if s.reduceDeferred {
				s.maybeReduceDB()
			}
			if s.SimplifierDue() {
				if err := s.RunSimplifier(); err != nil {
					s.unsat = true
					return StatusUNSAT
				}
				s.observeSimplify()
				continue
			}
			if s.opts.VivifyEvery > 0 && s.vivifyConflicts >= s.opts.VivifyEvery {
				s.runVivification()
				if s.unsat {
					return StatusUNSAT
				}
				continue
			}
		}

		if s.opts.MaxConflicts >= 0 && s.TotalConflicts >= s.opts.MaxConflicts {
			return StatusTimeOut
		}

		v, ok := s.heapPopDecision()
		if !ok {
			return s.finishSAT()
		}

		s.AssignByDecision(s.savedPhase(v))
		s.observeDecision()
	}
}

// handleConflict runs analysis, learns the derived clause, backjumps, and
// feeds the restart/reduce/simplify schedulers.
func (s *Solver) handleConflict(cid ClauseID) *Error {
	s.TotalConflicts++
	s.simp.conflictsSinceRun++
	s.vivifyConflicts++

	learnt, backLevel := s.Analyze(cid)
	s.cancelUntil(backLevel)

	res := s.NewClause(learnt, true)
	switch {
	case res.Empty:
		return newError(ErrEmptyClause, "conflict analysis produced the empty clause")
	case res.Unit:
		if err := s.AssignAtRootLevel(res.UnitLit); err != nil {
			return err
		}
	case len(learnt) == 2:
		s.AssignByImplication(learnt[0], BinaryReason(learnt[1]))
	default:
		s.AssignByImplication(learnt[0], ClauseReason(res.ID))
	}

	lbd := s.computeLBD(learnt)
	s.restart.onConflict(lbd, len(s.trail))
	s.observeConflict(len(learnt))

	if s.opts.ReduceEvery > 0 && s.TotalConflicts%s.opts.ReduceEvery == 0 {
		s.maybeReduceDB()
	}

	if s.opts.RestartEvery > 0 && s.TotalConflicts%s.opts.RestartEvery == 0 {
		if s.restart.shouldRestart(len(s.trail)) {
			s.cancelUntil(0)
			s.restart.onRestart()
			s.TotalRestarts++
			s.observeRestart()
		}
	}

	return nil
}

// finishSAT is reached when every variable has a value: it snapshots the
// model, extends it onto eliminated variables, and returns StatusSAT.
func (s *Solver) finishSAT() Status {
	model := make([]bool, s.nVars+1)
	for v := 1; v <= s.nVars; v++ {
		if s.varFlags[Var(v)].is(FlagEliminated) {
			continue
		}
		model[v] = s.value[v] == LTrue
	}
	s.ExtendModel(model)
	s.Model = model
	return StatusSAT
}
