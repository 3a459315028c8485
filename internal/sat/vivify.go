package sat

// Vivify attempts to shrink clause cid using cumulative sandboxed
// vivification: the clause's literals are assumed false one at a time,
// without cancelling in between, and propagated. Three things can happen
// to the literal under consideration:
//
//   - it is already forced true by the assumptions made so far: the
//     prefix plus this literal is therefore implied, and every literal
//     after it is redundant;
//   - it is already forced false by the assumptions made so far: it
//     cannot help satisfy the clause and is simply dropped;
//   - otherwise it is assumed and propagated; a conflict proves the
//     assumed prefix (including this literal) is already unsatisfiable,
//     so conflict analysis derives a (possibly smaller) implied clause
//     to replace it with.
//
// It returns whether the clause was strengthened.
func (s *Solver) Vivify(cid ClauseID) bool {
	c := s.clauses[cid]
	if c == nil || c.isDead() || len(c.literals) <= 2 {
		return false
	}
	if s.decisionLevel() != 0 {
		return false
	}
	if s.locked(cid, c) {
		return false
	}

	budget := s.opts.VivifyBudget
	base := append([]Lit(nil), c.literals...)
	rootLevel := len(s.trailLim)

	kept := make([]Lit, 0, len(base))

	for _, l := range base {
		if budget <= 0 {
			kept = append(kept, l)
			continue
		}

		switch s.LitValue(l) {
		case LTrue:
			kept = append(kept, l)
			s.cancelUntil(rootLevel)
			if len(kept) == len(base) {
				return false
			}
			return s.applyVivified(cid, c, kept)
		case LFalse:
			continue
		}

		budget--
		from := len(s.trail)
		s.AssignByDecision(l.Negate())

		cidConf, conflict := s.propagateSandbox(from)
		if conflict {
			learnt, _ := s.Analyze(cidConf)
			s.cancelUntil(rootLevel)
			if len(learnt) >= len(base) {
				return false
			}
			return s.applyVivified(cid, c, learnt)
		}
		kept = append(kept, l)
	}

	s.cancelUntil(rootLevel)

	if len(kept) == len(base) {
		return false
	}
	return s.applyVivified(cid, c, kept)
}

// applyVivified replaces c (identified by cid) with a clause over lits,
// which must be a non-empty, duplicate-free subset implied by the rest
// of the formula. Must be called at decision level 0.
func (s *Solver) applyVivified(cid ClauseID, c *Clause, lits []Lit) bool {
	learnt := c.isLearnt()
	s.DeleteClause(cid)
	res := s.NewClause(lits, learnt)
	switch {
	case res.Empty:
		s.unsat = true
	case res.Unit:
		if err := s.AssignAtRootLevel(res.UnitLit); err != nil {
			s.unsat = true
		}
	}
	s.TotalVivified++
	if s.metrics != nil {
		s.metrics.Vivified.Inc()
	}
	return true
}

// vivifyLBDCutoff bounds the glue of a learnt clause eligible for
// vivification: clauses this tight are worth the sandboxed propagation
// cost, wider ones rarely strengthen enough to pay for it.
const vivifyLBDCutoff = 6

// runVivification scans the learnt clauses added since the previous pass
// and vivifies those with a low enough LBD, then advances the watermark so
// the next pass only looks at freshly learnt clauses. Must be called at
// decision level 0.
func (s *Solver) runVivification() {
	s.vivifyConflicts = 0

	start := s.lastVivified
	if start > len(s.learnts) {
		start = 0
	}
	candidates := append([]ClauseID(nil), s.learnts[start:]...)
	s.lastVivified = len(s.learnts)

	for _, cid := range candidates {
		if s.unsat {
			return
		}
		c := s.clauses[cid]
		if c == nil || c.isDead() || c.lbd > vivifyLBDCutoff {
			continue
		}
		s.Vivify(cid)
	}
}
