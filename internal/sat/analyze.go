package sat

// Analyze performs 1-UIP conflict analysis: it resolves backward from the
// conflicting clause along the trail until exactly one
// literal of the current decision level remains, then minimizes the
// resulting clause. It returns the learnt clause (with the 1-UIP negation
// at index 0) and the backjump level. Binary clauses are allocated the
// same as longer ones, so cid's literals describe the conflict directly
// regardless of clause size.
func (s *Solver) Analyze(cid ClauseID) ([]Lit, int) {
	key := s.seen.next()
	s.anToClear = s.anToClear[:0]

	learnt := append(s.tmpLearnt[:0], NullLit) // placeholder for the 1-UIP literal
	pathCount := 0
	curLevel := s.decisionLevel()

	s.bumpClauseActivity(s.clauses[cid])
	reasonLits := s.clauses[cid].literals
	idx := len(s.trail) - 1

	for {
		for _, l := range reasonLits {
			v := l.Vi()
			if s.seen.has(int(v), key) {
				continue
			}
			if s.LevelOf(v) == 0 {
				continue
			}
			s.seen.mark(int(v), key)
			s.anToClear = append(s.anToClear, v)
			s.bumpVarActivity(v)
			if s.LevelOf(v) >= curLevel {
				pathCount++
			} else {
				learnt = append(learnt, l)
			}
		}

		// Walk the trail backward to the next literal participating in the
		// current path.
		var p Lit
		for {
			p = s.trail[idx]
			idx--
			if s.seen.has(int(p.Vi()), key) {
				break
			}
		}
		pathCount--
		if pathCount == 0 {
			learnt[0] = p.Negate()
			break
		}

		r := s.reason[p.Vi()]
		if r.IsClause() {
			s.bumpClauseActivity(s.clauses[r.ClauseID()])
		}
		reasonLits = s.reasonLiterals(p, r)
	}

	learnt = s.minimize(learnt, key)

	s.decayVarActivity()
	s.decayClauseActivity()

	backLevel := s.backjumpLevel(learnt)
	return learnt, backLevel
}

// reasonLiterals reconstructs the literal set implying p via reason r, in
// the same shape a real clause's literals would have (p itself first).
func (s *Solver) reasonLiterals(p Lit, r Reason) []Lit {
	switch {
	case r.IsBinary():
		return []Lit{p, r.Lit()}
	case r.IsClause():
		c := s.clauses[r.ClauseID()]
		lits := c.literals
		// p itself is among lits; both callers skip it (Analyze because p
		// is already marked seen, litRedundant by comparing variables).
		return lits
	default:
		return nil
	}
}

// backjumpLevel returns the second-highest decision level among learnt's
// literals (0 if learnt has only one literal), and moves that literal to
// index 1 so NewClause watches it directly.
func (s *Solver) backjumpLevel(learnt []Lit) int {
	if len(learnt) == 1 {
		return 0
	}
	maxIdx := 1
	maxLevel := s.LevelOf(learnt[1].Vi())
	for i := 2; i < len(learnt); i++ {
		if lvl := s.LevelOf(learnt[i].Vi()); lvl > maxLevel {
			maxLevel = lvl
			maxIdx = i
		}
	}
	learnt[1], learnt[maxIdx] = learnt[maxIdx], learnt[1]
	return maxLevel
}

// minimize applies self-subsumption minimization (deep, following reason
// chains through already-seen levels) and, when the clause is small and
// will have low LBD, biclause minimization against the binary-clause
// registry.
func (s *Solver) minimize(learnt []Lit, key uint32) []Lit {
	out := learnt[:1]
	for _, l := range learnt[1:] {
		if !s.litRedundant(l, key) {
			out = append(out, l)
		}
	}

	if len(out) <= 30 {
		lbd := s.computeLBD(out)
		if lbd <= 6 {
			out = s.biclauseMinimize(out)
		}
	}

	return out
}

// litRedundant reports whether l's assignment is implied entirely by other
// already-seen literals, by walking l's reason clause and recursing. A
// non-decision literal all of whose antecedents are themselves seen (or at
// level 0) contributes nothing new to the learnt clause.
func (s *Solver) litRedundant(l Lit, key uint32) bool {
	r := s.reason[l.Vi()]
	if r.IsNone() {
		return false
	}
	top := len(s.anToClear)

	type frame struct {
		lits []Lit
		idx  int
	}
	frames := []frame{{lits: s.reasonLiterals(l, r), idx: 0}}

	for len(frames) > 0 {
		top := &frames[len(frames)-1]
		if top.idx >= len(top.lits) {
			frames = frames[:len(frames)-1]
			continue
		}
		x := top.lits[top.idx]
		top.idx++
		v := x.Vi()
		if v == l.Vi() {
			continue
		}
		if s.seen.has(int(v), key) || s.LevelOf(v) == 0 {
			continue
		}
		xr := s.reason[v]
		if xr.IsNone() {
			// Unmark what this failed walk marked, so later literals do
			// not count those variables as implied.
			for _, u := range s.anToClear[top:] {
				s.seen.mark(int(u), 0)
			}
			s.anToClear = s.anToClear[:top]
			return false
		}
		s.seen.mark(int(v), key)
		s.anToClear = append(s.anToClear, v)
		frames = append(frames, frame{lits: s.reasonLiterals(x, xr), idx: 0})
	}
	return true
}

// biclauseMinimize drops any literal l from learnt for which a binary
// clause (learnt[0], ¬l) exists, since such an l is implied by the
// asserting literal alone.
func (s *Solver) biclauseMinimize(learnt []Lit) []Lit {
	out := learnt[:1]
	uip := learnt[0]
	for _, l := range learnt[1:] {
		if s.hasBinaryClause(uip, l.Negate()) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (s *Solver) hasBinaryClause(a, b Lit) bool {
	_, ok := s.simp.binDedup[makeBinKey(a, b)]
	return ok
}
