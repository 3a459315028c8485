package sat

import "sort"

// binKey canonicalizes an unordered pair of literals for binary-clause
// dedup: the key is built from the pair sorted by value, so registering
// (a,b) and later (b,a) hit the same entry.
type binKey struct{ a, b Lit }

func makeBinKey(a, b Lit) binKey {
	if a > b {
		a, b = b, a
	}
	return binKey{a, b}
}

// computeLBD counts the number of distinct decision levels among lits'
// assignments, ignoring the root level, using the shared key-stamped
// scratch array.
func (s *Solver) computeLBD(lits []Lit) uint32 {
	key := s.minLevels.next()
	var n uint32
	for _, l := range lits {
		lvl := s.LevelOf(l.Vi())
		if lvl <= 0 {
			continue
		}
		if !s.minLevels.has(lvl, key) {
			s.minLevels.mark(lvl, key)
			n++
		}
	}
	return n
}

// allocClauseID reuses a freed slot or appends a new one.
func (s *Solver) allocClauseID(c *Clause) ClauseID {
	if n := len(s.freeIDs); n > 0 {
		id := s.freeIDs[n-1]
		s.freeIDs = s.freeIDs[:n-1]
		s.clauses[id] = c
		return id
	}
	s.clauses = append(s.clauses, c)
	return ClauseID(len(s.clauses) - 1)
}

// watch registers clause cid to be woken when watchLit becomes true, with
// cached as the other watched literal.
func (s *Solver) watch(cid ClauseID, watchLit, cached Lit) {
	s.watches[watchLit] = append(s.watches[watchLit], watchEntry{cid: cid, cached: cached})
}

func (s *Solver) unwatch(cid ClauseID, watchLit Lit) {
	list := s.watches[watchLit]
	for i, w := range list {
		if w.cid == cid {
			list[i] = list[len(list)-1]
			s.watches[watchLit] = list[:len(list)-1]
			return
		}
	}
}

func (s *Solver) addBinaryLink(l Lit, blocker Lit, cid ClauseID) {
	s.binaryLinks[l] = append(s.binaryLinks[l], binLink{blocker: blocker, cid: cid})
}

func (s *Solver) removeBinaryLink(l Lit, cid ClauseID) {
	list := s.binaryLinks[l]
	for i, b := range list {
		if b.cid == cid {
			list[i] = list[len(list)-1]
			s.binaryLinks[l] = list[:len(list)-1]
			return
		}
	}
}

// NewClause implements the clause-creation contract. lits is consumed; for
// non-learnt clauses it is cleaned up in place (root-false literals
// dropped, duplicates removed, tautologies detected). For learnt clauses
// the caller (the analyzer) is responsible for having already
// placed the 1-UIP negation at lits[0] and the max-level literal at
// lits[1].
func (s *Solver) NewClause(lits []Lit, learnt bool) ClauseResult {
	if !learnt {
		lits = s.cleanupRootLevel(lits)
		if lits == nil {
			return ClauseResult{Satisfied: true}
		}
	}

	switch len(lits) {
	case 0:
		return ClauseResult{Empty: true}
	case 1:
		return ClauseResult{Unit: true, UnitLit: lits[0]}
	}

	if len(lits) == 2 {
		key := makeBinKey(lits[0], lits[1])
		if id, ok := s.simp.binDedup[key]; ok {
			return ClauseResult{ID: id}
		}
	}

	c := &Clause{
		literals:   append([]Lit(nil), lits...),
		searchFrom: 2,
	}
	if learnt {
		c.flags.set(FlagLearnt)
	}
	c.lbd = s.computeLBD(c.literals)
	c.rankOld = c.lbd
	if c.lbd <= 2 {
		c.flags.set(FlagCore)
	}

	id := s.allocClauseID(c)

	if len(c.literals) == 2 {
		if s.simp.binDedup == nil {
			s.simp.binDedup = map[binKey]ClauseID{}
		}
		s.simp.binDedup[makeBinKey(c.literals[0], c.literals[1])] = id
		s.addBinaryLink(c.literals[0].Negate(), c.literals[1], id)
		s.addBinaryLink(c.literals[1].Negate(), c.literals[0], id)
	} else {
		s.watch(id, c.literals[0].Negate(), c.literals[1])
		s.watch(id, c.literals[1].Negate(), c.literals[0])
	}

	if learnt && !c.isCore() {
		s.learnts = append(s.learnts, id)
		s.nLearntClauses++
	}
	if s.simp.state == simpRunning {
		s.simpAddOccurrences(id, c)
	}

	s.emitAdd(c.literals)
	return ClauseResult{ID: id}
}

// cleanupRootLevel applies new_clause contract steps 1-3: drop root-false
// literals, detect a root-true literal or a tautology (both "satisfied"),
// and deduplicate. Returns nil to mean "satisfied, nothing to record".
func (s *Solver) cleanupRootLevel(lits []Lit) []Lit {
	seen := map[Lit]struct{}{}
	size := len(lits)
	for i := size - 1; i >= 0; i-- {
		l := lits[i]
		if _, ok := seen[l.Negate()]; ok {
			return nil // tautology
		}
		if _, ok := seen[l]; ok {
			size--
			lits[i], lits[size] = lits[size], lits[i]
			continue
		}
		seen[l] = struct{}{}

		if s.LevelOf(l.Vi()) == 0 {
			switch s.LitValue(l) {
			case LTrue:
				return nil // satisfied at root level
			case LFalse:
				size--
				lits[i], lits[size] = lits[size], lits[i]
			}
		}
	}
	return lits[:size]
}

// DeleteClause marks cid dead, removes it from both watch structures, and
// emits a delete certificate event.
func (s *Solver) DeleteClause(cid ClauseID) {
	c := s.clauses[cid]
	if c == nil || c.isDead() {
		return
	}
	c.flags.set(FlagDead)

	if len(c.literals) == 2 {
		s.removeBinaryLink(c.literals[0].Negate(), cid)
		s.removeBinaryLink(c.literals[1].Negate(), cid)
		delete(s.simp.binDedup, makeBinKey(c.literals[0], c.literals[1]))
	} else {
		s.unwatch(cid, c.literals[0].Negate())
		s.unwatch(cid, c.literals[1].Negate())
	}
	if s.simp.state == simpRunning {
		s.simpRemoveOccurrences(cid, c)
	}

	s.emitDelete(c.literals)
	c.literals = nil
	s.clauses[cid] = nil
	s.freeIDs = append(s.freeIDs, cid)
}

// locked reports whether cid is currently the reason of some trail literal;
// locked clauses are never deleted by reduction.
func (s *Solver) locked(cid ClauseID, c *Clause) bool {
	if len(c.literals) < 1 {
		return false
	}
	r := s.reason[c.literals[0].Vi()]
	return r.IsClause() && r.ClauseID() == cid
}

func (s *Solver) bumpClauseActivity(c *Clause) {
	if !c.isLearnt() {
		return
	}
	c.activity += s.clauseInc
	if c.activity > 1e100 {
		for _, id := range s.learnts {
			if cl := s.clauses[id]; cl != nil {
				cl.activity *= 1e-100
			}
		}
		s.clauseInc *= 1e-100
	}
}

func (s *Solver) decayClauseActivity() {
	s.clauseInc /= s.opts.ClauseDecay
}

// maybeReduceDB runs the periodic learnt-clause reduction pass. If called
// above the root level, the reduction is deferred to the next backjump to
// level 0 to avoid corrupting the trail.
func (s *Solver) maybeReduceDB() {
	if s.decisionLevel() != 0 {
		s.reduceDeferred = true
		return
	}
	s.reduceDeferred = false

	kept := make([]ClauseID, 0, len(s.learnts))
	candidates := make([]ClauseID, 0, len(s.learnts))
	for _, id := range s.learnts {
		c := s.clauses[id]
		if c == nil || c.isDead() {
			continue
		}
		if c.isCore() || s.locked(id, c) {
			kept = append(kept, id)
			continue
		}
		candidates = append(candidates, id)
	}

	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := s.clauses[candidates[i]], s.clauses[candidates[j]]
		if ci.lbd != cj.lbd {
			return ci.lbd < cj.lbd
		}
		return ci.activity > cj.activity
	})

	half := len(candidates) / 2
	for i, id := range candidates {
		c := s.clauses[id]
		if i < half || c.lbd <= 2 {
			kept = append(kept, id)
			continue
		}
		s.DeleteClause(id)
	}

	s.learnts = kept
}
