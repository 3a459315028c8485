package sat

// simplifier holds the inprocessing eliminator's state: subsumption queue,
// occurrence lists (only meaningful while Running), the BVE budget, and
// the eliminated-clause log used to extend a model back onto eliminated
// variables.
type simplifier struct {
	state simpState

	occPos [][]ClauseID // indexed by Var
	occNeg [][]ClauseID

	queue []ClauseID

	timedout int // remaining scan budget for the current run
	budget   int

	productLimit int
	growLimit    int

	// binDedup doubles as the binary-clause registry used by NewClause's
	// dedup step and by the analyzer's biclause minimization lookup.
	binDedup map[binKey]ClauseID

	elimClauses map[Var][][]Lit
	elimOrder   []Var

	conflictsSinceRun int64
	growthThreshold   int64
}

func newSimplifier(opts Options) simplifier {
	return simplifier{
		budget:          opts.SimplifyBudget,
		productLimit:    opts.ElimProductLimit,
		growLimit:       opts.ElimGrowLimit,
		binDedup:        map[binKey]ClauseID{},
		elimClauses:     map[Var][][]Lit{},
		growthThreshold: opts.SimplifyEvery,
	}
}

func (sp *simplifier) growPerVar() {
	sp.occPos = append(sp.occPos, nil)
	sp.occNeg = append(sp.occNeg, nil)
}

func (s *Solver) occLen(v Var) int {
	return len(s.simp.occPos[v]) + len(s.simp.occNeg[v])
}

func (s *Solver) simpAddOccurrences(cid ClauseID, c *Clause) {
	for _, l := range c.literals {
		v := l.Vi()
		if l.Sign() {
			s.simp.occNeg[v] = append(s.simp.occNeg[v], cid)
		} else {
			s.simp.occPos[v] = append(s.simp.occPos[v], cid)
		}
	}
	s.simpEnqueue(cid, c)
}

func (s *Solver) simpRemoveOccurrences(cid ClauseID, c *Clause) {
	for _, l := range c.literals {
		v := l.Vi()
		if l.Sign() {
			s.simp.occNeg[v] = removeClauseID(s.simp.occNeg[v], cid)
		} else {
			s.simp.occPos[v] = removeClauseID(s.simp.occPos[v], cid)
		}
	}
}

func removeClauseID(list []ClauseID, cid ClauseID) []ClauseID {
	for i, id := range list {
		if id == cid {
			list[i] = list[len(list)-1]
			return list[:len(list)-1]
		}
	}
	return list
}

func (s *Solver) simpEnqueue(cid ClauseID, c *Clause) {
	if c.flags.is(FlagEnqueuedSimp) {
		return
	}
	c.flags.set(FlagEnqueuedSimp)
	s.simp.queue = append(s.simp.queue, cid)
}

// SimplifierDue reports whether enough learnt clauses have accumulated
// since the last run to justify another pass.
func (s *Solver) SimplifierDue() bool {
	return s.simp.conflictsSinceRun >= s.simp.growthThreshold
}

// RunSimplifier performs one Dormant->Running->Dormant cycle: subsumption
// to a fixed point (budget permitting), then one bounded-variable-
// elimination sweep over all live variables. Must be called at decision
// level 0.
func (s *Solver) RunSimplifier() *Error {
	if s.decisionLevel() != 0 {
		return newError(ErrSolverBug, "simplifier invoked above the root level")
	}

	s.simp.state = simpRunning
	s.simp.conflictsSinceRun = 0
	s.buildOccurrenceLists()
	s.simp.timedout = s.simp.budget

	if err := s.drainSubsumptionQueue(); err != nil {
		s.simp.state = simpDormant
		return err
	}

	if s.simp.timedout > 0 {
		for v := Var(1); v <= Var(s.nVars); v++ {
			if s.simp.timedout <= 0 {
				break
			}
			if s.varFlags[v].is(FlagEliminated) || s.ValueOf(v) != LUnassigned {
				continue
			}
			s.simp.timedout -= s.occLen(v)
			if err := s.tryEliminate(v); err != nil {
				s.simp.state = simpDormant
				return err
			}
			if err := s.drainSubsumptionQueue(); err != nil {
				s.simp.state = simpDormant
				return err
			}
		}
	}

	if s.simp.timedout <= 0 {
		for _, cid := range s.simp.queue {
			if c := s.clauses[cid]; c != nil {
				c.flags.clear(FlagEnqueuedSimp)
			}
		}
		s.simp.queue = s.simp.queue[:0]
	}

	s.TotalSimplifies++
	s.simp.state = simpDormant
	return nil
}

func (s *Solver) buildOccurrenceLists() {
	for v := 1; v <= s.nVars; v++ {
		s.simp.occPos[v] = s.simp.occPos[v][:0]
		s.simp.occNeg[v] = s.simp.occNeg[v][:0]
	}
	s.simp.queue = s.simp.queue[:0]
	for cid := ClauseID(1); int(cid) < len(s.clauses); cid++ {
		c := s.clauses[cid]
		if c == nil || c.isDead() {
			continue
		}
		c.flags.clear(FlagEnqueuedSimp)
		s.simpAddOccurrences(cid, c)
	}
}

func (s *Solver) drainSubsumptionQueue() *Error {
	for len(s.simp.queue) > 0 && s.simp.timedout > 0 {
		cid := s.simp.queue[0]
		s.simp.queue = s.simp.queue[1:]
		c := s.clauses[cid]
		if c == nil || c.isDead() {
			continue
		}
		c.flags.clear(FlagEnqueuedSimp)
		s.simp.timedout--
		if err := s.trySubsume(cid, c); err != nil {
			return err
		}
	}
	return nil
}

// trySubsume checks clause cid against every clause sharing a literal with
// it, using the literal whose variable has the shortest occurrence list as
// the probe.
func (s *Solver) trySubsume(cid ClauseID, c *Clause) *Error {
	if len(c.literals) == 0 {
		return nil
	}

	bestV := c.literals[0].Vi()
	bestLen := s.occLen(bestV)
	for _, l := range c.literals[1:] {
		if n := s.occLen(l.Vi()); n < bestLen {
			bestLen = n
			bestV = l.Vi()
		}
	}

	candidates := make([]ClauseID, 0, bestLen)
	candidates = append(candidates, s.simp.occPos[bestV]...)
	candidates = append(candidates, s.simp.occNeg[bestV]...)

	for _, did := range candidates {
		if did == cid {
			continue
		}
		d := s.clauses[did]
		if d == nil || d.isDead() {
			continue
		}
		if clauseSubset(c.literals, d.literals) {
			s.DeleteClause(did)
			continue
		}
		if l, ok := selfSubsumeLit(c.literals, d.literals); ok {
			if err := s.strengthenClause(did, d, l.Negate()); err != nil {
				return err
			}
		}
	}
	return nil
}

func containsLit(set []Lit, l Lit) bool {
	for _, x := range set {
		if x == l {
			return true
		}
	}
	return false
}

// clauseSubset reports whether every literal of small is present in big.
func clauseSubset(small, big []Lit) bool {
	for _, l := range small {
		if !containsLit(big, l) {
			return false
		}
	}
	return true
}

// selfSubsumeLit looks for exactly one literal l in c whose negation
// appears in d, with the rest of c contained in d. If found, l is the
// literal whose negation should be stripped from d.
func selfSubsumeLit(c, d []Lit) (Lit, bool) {
	var clash Lit
	clashes := 0
	for _, l := range c {
		if containsLit(d, l) {
			continue
		}
		if containsLit(d, l.Negate()) {
			clashes++
			clash = l
			continue
		}
		return NullLit, false
	}
	return clash, clashes == 1
}

// strengthenClause removes literal l from clause did, re-registering it
// under a fresh id (the certificate records this as a delete of the old
// clause followed by an add of the shortened one).
func (s *Solver) strengthenClause(did ClauseID, d *Clause, l Lit) *Error {
	newLits := make([]Lit, 0, len(d.literals)-1)
	for _, x := range d.literals {
		if x != l {
			newLits = append(newLits, x)
		}
	}
	learnt := d.isLearnt()
	s.DeleteClause(did)

	res := s.NewClause(newLits, learnt)
	switch {
	case res.Empty:
		return newError(ErrEmptyClause, "strengthening produced the empty clause")
	case res.Unit:
		if err := s.AssignAtRootLevel(res.UnitLit); err != nil {
			return err
		}
	}
	return nil
}

// resolve computes the resolvent of clauses p and n over variable v,
// returning (nil, true) if the resolvent is a tautology.
func resolve(p, n []Lit, v Var) ([]Lit, bool) {
	out := make([]Lit, 0, len(p)+len(n))
	seen := map[Lit]struct{}{}
	for _, l := range p {
		if l.Vi() == v {
			continue
		}
		if _, ok := seen[l.Negate()]; ok {
			return nil, true
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	for _, l := range n {
		if l.Vi() == v {
			continue
		}
		if _, ok := seen[l.Negate()]; ok {
			return nil, true
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out, false
}

// tryEliminate attempts bounded variable elimination on v.
func (s *Solver) tryEliminate(v Var) *Error {
	p := s.simp.occPos[v]
	n := s.simp.occNeg[v]

	if len(p)*len(n) > s.simp.productLimit {
		return nil
	}

	nonTautological := 0
	for _, pid := range p {
		pc := s.clauses[pid]
		if pc == nil || pc.isDead() {
			continue
		}
		for _, nid := range n {
			nc := s.clauses[nid]
			if nc == nil || nc.isDead() {
				continue
			}
			if _, taut := resolve(pc.literals, nc.literals, v); !taut {
				nonTautological++
			}
		}
	}
	if nonTautological > len(p)+len(n)+s.simp.growLimit {
		return nil
	}

	// Save the original clauses for model extension before anything is
	// mutated, and collect the resolvents to add once the originals are
	// gone (so the new clauses never see themselves as an occurrence of
	// a not-yet-eliminated v).
	original := make([][]Lit, 0, len(p)+len(n))
	for _, pid := range p {
		if pc := s.clauses[pid]; pc != nil && !pc.isDead() {
			original = append(original, append([]Lit(nil), pc.literals...))
		}
	}
	for _, nid := range n {
		if nc := s.clauses[nid]; nc != nil && !nc.isDead() {
			original = append(original, append([]Lit(nil), nc.literals...))
		}
	}

	type pending struct {
		lits []Lit
	}
	var resolvents []pending
	for _, pid := range p {
		pc := s.clauses[pid]
		if pc == nil || pc.isDead() {
			continue
		}
		for _, nid := range n {
			nc := s.clauses[nid]
			if nc == nil || nc.isDead() {
				continue
			}
			lits, taut := resolve(pc.literals, nc.literals, v)
			if taut {
				continue
			}
			resolvents = append(resolvents, pending{lits: lits})
		}
	}

	pCopy := append([]ClauseID(nil), p...)
	nCopy := append([]ClauseID(nil), n...)
	for _, cid := range pCopy {
		s.DeleteClause(cid)
	}
	for _, cid := range nCopy {
		s.DeleteClause(cid)
	}

	s.simp.elimClauses[v] = original
	s.simp.elimOrder = append(s.simp.elimOrder, v)
	s.varFlags[v].set(FlagEliminated)
	s.simp.occPos[v] = s.simp.occPos[v][:0]
	s.simp.occNeg[v] = s.simp.occNeg[v][:0]

	for _, r := range resolvents {
		switch len(r.lits) {
		case 0:
			return newError(ErrEmptyClause, "variable elimination produced the empty clause")
		case 1:
			if err := s.AssignAtRootLevel(r.lits[0]); err != nil {
				return err
			}
		default:
			s.NewClause(r.lits, false)
		}
	}

	return nil
}

// ExtendModel assigns a consistent value to every eliminated variable so
// that the returned model satisfies the original, pre-simplification
// clauses.
func (s *Solver) ExtendModel(model []bool) {
	for i := len(s.simp.elimOrder) - 1; i >= 0; i-- {
		v := s.simp.elimOrder[i]
		value := true
		for _, clause := range s.simp.elimClauses[v] {
			satisfied := false
			var ownLit Lit
			for _, l := range clause {
				if l.Vi() == v {
					ownLit = l
					continue
				}
				if model[l.Vi()] != l.Sign() {
					satisfied = true
					break
				}
			}
			if satisfied {
				continue
			}
			value = !ownLit.Sign()
		}
		model[v] = value
	}
}
