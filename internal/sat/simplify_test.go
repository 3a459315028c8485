package sat

import "testing"

func TestRunSimplifierSubsumesClause(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}

	// (1 v 2) subsumes (1 v 2 v 3): the larger clause should be deleted.
	mustAdd(t, s, []int{1, 2})
	bigID := mustAddID(t, s, []int{1, 2, 3})

	if err := s.RunSimplifier(); err != nil {
		t.Fatalf("RunSimplifier: %v", err)
	}

	if c := s.clauses[bigID]; c != nil && !c.isDead() {
		t.Errorf("expected the 3-literal clause to be subsumed and deleted")
	}
}

func TestRunSimplifierEliminatesVariable(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}

	// Variable 1 appears positively in one clause and negatively in one
	// clause; eliminating it should resolve to (2 v 3).
	mustAdd(t, s, []int{1, 2})
	mustAdd(t, s, []int{-1, 3})

	if err := s.RunSimplifier(); err != nil {
		t.Fatalf("RunSimplifier: %v", err)
	}

	if !s.varFlags[Var(1)].is(FlagEliminated) {
		t.Fatalf("variable 1 was not eliminated")
	}

	if got := s.Solve(); got != StatusSAT {
		t.Fatalf("Solve() after elimination = %v, want SAT", got)
	}
	if !s.Model[2] && !s.Model[3] {
		t.Errorf("resolvent (2 v 3) not satisfied by model %v", s.Model[1:])
	}
}

func mustAdd(t *testing.T, s *Solver, cl []int) {
	t.Helper()
	lits := make([]Lit, len(cl))
	for i, x := range cl {
		lits[i] = FromDIMACS(int32(x))
	}
	if err := s.AddClause(lits); err != nil {
		t.Fatalf("AddClause(%v): %v", cl, err)
	}
}

func mustAddID(t *testing.T, s *Solver, cl []int) ClauseID {
	t.Helper()
	lits := make([]Lit, len(cl))
	for i, x := range cl {
		lits[i] = FromDIMACS(int32(x))
	}
	res := s.NewClause(lits, false)
	if res.Satisfied || res.Empty || res.Unit {
		t.Fatalf("NewClause(%v) did not register a multi-literal clause: %+v", cl, res)
	}
	return res.ID
}
