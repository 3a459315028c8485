// Package cnfio adapts the solver to the DIMACS CNF/model file formats. It
// wraps github.com/rhartert/dimacs's streaming reader behind a
// dimacs.Builder implementation rather than hand-rolling a scanner.
package cnfio

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"

	"github.com/hartert-labs/cdsat/internal/sat"
)

// problemSolver is the subset of *sat.Solver that loading a CNF file needs.
type problemSolver interface {
	AddVariable() sat.Var
	AddClause([]sat.Lit) *sat.Error
}

func openReader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses the DIMACS CNF file at filename and loads its clauses
// into solver.
func LoadDIMACS(filename string, gzipped bool, solver problemSolver) error {
	r, err := openReader(filename, gzipped)
	if err != nil {
		return fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer r.Close()

	b := &cnfBuilder{solver: solver}
	return dimacs.ReadBuilder(r, b)
}

// cnfBuilder wraps a solver to implement dimacs.Builder.
type cnfBuilder struct {
	solver problemSolver
}

func (b *cnfBuilder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("instance of type %q is not supported", problem)
	}
	for i := 0; i < nVars; i++ {
		b.solver.AddVariable()
	}
	return nil
}

func (b *cnfBuilder) Clause(tmpClause []int) error {
	clause := make([]sat.Lit, len(tmpClause))
	for i, l := range tmpClause {
		clause[i] = sat.FromDIMACS(int32(l))
	}
	if err := b.solver.AddClause(clause); err != nil && err.Kind != sat.ErrRootLevelConflict && err.Kind != sat.ErrEmptyClause {
		return err
	}
	return nil
}

func (b *cnfBuilder) Comment(_ string) error {
	return nil
}
