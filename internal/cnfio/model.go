package cnfio

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rhartert/dimacs"
)

// ReadModels returns the list of models contained in a DIMACS-formatted
// model file (one model per "clause" line, literals already signed).
func ReadModels(filename string) ([][]bool, error) {
	r, err := openReader(filename, false)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer r.Close()

	b := &modelBuilder{}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, err
	}
	return b.models, nil
}

type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("model files should not have a problem line")
}

func (b *modelBuilder) Comment(_ string) error { return nil }

func (b *modelBuilder) Clause(tmpClause []int) error {
	model := make([]bool, len(tmpClause))
	for i, l := range tmpClause {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}

// WriteModel writes model (indexed by Var, 1..n; index 0 ignored) to
// filename as a single DIMACS-style signed-literal line terminated by 0.
func WriteModel(filename string, model []bool) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file %q: %w", filename, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for v := 1; v < len(model); v++ {
		if model[v] {
			fmt.Fprintf(w, "%d ", v)
		} else {
			fmt.Fprintf(w, "-%d ", v)
		}
	}
	fmt.Fprintln(w, "0")
	return w.Flush()
}
