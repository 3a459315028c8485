package cnfio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hartert-labs/cdsat/internal/sat"
)

func TestLoadDIMACSAndSolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instance.cnf")
	content := "c a tiny SAT instance\np cnf 3 3\n1 2 0\n-1 2 0\n-2 3 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := sat.NewDefaultSolver()
	if err := LoadDIMACS(path, false, s); err != nil {
		t.Fatalf("LoadDIMACS: %v", err)
	}

	if got := s.NumVariables(); got != 3 {
		t.Errorf("NumVariables() = %d, want 3", got)
	}
	if got := s.Solve(); got != sat.StatusSAT {
		t.Fatalf("Solve() = %v, want SAT", got)
	}
}

func TestWriteModelAndReadBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.out")
	model := []bool{false, true, false, true} // index 0 unused

	if err := WriteModel(path, model); err != nil {
		t.Fatalf("WriteModel: %v", err)
	}

	models, err := ReadModels(path)
	if err != nil {
		t.Fatalf("ReadModels: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("ReadModels() returned %d models, want 1", len(models))
	}
	want := []bool{true, false, true}
	if diff := cmp.Diff(want, models[0]); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}
