package sat

import (
	"time"

	"github.com/rhartert/yagh"
)

// simpState is the inprocessing simplifier's lifecycle state.
type simpState uint8

const (
	simpDormant simpState = iota
	simpWaiting
	simpRunning
)

// Options carries every numeric knob the solver exposes: decay rates,
// reduction thresholds, elimination growth, vivify budget, and stop
// conditions.
type Options struct {
	ClauseDecay   float64
	VariableDecay float64

	// MaxConflicts and Timeout are soft stop conditions; negative disables.
	MaxConflicts int64
	Timeout      time.Duration

	// PhaseSaving enables remembering the last assigned value per variable.
	PhaseSaving bool

	// ReduceEvery is the number of conflicts between ReduceDB candidacy
	// checks.
	ReduceEvery int64
	// SimplifyEvery is the number of conflicts between simplifier runs.
	SimplifyEvery int64
	// RestartEvery is the number of conflicts between restart checks.
	RestartEvery int64
	// VivifyEvery is the number of conflicts between vivification passes.
	VivifyEvery int64

	// ElimGrowLimit bounds BVE resolvent growth.
	ElimGrowLimit int
	// ElimProductLimit bounds |P|*|N| before BVE aborts a variable.
	ElimProductLimit int
	// SimplifyBudget is the `timedout` token spent per simplifier run.
	SimplifyBudget int

	// VivifyBudget caps the number of propagation checks spent on each
	// clause during a vivify pass; the pass as a whole has no overall cap.
	VivifyBudget int

	// UseLuby switches the restart controller to the Luby sequence instead
	// of the EMA block/force logic.
	UseLuby  bool
	LubyBase int64

	// EnableCertificate records that certificate mode is on. Emission does
	// not depend on it: add/delete events go to whatever writer
	// SetCertificateWriter installed, and nowhere while no writer is set.
	EnableCertificate bool
}

// DefaultOptions holds tuned MiniSat-style defaults, widened with the
// knobs a complete core requires.
var DefaultOptions = Options{
	ClauseDecay:      0.999,
	VariableDecay:    0.95,
	MaxConflicts:     -1,
	Timeout:          -1,
	PhaseSaving:      true,
	ReduceEvery:      2000,
	SimplifyEvery:    5000,
	RestartEvery:     1,
	VivifyEvery:      10000,
	ElimGrowLimit:    0,
	ElimProductLimit: 10000,
	SimplifyBudget:   2_000_000,
	VivifyBudget:     80_000,
	UseLuby:          false,
	LubyBase:         100,
}

// Status is the outcome of Solve.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusSAT
	StatusUNSAT
	StatusTimeOut
	StatusOutOfMemory
)

func (s Status) String() string {
	switch s {
	case StatusSAT:
		return "SAT"
	case StatusUNSAT:
		return "UNSAT"
	case StatusTimeOut:
		return "TIMEOUT"
	case StatusOutOfMemory:
		return "OUT_OF_MEMORY"
	default:
		return "UNKNOWN"
	}
}

// Solver is the CDCL search driver and owns every other component's state
// directly, in a flat-struct style: there are no back-pointers between
// components, only parallel arrays indexed by Var/Lit/ClauseID, so that no
// component aliases another while iterating its own working set.
type Solver struct {
	opts Options

	// --- Variable state (indexed by Var, 1..=nVars; index 0 unused) ---
	nVars    int
	value    []LBool
	varFlags []VarFlag
	level    []int32
	reason   []Reason
	activity []float64

	varInc float64

	heap *yagh.IntMap[float64]

	// --- Trail ---
	trail        []Lit
	trailLim     []int
	qHead        int
	bestTrailLen int

	// --- Clause database ---
	clauses     []*Clause // index 0 is an unused sentinel
	freeIDs     []ClauseID
	binaryLinks [][]binLink // indexed by Lit
	watches     [][]watchEntry

	learnts        []ClauseID
	clauseInc      float64
	nLearntClauses int64
	reduceDeferred bool

	// --- Restart controller ---
	restart restartController

	// --- Simplifier (Eliminator) ---
	simp simplifier

	// --- Vivifier scheduling ---
	vivifyConflicts int64 // conflicts since the last vivification pass
	lastVivified    int   // index into learnts already considered

	// --- Root-level conflict flag ---
	unsat bool

	// --- Scratch state shared by Analyzer/Vivifier/Simplifier ---
	seen       *stampSet
	anToClear  []Var
	tmpLearnt  []Lit
	tmpReason  []Lit
	tmpWatches []watchEntry
	minLevels  *stampSet // levels present in the current learnt clause

	// --- Certificate stream ---
	cert CertificateWriter

	// --- Metrics (optional, additive-only instrumentation) ---
	metrics *Metrics

	// --- Statistics ---
	TotalConflicts  int64
	TotalRestarts   int64
	TotalDecisions  int64
	TotalSimplifies int64
	TotalVivified   int64
	startTime       time.Time

	// --- Result ---
	Model []bool
}

// NewDefaultSolver returns a solver configured with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

// NewSolver returns a new, empty (0-variable) solver.
func NewSolver(opts Options) *Solver {
	s := &Solver{
		opts:      opts,
		varInc:    1,
		clauseInc: 1,
		heap:      yagh.New[float64](0),
		clauses:   make([]*Clause, 1), // index 0 sentinel
		seen:      newStampSet(0),
		minLevels: newStampSet(0),
	}
	s.restart = newRestartController(opts)
	s.simp = newSimplifier(opts)
	if !opts.EnableCertificate {
		s.cert = nil
	}
	return s
}

// NumVariables returns the number of declared variables.
func (s *Solver) NumVariables() int { return s.nVars }

// NumAssigns returns the number of literals currently on the trail.
func (s *Solver) NumAssigns() int { return len(s.trail) }

// NumLearnts returns the number of reducible (non-core) learnt clauses
// currently tracked.
func (s *Solver) NumLearnts() int { return len(s.learnts) }

// decisionLevel returns the current decision level (0 = root).
func (s *Solver) decisionLevel() int { return len(s.trailLim) }

// AddVariable declares one new variable and returns its id.
func (s *Solver) AddVariable() Var {
	s.nVars++
	v := Var(s.nVars)

	s.growPerVar()
	s.growPerLit()

	s.heap.GrowBy(1)
	s.heap.Put(int(v), -s.activity[v])
	s.varFlags[v].set(FlagEnqueued)

	return v
}

// growPerVar grows every Var-indexed array to size nVars+1, preserving
// existing contents. Called once per AddVariable.
func (s *Solver) growPerVar() {
	n := s.nVars + 1
	for len(s.value) < n {
		s.value = append(s.value, LUnassigned)
	}
	for len(s.varFlags) < n {
		s.varFlags = append(s.varFlags, 0)
	}
	for len(s.level) < n {
		s.level = append(s.level, -1)
	}
	for len(s.reason) < n {
		s.reason = append(s.reason, NoReason)
	}
	for len(s.activity) < n {
		s.activity = append(s.activity, 0)
	}
	s.seen.expand()
	s.minLevels.expand()
	s.simp.growPerVar()
}

// growPerLit grows every Lit-indexed array to size 2*(nVars+1).
func (s *Solver) growPerLit() {
	n := 2 * (s.nVars + 1)
	for len(s.binaryLinks) < n {
		s.binaryLinks = append(s.binaryLinks, nil)
	}
	for len(s.watches) < n {
		s.watches = append(s.watches, nil)
	}
}

// ValueOf returns the current value of variable v.
func (s *Solver) ValueOf(v Var) LBool { return s.value[v] }

// LitValue returns the current value of literal l.
func (s *Solver) LitValue(l Lit) LBool {
	v := s.value[l.Vi()]
	if l.Sign() {
		return v.Opposite()
	}
	return v
}

// LevelOf returns the decision level at which v was assigned, or -1 if
// unassigned.
func (s *Solver) LevelOf(v Var) int { return int(s.level[v]) }

// ReasonOf returns the reason variable v was assigned.
func (s *Solver) ReasonOf(v Var) Reason { return s.reason[v] }

func (s *Solver) isEliminated(v Var) bool { return s.varFlags[v].is(FlagEliminated) }
