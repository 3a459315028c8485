package sat

import "strings"

// Clause is an ordered sequence of literals. Slots 0 and 1 are the watched
// positions and must always be maintained as such.
type Clause struct {
	literals []Lit
	activity float64
	lbd      uint32
	rankOld  uint32
	flags    ClauseFlag

	// searchFrom is a hint into literals[2:] recording where the watch
	// scan last found a replacement, so the next scan need not restart
	// from the beginning. Always kept in [2, len(literals)].
	searchFrom int
}

func (c *Clause) isDead() bool    { return c.flags.is(FlagDead) }
func (c *Clause) isLearnt() bool  { return c.flags.is(FlagLearnt) }
func (c *Clause) isCore() bool    { return c.flags.is(FlagCore) }
func (c *Clause) len() int        { return len(c.literals) }

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// binLink is a binary-clause fast-path entry: the clause's other literal
// (the "blocker") plus the clause's id, stored under binaryLinks[!l] for
// every binary clause containing l.
type binLink struct {
	blocker Lit
	cid     ClauseID
}

// watchEntry is a long-clause watch entry: the clause's id plus a cached
// "other" watched literal used to skip re-loading the clause when the
// cached literal is already true.
type watchEntry struct {
	cid    ClauseID
	cached Lit
}

// ClauseResult is the outcome of adding a clause to the database.
type ClauseResult struct {
	// Satisfied is true when the clause was already true at level 0 (or a
	// tautology) and nothing was recorded.
	Satisfied bool
	// Empty is true when the clause reduced to the empty clause: an UNSAT
	// witness.
	Empty bool
	// Unit is true when the clause reduced to a single literal, which the
	// caller must assert at the root level.
	Unit bool
	// UnitLit is valid when Unit is true.
	UnitLit Lit
	// ID is valid when none of the above hold: the clause was registered
	// (either freshly or as an existing identical binary clause).
	ID ClauseID
}
