package sat

import "testing"

func TestLitNegate(t *testing.T) {
	v := Var(3)
	pos := PosLit(v)
	neg := NegLit(v)

	if pos.Negate() != neg {
		t.Errorf("PosLit(3).Negate() = %v, want %v", pos.Negate(), neg)
	}
	if neg.Negate() != pos {
		t.Errorf("NegLit(3).Negate() = %v, want %v", neg.Negate(), pos)
	}
	if pos.Vi() != v || neg.Vi() != v {
		t.Errorf("Vi() did not round-trip: pos=%v neg=%v want %v", pos.Vi(), neg.Vi(), v)
	}
	if pos.Sign() {
		t.Error("PosLit.Sign() = true, want false")
	}
	if !neg.Sign() {
		t.Error("NegLit.Sign() = false, want true")
	}
}

func TestFromDIMACSRoundTrip(t *testing.T) {
	cases := []int32{1, -1, 42, -42}
	for _, x := range cases {
		l := FromDIMACS(x)
		if got := l.ToDIMACS(); got != x {
			t.Errorf("FromDIMACS(%d).ToDIMACS() = %d, want %d", x, got, x)
		}
	}
}

func TestLiftBoolOpposite(t *testing.T) {
	if LiftBool(true) != LTrue {
		t.Error("LiftBool(true) != LTrue")
	}
	if LiftBool(false) != LFalse {
		t.Error("LiftBool(false) != LFalse")
	}
	if LUnassigned.Opposite() != LUnassigned {
		t.Error("LUnassigned.Opposite() != LUnassigned")
	}
	if LTrue.Opposite() != LFalse || LFalse.Opposite() != LTrue {
		t.Error("LTrue/LFalse.Opposite() did not flip")
	}
}

func TestReasonPacking(t *testing.T) {
	if !NoReason.IsNone() {
		t.Error("NoReason.IsNone() = false")
	}

	br := BinaryReason(NegLit(7))
	if !br.IsBinary() || br.IsClause() || br.IsNone() {
		t.Errorf("BinaryReason kind flags wrong: %+v", br)
	}
	if br.Lit() != NegLit(7) {
		t.Errorf("BinaryReason.Lit() = %v, want %v", br.Lit(), NegLit(7))
	}

	cr := ClauseReason(ClauseID(5))
	if !cr.IsClause() || cr.IsBinary() || cr.IsNone() {
		t.Errorf("ClauseReason kind flags wrong: %+v", cr)
	}
	if cr.ClauseID() != ClauseID(5) {
		t.Errorf("ClauseReason.ClauseID() = %v, want 5", cr.ClauseID())
	}
}
