package sat

// restartController implements an EMA-driven block/force restart policy,
// plus a Luby-sequence fallback.
type restartController struct {
	lbdFast EMA // fast window ~16
	lbdSlow EMA // slow window ~8192
	asgFast EMA // trail-length window ~16

	lbdSum   float64
	lbdCount int64

	conflictsSeen int64
	minConflicts  int64 // minimum conflicts before EMA block or force restarts are considered

	blockNext bool // suppress the next force-restart (block fired)

	// stabilizing toggles the phase selector between LATEST and BEST on
	// alternating stages. It is read by trail.go's savedPhase and is not
	// itself a backjump action.
	stabilizing bool
	stageLen    int64
	stageCount  int64

	useLuby  bool
	lubyBase int64
	lubyIdx  int64 // index of the Luby term governing the current run
	lubyStep int64 // restart checks since the last Luby restart
}

const (
	restartForceK = 0.8 // force restart when slow*K < fast
	restartBlockR = 1.4 // block restart when R*asgEMA < trailLen
)

func newRestartController(opts Options) restartController {
	return restartController{
		lbdFast:      NewCalibratedEMA(1.0 / 16.0),
		lbdSlow:      NewCalibratedEMA(1.0 / 8192.0),
		asgFast:      NewCalibratedEMA(1.0 / 16.0),
		minConflicts: 50,
		stageLen:     5000,
		useLuby:      opts.UseLuby,
		lubyBase:     opts.LubyBase,
	}
}

// onConflict feeds the LBD of a just-learnt clause and the current trail
// length into the controller's EMAs.
func (rc *restartController) onConflict(lbd uint32, trailLen int) {
	rc.conflictsSeen++
	rc.lbdFast.Add(float64(lbd))
	rc.lbdSlow.Add(float64(lbd))
	rc.asgFast.Add(float64(trailLen))
	rc.lbdSum += float64(lbd)
	rc.lbdCount++

	rc.stageCount++
	if rc.stageCount >= rc.stageLen {
		rc.stageCount = 0
		rc.stabilizing = !rc.stabilizing
	}
}

// luby returns the i-th term (0-indexed) of the Luby sequence
// 1, 1, 2, 1, 1, 2, 4, ...
func luby(i int64) int64 {
	// Find the finite sequence [1] that this index falls into: sequences
	// double in length (1; 1,1,2; 1,1,2,1,1,2,4; ...).
	var size, seq int64 = 1, 1
	for size < i+1 {
		seq++
		size = 2*size + 1
	}
	for size != i+1 {
		size = (size - 1) / 2
		seq--
		if i >= size {
			i -= size
		}
	}
	return int64(1) << (seq - 1)
}

// shouldRestart reports whether a restart should fire now, given the
// current trail length, at a conflict outside level 0.
func (rc *restartController) shouldRestart(trailLen int) bool {
	if rc.useLuby {
		rc.lubyStep++
		if rc.lubyStep < rc.lubyBase*luby(rc.lubyIdx) {
			return false
		}
		rc.lubyStep = 0
		rc.lubyIdx++
		return true
	}

	if rc.conflictsSeen < rc.minConflicts {
		return false
	}

	if restartBlockR*rc.asgFast.Value() < float64(trailLen) {
		rc.blockNext = true
		return false
	}

	if rc.blockNext {
		rc.blockNext = false
		return false
	}

	return rc.lbdSlow.Value()*restartForceK < rc.lbdFast.Value()
}

// onRestart resets the fast LBD EMA on a force-fire.
func (rc *restartController) onRestart() {
	rc.lbdFast.Reset()
}
