package session

// Stage is the coarse narrative phase the decoy persona is in. It is a
// pure function of the turn count — nothing in the message content can
// move a session between stages, and there is no rollback.
type Stage string

const (
	StageConfusion Stage = "CONFUSION"
	StageStalling  Stage = "STALLING"
	StagePanic     Stage = "PANIC"
	StageSuspicion Stage = "SUSPICION"
)

// StageFor maps a 1-based turn count to its stage. A freshly created
// session (turn 0) sits in CONFUSION until its first message arrives.
func StageFor(turn int) Stage {
	switch {
	case turn <= 2:
		return StageConfusion
	case turn <= 5:
		return StageStalling
	case turn <= 8:
		return StagePanic
	default:
		return StageSuspicion
	}
}

// StageStart returns the first turn belonging to a stage, used to
// compute the 0-based offset of a turn within its stage.
func StageStart(s Stage) int {
	switch s {
	case StageStalling:
		return 3
	case StagePanic:
		return 6
	case StageSuspicion:
		return 9
	default:
		return 1
	}
}
