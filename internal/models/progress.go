package models

// ProgressPhase is the lifecycle phase of a compression run.
type ProgressPhase int

const (
	PhaseIdle ProgressPhase = iota
	PhaseRunning
	PhaseDone
	PhaseFailed
)

func (p ProgressPhase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ProgressState is the run state surfaced to the status bar. Percent is
// meaningful only while running; Message only when failed.
type ProgressState struct {
	Phase   ProgressPhase
	Percent int
	Message string
}

func ProgressIdle() ProgressState {
	return ProgressState{Phase: PhaseIdle}
}

func ProgressRunning(percent int) ProgressState {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return ProgressState{Phase: PhaseRunning, Percent: percent}
}

func ProgressDone() ProgressState {
	return ProgressState{Phase: PhaseDone, Percent: 100}
}

func ProgressFailed(message string) ProgressState {
	return ProgressState{Phase: PhaseFailed, Message: message}
}
