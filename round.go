package main

// Round phases, in play order. A round is one trip from the lobby through
// the minigames and discussion to the vote, back to the lobby.
type phase int

const (
	phaseLobby phase = iota
	phaseDrag
	phaseCollect
	phaseDiscussion
	phaseVoting
	phaseResolution
)

// Round owns everything that must fall back to zero between games: the
// started gate, the phase, the ballot, and the drag minigame. The previous
// vote's result survives reset so late-loading result screens still get it.
type Round struct {
	started bool
	phase   phase
	ballot  ballot
	drag    dragMatch

	result *Player
}

func newRound() *Round {
	return &Round{
		ballot: newBallot(),
	}
}

// start flips the started gate. It succeeds exactly once per round.
func (r *Round) start() bool {
	if r.started {
		return false
	}
	r.started = true
	r.phase = phaseDrag

	return true
}

// advance moves the round from one phase to the next. Repeated or
// out-of-order requests report false, so scene transitions that fan out to
// every client fire once per round no matter how many clients ask.
func (r *Round) advance(from, to phase) bool {
	if r.phase != from {
		return false
	}
	r.phase = to

	return true
}

// reset reopens the round for a new game. Called at voting resolution.
func (r *Round) reset() {
	r.started = false
	r.phase = phaseLobby
	r.ballot.reset()
	r.drag.reset()
}
