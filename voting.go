package main

// ballot collects one vote per voter, last write wins. Each cast is stamped
// with a sequence number so resolution can break ties deterministically.
type ballot struct {
	votes map[string]vote
	seq   int
}

type vote struct {
	target string
	seq    int
}

func newBallot() ballot {
	return ballot{
		votes: make(map[string]vote),
	}
}

// cast records the voter's choice, replacing any earlier vote they made.
func (b *ballot) cast(voter, target string) {
	b.seq++
	b.votes[voter] = vote{target: target, seq: b.seq}
}

func (b *ballot) count() int {
	return len(b.votes)
}

// winner picks the plurality target. Ties go to the candidate whose
// deciding vote was cast last. Empty ballots return "".
func (b *ballot) winner() string {
	counts := make(map[string]int)
	latest := make(map[string]int)

	for _, v := range b.votes {
		counts[v.target]++
		if v.seq > latest[v.target] {
			latest[v.target] = v.seq
		}
	}

	var best string
	for target := range counts {
		if best == "" {
			best = target
			continue
		}
		if counts[target] > counts[best] ||
			(counts[target] == counts[best] && latest[target] > latest[best]) {
			best = target
		}
	}

	return best
}

func (b *ballot) reset() {
	b.votes = make(map[string]vote)
	b.seq = 0
}

// Outcomes of a resolved vote.
const (
	outcomeWin  = "win"
	outcomeLose = "lose"
)

// resolveVotes computes the eliminated player and the round outcome: "win"
// when the group voted out the impostor, "lose" otherwise. The winning id
// is mapped back through the registry; a vote pile for an id that has since
// disconnected resolves to no player and a loss.
func resolveVotes(b *ballot, reg *Registry) (*Player, string) {
	winner := b.winner()
	if winner == "" {
		return nil, outcomeLose
	}

	p := reg.get(winner)
	if p == nil {
		return nil, outcomeLose
	}

	clone := *p
	if clone.Impostor {
		return &clone, outcomeWin
	}

	return &clone, outcomeLose
}
