package main

import "time"

// ChallengeType is the timed gameplay modifier triggered by level-ups.
type ChallengeType int

const (
	ChallengeNone ChallengeType = iota
	ChallengeSpeed
	ChallengeReverse
)

func (c ChallengeType) String() string {
	switch c {
	case ChallengeSpeed:
		return "SPEED UP"
	case ChallengeReverse:
		return "REVERSED"
	default:
		return ""
	}
}

const (
	challengeDuration        = 30 * time.Second
	challengeFirstCountdown  = 5
	challengeRepeatCountdown = 3
)

// challengeState is the scheduler: Idle (Type none, Countdown 0) ->
// Countdown (Pending set, Countdown > 0, gameplay suspended) -> Active
// (Type set until the deadline) -> Idle.
type challengeState struct {
	Type      ChallengeType
	Pending   ChallengeType
	Countdown int
	until     time.Time
	seen      map[ChallengeType]bool
}

func newChallengeState() challengeState {
	return challengeState{seen: make(map[ChallengeType]bool)}
}

// maybeTriggerChallenge starts a countdown when the level just increased to
// an even value. Levels divisible by 4 reverse the controls, the rest speed
// the fall up. The first occurrence of a type counts down longer so the
// player can read the banner.
func (g *Game) maybeTriggerChallenge(prevLevel int) {
	if !g.ChallengesEnabled || g.Level <= prevLevel || g.Level%2 != 0 {
		return
	}
	pending := ChallengeSpeed
	if g.Level%4 == 0 {
		pending = ChallengeReverse
	}
	g.Challenge.Pending = pending
	if g.Challenge.seen[pending] {
		g.Challenge.Countdown = challengeRepeatCountdown
	} else {
		g.Challenge.Countdown = challengeFirstCountdown
	}
}

// CountdownActive reports whether gameplay is suspended for a challenge
// countdown.
func (g *Game) CountdownActive() bool {
	return g.Challenge.Countdown > 0
}

// CountdownTick advances the countdown one tick and returns true while it
// is still running. Reaching zero activates the pending challenge.
func (g *Game) CountdownTick() bool {
	if g.Challenge.Countdown <= 0 {
		return false
	}
	g.Challenge.Countdown--
	if g.Challenge.Countdown > 0 {
		return true
	}
	g.Challenge.seen[g.Challenge.Pending] = true
	g.Challenge.Type = g.Challenge.Pending
	g.Challenge.Pending = ChallengeNone
	g.Challenge.until = g.now().Add(challengeDuration)
	return false
}

// ChallengeRemaining reports how long the active challenge has left.
func (g *Game) ChallengeRemaining() time.Duration {
	if g.Challenge.Type == ChallengeNone {
		return 0
	}
	remaining := g.Challenge.until.Sub(g.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// expireChallenge reverts an active challenge once its deadline passes.
// Polled by the gravity tick rather than a separate timer so a reset can
// never race a stale expiry.
func (g *Game) expireChallenge() {
	if g.Challenge.Type != ChallengeNone && !g.now().Before(g.Challenge.until) {
		g.Challenge.Type = ChallengeNone
	}
}
