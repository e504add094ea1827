package entity

import "time"

// Decision is a like/pass verdict recorded by one member of a pair.
type Decision string

const (
	DecisionLike Decision = "like"
	DecisionPass Decision = "pass"
)

// ParseDecision validates s as a Decision.
func ParseDecision(s string) (Decision, bool) {
	switch Decision(s) {
	case DecisionLike, DecisionPass:
		return Decision(s), true
	}
	return "", false
}

// Match is the ledger entry for an unordered pair of users.
// IsMatched becomes true once both members have liked each other and is never reset.
type Match struct {
	ID string
	// Users is sorted so that a pair has a single representation.
	Users [2]string
	// Decisions maps a member id to true (like) or false (pass). Absent means no decision yet.
	Decisions map[string]bool
	IsMatched bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PairOf returns the canonical ordering of two user ids.
func PairOf(a, b string) [2]string {
	if b < a {
		return [2]string{b, a}
	}
	return [2]string{a, b}
}

// HasMember reports whether userID belongs to the pair.
func (m *Match) HasMember(userID string) bool {
	return m.Users[0] == userID || m.Users[1] == userID
}

// Counterpart returns the other member of the pair.
func (m *Match) Counterpart(userID string) (string, bool) {
	switch userID {
	case m.Users[0]:
		return m.Users[1], true
	case m.Users[1]:
		return m.Users[0], true
	}
	return "", false
}

// Liked reports whether userID has a recorded like.
func (m *Match) Liked(userID string) bool {
	return m.Decisions[userID]
}
