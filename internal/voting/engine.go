// Package voting derives an entry's status and visibility from its votes.
package voting

import (
	"errors"
	"strings"

	"apiexplorer/internal/models"
)

// Direction is the kind of vote cast on an entry.
type Direction int

// Vote directions. There is no abstain or retract.
const (
	Up Direction = iota + 1
	Down
)

// Thresholds of the entry lifecycle. Three dislikes demote an entry, five
// dislikes additionally hide it.
const (
	LowSignalTotal        = 2
	RecommendUpVotes      = 5
	NotRecommendDownVotes = 3
	HideDownVotes         = 5
)

// ErrInvalidDirection is returned when a vote direction cannot be parsed.
var ErrInvalidDirection = errors.New("vote direction must be up or down")

// ParseDirection parses "up" or "down", case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return 0, ErrInvalidDirection
	}
}

// String returns the lower-case name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Apply returns the successor of e after one vote in direction d.
//
// Only the vote counters, Status and Active change. The input value is not modified.
func Apply(e models.Entry, d Direction) models.Entry {
	switch d {
	case Up:
		e.VotesUp++
	case Down:
		e.VotesDown++
	default:
		return e
	}

	e.Status = nextStatus(e)

	// Two independent one-way latches, in this order.
	if e.Status == models.StatusRecommended {
		e.Active = true
	}
	if d == Down && e.VotesDown >= HideDownVotes {
		e.Active = false
	}

	return e
}

// nextStatus computes the status from the already incremented counters. Below
// the low-signal total every entry is New, even one previously rated.
func nextStatus(e models.Entry) models.EntryStatus {
	switch {
	case e.TotalVotes() <= LowSignalTotal:
		return models.StatusNew
	case e.VotesUp >= RecommendUpVotes:
		return models.StatusRecommended
	case e.VotesDown >= NotRecommendDownVotes:
		return models.StatusNotRecommended
	default:
		return e.Status
	}
}
