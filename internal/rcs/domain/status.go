package domain

// Status is the lifecycle state of a consent.
type Status string

const (
	StatusAwaitingAuthorisation Status = "AwaitingAuthorisation"
	StatusAuthorised            Status = "Authorised"
	StatusRejected              Status = "Rejected"
	StatusConsumed              Status = "Consumed"
)

// transitions lists the legal moves out of each state. Terminal states have none.
var transitions = map[Status][]Status{
	StatusAwaitingAuthorisation: {StatusAuthorised, StatusRejected},
	StatusAuthorised:            {StatusConsumed},
}

func (s Status) String() string { return string(s) }

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAwaitingAuthorisation, StatusAuthorised, StatusRejected, StatusConsumed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s Status) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
