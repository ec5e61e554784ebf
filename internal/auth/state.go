package auth

import "github.com/dmitrijs2005/bizdesk/internal/models"

type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// Snapshot is an immutable view of the engine. User is a private copy.
type Snapshot struct {
	State State
	User  *models.User
	Token string
}

func (s Snapshot) clone() Snapshot {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
