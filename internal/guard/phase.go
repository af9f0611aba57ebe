package guard

import "github.com/Gourab-ghosh21/digital-spark/internal/session"

// Phase is the route guard's view of a client's session.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseAuthenticated
	PhaseUnauthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Evaluate maps a store state to a phase. Loading wins regardless of identity.
func Evaluate(st session.State) Phase {
	switch {
	case st.Loading:
		return PhaseLoading
	case st.Identity != nil:
		return PhaseAuthenticated
	default:
		return PhaseUnauthenticated
	}
}
