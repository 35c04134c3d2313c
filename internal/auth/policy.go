package auth

// Policy selects what a route demands beyond a verified token. The set is
// small and closed, so an enum evaluated in one place beats per-route
// middleware variants.
type Policy int

const (
	// PolicyRequireUser demands that the token's subject resolves to a
	// registered user. The default for every route.
	PolicyRequireUser Policy = iota

	// PolicyTokenOnly accepts any verified token, registered or not.
	// Registration is the one route that needs it: the caller cannot have a
	// user record before creating one.
	PolicyTokenOnly
)

func (p Policy) String() string {
	switch p {
	case PolicyRequireUser:
		return "require-user"
	case PolicyTokenOnly:
		return "token-only"
	default:
		return "unknown"
	}
}
