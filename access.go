package recall

// Access classifies how a caller may use a Game.
type Access int

const (
	// AccessDenied means the Game belongs to someone else.
	AccessDenied Access = iota

	// AccessOwned means the caller authored the Game.
	AccessOwned

	// AccessShared means the Game is system-owned and open to everyone.
	AccessShared
)

func (a Access) String() string {
	switch a {
	case AccessOwned:
		return "owned"
	case AccessShared:
		return "shared"
	default:
		return "denied"
	}
}

// Usable reports whether the caller may play or track the Game.
func (a Access) Usable() bool {
	return a == AccessOwned || a == AccessShared
}

// GameAccess classifies g relative to userID.
func GameAccess(g *Game, userID int64) Access {
	if g == nil {
		return AccessDenied
	}
	if g.OwnerID == nil {
		return AccessShared
	}
	if *g.OwnerID == userID {
		return AccessOwned
	}
	return AccessDenied
}
