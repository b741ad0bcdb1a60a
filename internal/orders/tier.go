package orders

import (
	"time"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
)

// storedTier is the server's membership source: the tier comes from the
// membership row, never from the request.
type storedTier struct {
	m  *membership.Membership
	at time.Time
}

func (s storedTier) CurrentMembership() membership.Tier {
	if s.m == nil || !s.m.ActiveAt(s.at) {
		return membership.None
	}
	return s.m.Plan.Normalize()
}
