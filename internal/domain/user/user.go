package user

import (
	"time"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
)

// User is the server-side profile row.
type User struct {
	ID             string
	Email          string
	Name           string
	Phone          string
	CPF            string
	BirthDate      *time.Time
	PasswordHash   string
	MembershipType membership.Tier
	ReceiveNews    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Identity is what the client caches after login or registration.
type Identity struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	Phone               string          `json:"phone,omitempty"`
	MembershipType      membership.Tier `json:"membershipType"`
	MembershipExpiresAt *time.Time      `json:"membershipExpiresAt,omitempty"`
}

// CurrentMembership is the single place the cached tier is read from.
// A nil identity is an anonymous visitor.
func (i *Identity) CurrentMembership() membership.Tier {
	if i == nil {
		return membership.None
	}
	return i.MembershipType.Normalize()
}

func (u User) Identity(active *membership.Membership) Identity {
	id := Identity{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		MembershipType: membership.None,
	}
	if active != nil {
		end := active.EndDate
		id.MembershipType = active.Plan.Normalize()
		id.MembershipExpiresAt = &end
	}
	return id
}

// Registration is the sign-up form as sent to /api/auth/register.
type Registration struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	CPF         string `json:"cpf"`
	BirthDate   string `json:"birthDate,omitempty"`
	AcceptTerms bool   `json:"acceptTerms"`
	ReceiveNews bool   `json:"receiveNews"`
}
