package domain

import "time"

// Gender is the self-reported gender stored on a member profile.
type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderUnspecified Gender = "unspecified"
)

// ParseGender maps free-form input onto a Gender, defaulting to unspecified.
func ParseGender(s string) Gender {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s)
	default:
		return GenderUnspecified
	}
}

// Member is a registered account. Account is the unique login key.
type Member struct {
	ID               string     `json:"id"`
	Account          string     `json:"account"`
	PasswordHash     string     `json:"-"`
	Name             string     `json:"name"`
	Age              int        `json:"age"`
	Birthday         *time.Time `json:"birthday,omitempty"`
	Email            string     `json:"email"`
	Gender           Gender     `json:"gender"`
	ProfileImagePath string     `json:"profileImagePath,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}
