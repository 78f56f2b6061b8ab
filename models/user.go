package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPhotoURL = "https://i.imgur.com/6W2Pv7I.png"
	DefaultAbout    = "Hello there!"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName" validate:"required,min=4,max=50"`
	LastName  string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Password  string             `bson:"password" json:"-" validate:"required"`

	// Profile fields
	Age      *int     `bson:"age,omitempty" json:"age,omitempty" validate:"omitempty,min=18,max=99"`
	Gender   string   `bson:"gender,omitempty" json:"gender,omitempty" validate:"omitempty,oneof=M F O"`
	PhotoURL string   `bson:"photoUrl" json:"photoUrl"`
	About    string   `bson:"about" json:"about"`
	Skills   []string `bson:"skills" json:"skills"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NormalizeEmail trims and lower-cases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ApplyDefaults fills the optional profile fields a new account starts with.
func (u *User) ApplyDefaults() {
	u.Email = NormalizeEmail(u.Email)
	if u.PhotoURL == "" {
		u.PhotoURL = DefaultPhotoURL
	}
	if u.About == "" {
		u.About = DefaultAbout
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
}

// Safe projects the fields that may be shown to other users.
func (u *User) Safe() SafeProfile {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return SafeProfile{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		PhotoURL:  u.PhotoURL,
		Skills:    skills,
		Age:       u.Age,
		About:     u.About,
		Gender:    u.Gender,
		Email:     u.Email,
	}
}

// SafeProfile excludes the password hash and internal ids.
type SafeProfile struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName,omitempty"`
	PhotoURL  string   `json:"photoUrl"`
	Skills    []string `json:"skills"`
	Age       *int     `json:"age,omitempty"`
	About     string   `json:"about"`
	Gender    string   `json:"gender,omitempty"`
	Email     string   `json:"email"`
}
