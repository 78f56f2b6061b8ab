package models

// ProfileUpdate lists the only fields a user may change on their own profile.
// A nil field is left untouched.
type ProfileUpdate struct {
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	Age       *int      `json:"age"`
	PhotoURL  *string   `json:"photoUrl"`
	Gender    *string   `json:"gender"`
	Skills    *[]string `json:"skills"`
	About     *string   `json:"about"`
}

func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Age == nil &&
		p.PhotoURL == nil && p.Gender == nil && p.Skills == nil && p.About == nil
}

// Apply copies every set field onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Age != nil {
		age := *p.Age
		u.Age = &age
	}
	if p.PhotoURL != nil {
		u.PhotoURL = *p.PhotoURL
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.Skills != nil {
		u.Skills = append([]string{}, (*p.Skills)...)
	}
	if p.About != nil {
		u.About = *p.About
	}
}
