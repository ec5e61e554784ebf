package models

// RegisterInput is the registration form.
type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	BusinessName    string `json:"businessName"`
	Phone           string `json:"phone"`
}

// ProfilePatch carries the profile fields a user may change. Nil fields are
// left untouched. Identity, email, role and password are not patchable.
type ProfilePatch struct {
	Name         *string `json:"name,omitempty"`
	BusinessName *string `json:"businessName,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Avatar       *string `json:"avatar,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.BusinessName == nil && p.Phone == nil && p.Avatar == nil
}

// Apply returns a copy of u with the patch merged in.
func (p ProfilePatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.BusinessName != nil {
		u.BusinessName = *p.BusinessName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}
