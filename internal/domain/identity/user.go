package identity

// UserInfo is the profile of the authenticated user as returned by /auth/info
type UserInfo struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId,omitempty"`
	Username string   `json:"username"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}

// IsZero reports whether no profile has been assigned
func (u UserInfo) IsZero() bool {
	return u.ID == "" && u.Username == "" && u.FullName == "" && len(u.Roles) == 0
}

// HasRole checks if the profile carries the given role
func (u UserInfo) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Credentials is the login request payload
type Credentials struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

// LoginResult is the data payload of a successful login envelope
type LoginResult struct {
	Token string `json:"token"`
}
