package models

// DefaultAvatar is assigned to accounts created without a profile picture.
const DefaultAvatar = "https://cdn.pixabay.com/photo/2015/10/05/22/37/blank-profile-picture-973460__340.png"

// DefaultGender is assigned to accounts created without a gender.
const DefaultGender = "male"

// User represents a user account in the system.
type User struct {
	ID           string `json:"_id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never expose this to the client
	Age          *int   `json:"age,omitempty"`
	Avatar       string `json:"avatar"`
	Gender       string `json:"gender"`
}

// PublicUser is the projection of a User returned after login.
type PublicUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       *int   `json:"age,omitempty"`
	Email     string `json:"email"`
}

// Public returns the login projection of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		Email:     u.Email,
	}
}

// Profile holds the mutable profile fields of a user. Nil Age clears the stored value.
type Profile struct {
	FirstName string
	LastName  string
	Avatar    string
	Gender    string
	Age       *int
}
