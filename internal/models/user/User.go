package user

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameTaken  = errors.New("username is already taken")
	ErrBadCredentials = errors.New("invalid username or password")
)

// User represents a user in the system
type User struct {
	ID                string    `bson:"_id" json:"_id"`
	Username          string    `bson:"username" json:"username"`
	EncryptedPassword string    `bson:"encrypted_password" json:"-"`
	FirstName         string    `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName          string    `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email             string    `bson:"email,omitempty" json:"email,omitempty"`
	Role              string    `bson:"role" json:"role"`
	DateJoined        time.Time `bson:"dateJoined" json:"dateJoined"`
	Followers         []string  `bson:"followers" json:"followers"`
	Following         []string  `bson:"following" json:"following"`
	Groups            []string  `bson:"groups" json:"groups"`
	GroupInvites      []string  `bson:"groupInvites" json:"groupInvites"`
}

// Roles a user can hold. Regular users sign up as RoleUser.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// SetPassword sets a new password for the user. Encrypts the password using bcrypt.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.EncryptedPassword = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password is correct.
// Returns nil on success, or error on failure
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.EncryptedPassword), []byte(password))
}
