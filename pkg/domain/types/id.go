package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// UserID is the caller-supplied identity of a memory owner (the "uid"
// query parameter of the webhook API)
type UserID string

// Validate checks if the UserID is valid
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}
