package policy

import (
	"blogicum/internal/models"
)

// Identity is the requesting user. The zero value is an anonymous visitor.
type Identity struct {
	UserID   uint
	Username string
}

// IdentityOf builds the identity for a loaded user; nil yields an anonymous identity.
func IdentityOf(u *models.User) Identity {
	if u == nil {
		return Identity{}
	}
	return Identity{UserID: u.ID, Username: u.Username}
}

func (id Identity) Authenticated() bool {
	return id.UserID != 0
}

// Owns is the ownership check: an authenticated identity equal to authorID.
func (id Identity) Owns(authorID uint) bool {
	return id.Authenticated() && id.UserID == authorID
}

type Action int

const (
	Edit Action = iota
	Delete
)

var (
	postMessages = map[Action]string{
		Edit:   "You cannot edit someone else's post!",
		Delete: "You cannot delete someone else's post!",
	}
	commentMessages = map[Action]string{
		Edit:   "You cannot edit someone else's comment!",
		Delete: "You cannot delete someone else's comment!",
	}
)

// AuthorizePost checks that id may perform action on p. Authentication is
// checked before ownership.
func AuthorizePost(id Identity, p *models.Post, action Action) error {
	return authorize(id, p.AuthorID, postMessages[action])
}

// AuthorizeComment checks that id may perform action on c.
func AuthorizeComment(id Identity, c *models.Comment, action Action) error {
	return authorize(id, c.AuthorID, commentMessages[action])
}

// RequireAuthenticated guards create operations.
func RequireAuthenticated(id Identity) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

func authorize(id Identity, authorID uint, message string) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	if !id.Owns(authorID) {
		return Forbidden(message)
	}
	return nil
}
