package domain

import "errors"

// Role discriminates the two kinds of authenticated actors.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrAdminNotFound = errors.New("admin not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNoIdentity = errors.New("no active identity")
var ErrNoStoredIdentity = errors.New("no stored identity")
var ErrForbidden = errors.New("access forbidden")

// User is a customer record as held by the remote collection. The password
// field is stored verbatim because the record set the remote store already
// holds has no hash field; credential checks compare it byte-for-byte.
type User struct {
	ID         int           `json:"id" bson:"id"`
	Email      string        `json:"email" bson:"email"`
	Password   string        `json:"password" bson:"password"`
	FirstName  string        `json:"firstName" bson:"first_name"`
	LastName   string        `json:"lastName" bson:"last_name"`
	DNI        string        `json:"dni" bson:"dni"`
	Address    string        `json:"address" bson:"address"`
	Card       Card          `json:"card" bson:"card"`
	Library    []Film        `json:"library" bson:"library"`
	Favourites FavouriteList `json:"fav_list" bson:"fav_list"`
}

// Admin is a staff record. Admins own no card and no film library.
type Admin struct {
	ID        int    `json:"id" bson:"id"`
	Email     string `json:"email" bson:"email"`
	Password  string `json:"password" bson:"password"`
	FirstName string `json:"firstName" bson:"first_name"`
	LastName  string `json:"lastName" bson:"last_name"`
}

// Identity is the tagged union of the two actor kinds. Exactly one of User or
// Admin is non-nil; the system never holds both at once.
type Identity struct {
	Kind  Role   `json:"kind"`
	User  *User  `json:"user,omitempty"`
	Admin *Admin `json:"admin,omitempty"`
}

// UserIdentity wraps a user record into an identity.
func UserIdentity(u *User) *Identity {
	return &Identity{Kind: RoleUser, User: u}
}

// AdminIdentity wraps an admin record into an identity.
func AdminIdentity(a *Admin) *Identity {
	return &Identity{Kind: RoleAdmin, Admin: a}
}

// RecordID returns the id of the underlying record, or 0 when the union is
// empty.
func (i *Identity) RecordID() int {
	switch {
	case i == nil:
		return 0
	case i.User != nil:
		return i.User.ID
	case i.Admin != nil:
		return i.Admin.ID
	}
	return 0
}

// Email returns the email of the underlying record.
func (i *Identity) Email() string {
	switch {
	case i == nil:
		return ""
	case i.User != nil:
		return i.User.Email
	case i.Admin != nil:
		return i.Admin.Email
	}
	return ""
}

// IsAdmin reports whether the identity wraps an admin record.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Admin != nil
}

// Clone returns a deep copy. Mutation flows clone first and commit the clone
// only after the remote store confirms, so the original is never half-applied
// when a call fails.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	out := &Identity{Kind: i.Kind}
	if i.User != nil {
		u := *i.User
		u.Library = append([]Film(nil), i.User.Library...)
		u.Favourites = i.User.Favourites.Clone()
		out.User = &u
	}
	if i.Admin != nil {
		a := *i.Admin
		out.Admin = &a
	}
	return out
}
