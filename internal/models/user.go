package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the authorization level of a user.
type Role int

const (
	RoleMember Role = 0
	RoleAdmin  Role = 1
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "member"
}

// IsAdmin reports whether the role grants administrator rights.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Salt           string             `bson:"salt" json:"-"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Role           Role               `bson:"role" json:"role"`
	About          string             `bson:"about,omitempty" json:"about,omitempty"`
	History        []bson.M           `bson:"history,omitempty" json:"history,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// Public returns a copy of the user without credential fields.
func (u User) Public() User {
	u.Salt = ""
	u.HashedPassword = ""
	return u
}

// Summary is the user shape returned alongside a token.
type Summary struct {
	ID    primitive.ObjectID `json:"_id"`
	Email string             `json:"email"`
	Name  string             `json:"name"`
	Role  Role               `json:"role"`
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
