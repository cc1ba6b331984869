package fakeapi

import (
	"cmp"
	"slices"
	"time"
)

// Role names understood by the server.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// RoleView is the JSON shape the server returns for a role.
type RoleView struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	Created    string `json:"created,omitempty"`
	Updated    string `json:"updated,omitempty"`
	IsVerified bool   `json:"isVerified"`
	JWTToken   string `json:"jwtToken,omitempty"`
}

// Seed describes an account created with [Server.Seed].
type Seed struct {
	Title     string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Verified  bool
}

type account struct {
	id           string
	title        string
	firstName    string
	lastName     string
	email        string
	role         string
	passwordHash string
	created      time.Time
	updated      time.Time
	verified     time.Time
}

func (a *account) view() RoleView {
	v := RoleView{
		ID:         a.id,
		Title:      a.title,
		FirstName:  a.firstName,
		LastName:   a.lastName,
		Email:      a.email,
		Role:       a.role,
		Created:    a.created.UTC().Format(time.RFC3339),
		IsVerified: !a.verified.IsZero(),
	}
	if !a.updated.IsZero() {
		v.Updated = a.updated.UTC().Format(time.RFC3339)
	}
	return v
}

type refreshEntry struct {
	accountID string
	expires   time.Time
	revoked   bool
}

type resetEntry struct {
	accountID string
	expires   time.Time
}

type requestBody struct {
	Title           *string `json:"title"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Email           *string `json:"email"`
	Role            *string `json:"role"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	AcceptTerms     bool    `json:"acceptTerms"`
	Token           string  `json:"token"`
}

func sortViews(views []RoleView) {
	slices.SortFunc(views, func(a, b RoleView) int {
		if c := cmp.Compare(a.Created, b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.Email, b.Email)
	})
}
