package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Role is the closed set of dashboard roles. Backend role strings are
// free text and must pass through NormalizeRole before use.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleFranchise Role = "franchise"
	RoleParent    Role = "parent"
)

// NormalizeRole maps an arbitrary backend role string onto the closed Role
// set. Anything that is not admin or franchise (case-insensitively) is a
// parent, including the empty string.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin
	case "franchise":
		return RoleFranchise
	default:
		return RoleParent
	}
}

// DashboardPath returns the dashboard root for the role.
func (r Role) DashboardPath() string {
	return "/dashboard/" + string(r)
}

// User is the authenticated identity. The backend serializes IDs
// inconsistently (numbers on some endpoints, strings on others), so
// decoding tolerates both.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	FullName string `json:"full_name,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Email    string          `json:"email"`
		Role     string          `json:"role"`
		FullName string          `json:"full_name"`
		Name     string          `json:"fullName"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = flexibleID(raw.ID)
	u.Email = raw.Email
	u.Role = NormalizeRole(raw.Role)
	u.FullName = raw.FullName
	if u.FullName == "" {
		u.FullName = raw.Name
	}
	return nil
}

func flexibleID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strings.Trim(string(raw), `"`)
}

// Merge overlays non-empty profile fields from other onto u. The profile
// endpoint is authoritative for identity fields when it returns them.
func (u *User) Merge(other User) {
	if other.ID != "" {
		u.ID = other.ID
	}
	if other.Email != "" {
		u.Email = other.Email
	}
	if other.Role != "" {
		u.Role = other.Role
	}
	if other.FullName != "" {
		u.FullName = other.FullName
	}
}

// TokenPair is the bearer credential pair. The pair is replaced
// atomically, except that a refresh keeps the refresh token and rotates
// only the access token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Session is the persisted pairing of a user and its tokens, stored as a
// single JSON blob.
type Session struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Domain records. IDs are server-assigned; clients hold projections
// fetched from list endpoints.

type Career struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

func (c Career) RecordID() string { return c.ID }

type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	FranchiseID string `json:"franchise_id"`
	Description string `json:"description"`
}

func (e Event) RecordID() string { return e.ID }

type Grade struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AgeGroup string `json:"age_group"`
	Capacity int    `json:"capacity"`
}

func (g Grade) RecordID() string { return g.ID }

type Parent struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	ChildName string `json:"child_name"`
	GradeID   string `json:"grade_id"`
}

func (p Parent) RecordID() string { return p.ID }

type Franchise struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	City  string `json:"city"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (f Franchise) RecordID() string { return f.ID }

type Update struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
}

func (u Update) RecordID() string { return u.ID }

type Media struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
	URL   string `json:"url"`
}

func (m Media) RecordID() string { return m.ID }

type Enquiry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	FranchiseID string    `json:"franchise_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e Enquiry) RecordID() string { return e.ID }

// Program is static marketing content for the public programs pages; it
// has no backing API collection.
type Program struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AgeRange    string `json:"age_range"`
	Description string `json:"description"`
}

func (p Program) RecordID() string { return p.ID }

// WithRecordID returns a copy carrying the given identifier.
func (p Program) WithRecordID(id string) Program {
	p.ID = id
	return p
}
