package domain

import "time"

// Role is the upstream-assigned role of a dashboard user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one the upstream API issues.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the authenticated user record produced by the credential pipeline:
// profile fields from the upstream API plus the raw access token from login.
// It is the verbatim source of the session claims.
type User struct {
	ID              string
	Email           string
	Name            string
	ProfileImageURL string
	Role            Role

	// AccessToken is the upstream bearer token; never exposed to browsers,
	// only injected into outbound API calls.
	AccessToken string
}

// Member is a managed service user as listed by the upstream admin API.
type Member struct {
	ID              string    `json:"id"`
	LoginID         string    `json:"login_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profileImageUrl"`
	Role            Role      `json:"role"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// UserStats is the aggregate user statistics block for the members page.
type UserStats struct {
	TotalUsers     int `json:"totalUsers"`
	ActiveUsers    int `json:"activeUsers"`
	NewUsersToday  int `json:"newUsersToday"`
	DeletedUsers   int `json:"deletedUsers"`
	ReportedUsers  int `json:"reportedUsers"`
	AdminUserCount int `json:"adminUserCount"`
}
