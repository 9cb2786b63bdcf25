package models

import "fmt"

// User represents a registered account's profile record.
type User struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	AvatarPath     string   `json:"avatar_path,omitempty"`
	BackgroundPath string   `json:"background_path,omitempty"`
	IsPremium      bool     `json:"is_premium"`
	Friends        []string `json:"friends"`
	Playlists      []string `json:"playlists"`
	JoinDate       string   `json:"join_date"`
}

// NewUser builds the minimal record created on signup or first login.
func NewUser(id, username, email, joinDate string) *User {
	return &User{
		ID:        id,
		Username:  username,
		Email:     email,
		Friends:   []string{},
		Playlists: []string{},
		JoinDate:  joinDate,
	}
}

// AvatarObjectPath is where a user's profile image lives in object storage.
func AvatarObjectPath(userID string) string {
	return fmt.Sprintf("avatars/%s.jpg", userID)
}

// Profile is the response shape for a user's profile page.
type Profile struct {
	User
	AvatarURL   string `json:"avatar_url"`
	ReviewCount int    `json:"review_count"`
}

// LoginRequest is the request body for signing in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the request body for creating an account.
type SignupRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UpdateProfileRequest is the request body for editing the caller's profile.
type UpdateProfileRequest struct {
	Username   string  `json:"username"`
	AvatarPath *string `json:"avatar_path,omitempty"`
}
