package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// UserContext is the optional identity attached to a request. Anonymous
// requests short-circuit visit-history lookups instead of branching on nil
// user IDs everywhere.
type UserContext struct {
	userID        uuid.UUID
	authenticated bool
}

func AuthenticatedUser(userID uuid.UUID) UserContext {
	return UserContext{userID: userID, authenticated: true}
}

func AnonymousUser() UserContext {
	return UserContext{}
}

func (u UserContext) Authenticated() bool {
	return u.authenticated
}

// UserID returns uuid.Nil for anonymous users.
func (u UserContext) UserID() uuid.UUID {
	return u.userID
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserInfo struct {
	UserID      uuid.UUID `json:"userId"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
}

type AuthResponse struct {
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
	Token   string   `json:"token,omitempty"`
}

// VisitLocation is one history point for the client heatmap.
type VisitLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Weight    int     `json:"weight"`
}

type AddVisitRequest struct {
	RestaurantName  string   `json:"restaurantName"`
	RestaurantTypes []string `json:"restaurantTypes,omitempty"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}
