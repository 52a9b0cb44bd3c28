package models

import "time"

// Request types

type CreatePoolRequest struct {
	Title string `json:"title" validate:"required,max=120"`
}

type JoinPoolRequest struct {
	Code string `json:"code" validate:"required,len=6,alphanum,uppercase"`
}

// Response types

type CreatePoolResponse struct {
	PoolID string `json:"pool_id"`
	Code   string `json:"code"`
}

type CountPoolsResponse struct {
	Count int `json:"count"`
}

// Domain types

type Pool struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Code      string    `json:"code"`
	OwnerID   *string   `json:"owner_id,omitempty"` // nil until claimed
	CreatedAt time.Time `json:"created_at"`
}

// Claimed reports whether the pool has an owner.
func (p Pool) Claimed() bool {
	return p.OwnerID != nil
}

type Participant struct {
	PoolID    string    `json:"pool_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
