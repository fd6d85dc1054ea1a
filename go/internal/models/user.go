package models

import (
	"time"
)

// User represents a participant and their point balance
type User struct {
	Username  string    `json:"username"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}
