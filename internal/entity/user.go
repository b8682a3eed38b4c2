package entity

import "time"

// User is a registered account as stored in the users file.
type User struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInfo is the part of a User that may be sent to clients.
type UserInfo struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Score    int    `json:"score"`
}

func (that *User) Info() *UserInfo {
	return &UserInfo{
		UserID:   that.UserID,
		Username: that.Username,
		Email:    that.Email,
		Score:    that.Score,
	}
}
