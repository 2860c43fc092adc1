package auth

import "codeberg.org/weconnect/server/weconnect/users"

type AuthResponse struct {
	User  *users.Profile `json:"user"`
	Token string         `json:"token"`
}

type UserResponse struct {
	User *users.Profile `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
