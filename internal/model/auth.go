package model

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenPayload describes an issued access token
type TokenPayload struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"` // seconds
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	User  *User         `json:"user"`
	Token *TokenPayload `json:"token"`
}
