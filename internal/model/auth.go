package model

import "github.com/golang-jwt/jwt/v5"

// LoginRequest carries operator credentials for the admin API.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful operator login.
type LoginResponse struct {
	Token      string `json:"token"`
	OperatorID string `json:"operatorId"`
}

// OperatorClaims are the JWT claims for an admin API token.
type OperatorClaims struct {
	OperatorID string `json:"operatorId"`
	jwt.RegisteredClaims
}
