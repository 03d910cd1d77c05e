// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package auth provides JWT session tokens and the HTTP middleware that
// enforces them. Tokens use HMAC-SHA256 and are stateless.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ramalmr/cocktail-advisor/internal/config"
)

// bcryptCost balances hashing time against login latency.
const bcryptCost = 12

const defaultTokenLifetime = 24 * time.Hour

// ErrInvalidCredentials is returned when a login attempt fails. The
// message is deliberately identical for unknown users and wrong
// passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims are the JWT claims carried by a session token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and validates session tokens. The single admin
// credential pair is bcrypt-hashed at construction so the plaintext
// password never outlives startup.
type Manager struct {
	secret       []byte
	lifetime     time.Duration
	username     string
	passwordHash []byte
}

// NewManager builds a Manager from security configuration. The JWT
// secret and admin credentials must already have passed config
// validation.
func NewManager(cfg *config.SecurityConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	lifetime := cfg.TokenLifetime
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}

	return &Manager{
		secret:       []byte(cfg.JWTSecret),
		lifetime:     lifetime,
		username:     cfg.AdminUsername,
		passwordHash: hash,
	}, nil
}

// Login checks the credentials and returns a signed token on success.
func (m *Manager) Login(username, password string) (string, error) {
	// CompareHashAndPassword runs even for unknown users to keep the
	// timing profile of both failure modes the same.
	passwordOK := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil
	if username != m.username || !passwordOK {
		return "", ErrInvalidCredentials
	}
	return m.GenerateToken(username, "admin")
}

// GenerateToken signs a token for the given user.
func (m *Manager) GenerateToken(username, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, algorithm and time claims, and
// returns the embedded claims.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
