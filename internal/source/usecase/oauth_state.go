package usecase

import (
	"fmt"
	"time"

	"contacthub-backend/internal/source/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	stateSubject = "gmail-connect"
	stateTTL     = 10 * time.Minute
)

// signState issues the short-lived OAuth state echoed back by Google's callback
func (u *sourceUsecase) signState() (string, error) {
	now := u.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   stateSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.stateSecret)
}

func (u *sourceUsecase) verifyState(state string) error {
	if state == "" {
		return fmt.Errorf("%w: oauth state is required", domain.ErrInvalidSourceConfig)
	}

	token, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return u.stateSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithSubject(stateSubject))
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: invalid or expired oauth state", domain.ErrInvalidSourceConfig)
	}
	return nil
}
