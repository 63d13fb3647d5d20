package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/actuallystonmai/catalog-recommender/internal/auth"
	"github.com/actuallystonmai/catalog-recommender/internal/domain"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Age      int
}

// Register creates a user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Age < 0 {
		return nil, domain.NewValidationError("age", "must not be negative")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Age:          in.Age,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks credentials and issues a token. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("fetch user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// FirstAccess records the onboarding answers: favorite genres and the titles
// the user already likes.
func (s *Service) FirstAccess(ctx context.Context, userID int64, genres string, movieIDs, serieIDs []int64) (*domain.User, error) {
	if len(domain.SplitGenres(genres)) == 0 {
		return nil, domain.NewValidationError("genres", "is required")
	}
	if err := s.store.SaveFirstAccess(ctx, userID, genres, movieIDs, serieIDs); err != nil {
		return nil, err
	}
	s.clearCache(ctx, userID)
	return s.store.GetUserByID(ctx, userID)
}
