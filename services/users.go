package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"devmatch/database"
	"devmatch/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const invalidCredentials = "Invalid Login credentials"

type SignUpInput struct {
	FirstName string   `json:"firstName" binding:"required"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email" binding:"required"`
	Password  string   `json:"password" binding:"required"`
	Gender    string   `json:"gender"`
	Skills    []string `json:"skills"`
	Age       *int     `json:"age"`
}

// UserService implements account and profile operations.
type UserService struct {
	users  database.UserStore
	hasher PasswordHasher
	tokens TokenIssuer

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(users database.UserStore, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

func (s *UserService) find(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, newError(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, internal("Failed to fetch user", err)
	}
	return user, nil
}

func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, newError(ErrInvalidArgument, "All fields are required")
	}

	user := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		Gender:    in.Gender,
		Skills:    in.Skills,
		Age:       in.Age,
	}
	user.ApplyDefaults()
	if err := user.Validate(); err != nil {
		return nil, newError(ErrInvalidArgument, err.Error())
	}

	_, err := s.users.FindUserByEmail(ctx, user.Email)
	if err == nil {
		return nil, newError(ErrConflict, "User already exists")
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, internal("Database error", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, internal("Failed to hash password", err)
	}
	user.Password = hashed

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, newError(ErrConflict, "User already exists")
		}
		return nil, internal("Failed to create user", err)
	}
	return user, nil
}

// Login resolves the account by email and verifies the password. Every
// failure returns the same Unauthenticated error so callers cannot tell a
// missing account from a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", newError(ErrUnauthenticated, invalidCredentials)
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		// Spend the same hashing work as a real comparison.
		_ = s.hasher.Compare(s.dummy(), password)
		return nil, "", newError(ErrUnauthenticated, invalidCredentials)
	}
	if err != nil {
		return nil, "", internal("Database error", err)
	}

	if err := s.hasher.Compare(user.Password, password); err != nil {
		return nil, "", newError(ErrUnauthenticated, invalidCredentials)
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", internal("Failed to generate token", err)
	}
	return user, token, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("devmatch-placeholder-password")
	})
	return s.dummyHash
}

func (s *UserService) Profile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.find(ctx, id)
}

// Update applies an allow-listed profile change. The result is validated as
// a whole before anything is written.
func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Empty() {
		return current, nil
	}

	candidate := *current
	update.Apply(&candidate)
	if err := candidate.Validate(); err != nil {
		return nil, newError(ErrInvalidArgument, err.Error())
	}

	updated, err := s.users.UpdateUser(ctx, id, update)
	if errors.Is(err, database.ErrNotFound) {
		return nil, newError(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, internal("Failed to update profile", err)
	}
	return updated, nil
}

func (s *UserService) ResetPassword(ctx context.Context, id primitive.ObjectID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return newError(ErrInvalidArgument, "All fields are required")
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.Password, oldPassword); err != nil {
		return newError(ErrUnauthenticated, "Invalid old password")
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return internal("Failed to hash password", err)
	}
	if err := s.users.SetPassword(ctx, id, hashed); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return newError(ErrNotFound, "User not found")
		}
		return internal("Failed to update password", err)
	}
	return nil
}

// Delete removes the account. Connections that reference it are kept.
func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.users.DeleteUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return newError(ErrNotFound, "User not found")
	}
	if err != nil {
		return internal("Failed to delete user", err)
	}
	return nil
}

// Logout only checks that the caller still exists; the session cookie is
// cleared by the HTTP layer.
func (s *UserService) Logout(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.find(ctx, id)
	return err
}

// SetPhoto stores url as the caller's photo.
func (s *UserService) SetPhoto(ctx context.Context, id primitive.ObjectID, url string) (*models.User, error) {
	return s.Update(ctx, id, models.ProfileUpdate{PhotoURL: &url})
}
