// Package services implements the connection request lifecycle, the feed,
// and the profile and credential operations on top of the storage contracts.
package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PasswordHasher is a one-way password hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer mints session credentials.
type TokenIssuer interface {
	Generate(userID, email string) (string, error)
}

func parseID(raw, message string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, newError(ErrInvalidArgument, message)
	}
	return id, nil
}
