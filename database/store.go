// Package database holds the storage contracts for users and connections and
// their MongoDB and in-memory implementations.
package database

import (
	"context"
	"errors"

	"devmatch/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	// ListUsersExcluding returns users whose id is not in exclude, ordered by id.
	ListUsersExcluding(ctx context.Context, exclude []primitive.ObjectID, skip, limit int64) ([]models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

type ConnectionStore interface {
	// CreateConnection fails with ErrDuplicateKey when the unordered pair
	// already has a connection.
	CreateConnection(ctx context.Context, conn *models.Connection) error
	FindConnectionByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error)
	FindConnectionBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error)
	// TransitionConnection sets the status to `to` only while it is still
	// `from`; otherwise it returns ErrNotFound.
	TransitionConnection(ctx context.Context, id primitive.ObjectID, from, to models.ConnectionStatus) (*models.Connection, error)
	ListConnectionsInvolving(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)
	ListConnectionsTo(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.Connection, error)
	ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)
}

type Store interface {
	UserStore
	ConnectionStore
}
