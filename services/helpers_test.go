package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"devmatch/auth"
	"devmatch/database"
	"devmatch/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	store       *database.MemoryStore
	users       *UserService
	connections *ConnectionService
	feed        *FeedService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := database.NewMemoryStore()
	return &fixture{
		store:       store,
		users:       NewUserService(store, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewTokenManager("test-secret", time.Hour)),
		connections: NewConnectionService(store, store),
		feed:        NewFeedService(store, store),
	}
}

func (f *fixture) signUp(t *testing.T, firstName string) *models.User {
	t.Helper()
	u, err := f.users.SignUp(context.Background(), SignUpInput{
		FirstName: firstName,
		Email:     fmt.Sprintf("%s@example.com", firstName),
		Password:  "password-" + firstName,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) swipe(t *testing.T, from, to primitive.ObjectID, status models.ConnectionStatus) *models.Connection {
	t.Helper()
	conn, _, err := f.connections.Swipe(context.Background(), from, to.Hex(), status)
	require.NoError(t, err)
	return conn
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind, "got %v", err)
}
