package database

import (
	"context"
	"os"
	"testing"
	"time"

	"devmatch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// storeFactory returns a fresh, empty Store.
type storeFactory func(t *testing.T) Store

func stores(t *testing.T) map[string]storeFactory {
	t.Helper()
	factories := map[string]storeFactory{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
	}

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri != "" {
		factories["mongo"] = func(t *testing.T) Store {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()

			client, err := Connect(ctx, uri)
			require.NoError(t, err)

			db := client.Database("devmatch_test_" + primitive.NewObjectID().Hex())
			require.NoError(t, EnsureIndexes(ctx, db))
			t.Cleanup(func() {
				_ = db.Drop(context.Background())
				_ = Disconnect(client)
			})
			return NewMongoStore(db)
		}
	}
	return factories
}

func newUser(first, email string) *models.User {
	u := &models.User{FirstName: first, Email: email, Password: "hash"}
	u.ApplyDefaults()
	return u
}

func TestStore_Users(t *testing.T) {
	for name, factory := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)

			alice := newUser("Alice", "alice@example.com")
			require.NoError(t, s.CreateUser(ctx, alice))
			require.False(t, alice.ID.IsZero())

			dup := newUser("Alice2", "alice@example.com")
			assert.ErrorIs(t, s.CreateUser(ctx, dup), ErrDuplicateKey)

			got, err := s.FindUserByEmail(ctx, "alice@example.com")
			require.NoError(t, err)
			assert.Equal(t, alice.ID, got.ID)
			assert.Equal(t, "hash", got.Password)

			_, err = s.FindUserByID(ctx, primitive.NewObjectID())
			assert.ErrorIs(t, err, ErrNotFound)

			about := "Gopher"
			updated, err := s.UpdateUser(ctx, alice.ID, models.ProfileUpdate{About: &about})
			require.NoError(t, err)
			assert.Equal(t, "Gopher", updated.About)
			assert.Equal(t, "Alice", updated.FirstName)

			require.NoError(t, s.SetPassword(ctx, alice.ID, "hash2"))
			got, err = s.FindUserByID(ctx, alice.ID)
			require.NoError(t, err)
			assert.Equal(t, "hash2", got.Password)

			require.NoError(t, s.DeleteUser(ctx, alice.ID))
			assert.ErrorIs(t, s.DeleteUser(ctx, alice.ID), ErrNotFound)
			assert.ErrorIs(t, s.SetPassword(ctx, alice.ID, "x"), ErrNotFound)
			_, err = s.UpdateUser(ctx, alice.ID, models.ProfileUpdate{About: &about})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_ListUsersExcluding(t *testing.T) {
	for name, factory := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)

			var ids []primitive.ObjectID
			for _, email := range []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io", "e@x.io"} {
				u := newUser("Person", email)
				require.NoError(t, s.CreateUser(ctx, u))
				ids = append(ids, u.ID)
			}

			page, err := s.ListUsersExcluding(ctx, []primitive.ObjectID{ids[0], ids[2]}, 0, 2)
			require.NoError(t, err)
			require.Len(t, page, 2)
			assert.Equal(t, ids[1], page[0].ID)
			assert.Equal(t, ids[3], page[1].ID)
			assert.Empty(t, page[0].Password)

			page, err = s.ListUsersExcluding(ctx, []primitive.ObjectID{ids[0], ids[2]}, 2, 2)
			require.NoError(t, err)
			require.Len(t, page, 1)
			assert.Equal(t, ids[4], page[0].ID)

			found, err := s.FindUsersByIDs(ctx, []primitive.ObjectID{ids[4], primitive.NewObjectID()})
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, ids[4], found[0].ID)
		})
	}
}

func TestStore_Connections(t *testing.T) {
	for name, factory := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)

			a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

			ab := &models.Connection{FromUserID: a, ToUserID: b, Status: models.StatusInterested}
			require.NoError(t, s.CreateConnection(ctx, ab))
			require.False(t, ab.ID.IsZero())

			reverse := &models.Connection{FromUserID: b, ToUserID: a, Status: models.StatusIgnored}
			assert.ErrorIs(t, s.CreateConnection(ctx, reverse), ErrDuplicateKey)

			self := &models.Connection{FromUserID: a, ToUserID: a, Status: models.StatusIgnored}
			assert.ErrorIs(t, s.CreateConnection(ctx, self), models.ErrSelfConnection)

			ca := &models.Connection{FromUserID: c, ToUserID: a, Status: models.StatusIgnored}
			require.NoError(t, s.CreateConnection(ctx, ca))

			between, err := s.FindConnectionBetween(ctx, b, a)
			require.NoError(t, err)
			assert.Equal(t, ab.ID, between.ID)

			_, err = s.FindConnectionBetween(ctx, b, c)
			assert.ErrorIs(t, err, ErrNotFound)

			involving, err := s.ListConnectionsInvolving(ctx, a)
			require.NoError(t, err)
			assert.Len(t, involving, 2)

			pending, err := s.ListConnectionsTo(ctx, b, models.StatusInterested)
			require.NoError(t, err)
			require.Len(t, pending, 1)
			assert.Equal(t, ab.ID, pending[0].ID)

			accepted, err := s.TransitionConnection(ctx, ab.ID, models.StatusInterested, models.StatusAccepted)
			require.NoError(t, err)
			assert.Equal(t, models.StatusAccepted, accepted.Status)

			_, err = s.TransitionConnection(ctx, ab.ID, models.StatusInterested, models.StatusRejected)
			assert.ErrorIs(t, err, ErrNotFound)

			list, err := s.ListAccepted(ctx, a)
			require.NoError(t, err)
			require.Len(t, list, 1)
			list, err = s.ListAccepted(ctx, b)
			require.NoError(t, err)
			require.Len(t, list, 1)
			list, err = s.ListAccepted(ctx, c)
			require.NoError(t, err)
			assert.Empty(t, list)

			got, err := s.FindConnectionByID(ctx, ab.ID)
			require.NoError(t, err)
			assert.Equal(t, models.StatusAccepted, got.Status)
		})
	}
}
