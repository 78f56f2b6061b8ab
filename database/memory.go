package database

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"devmatch/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore implements Store in process memory. It enforces the same unique
// constraints as the MongoDB indexes and is used for tests and local runs.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[primitive.ObjectID]models.User
	connections map[primitive.ObjectID]models.Connection
	emails      map[string]primitive.ObjectID
	pairs       map[string]primitive.ObjectID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[primitive.ObjectID]models.User),
		connections: make(map[primitive.ObjectID]models.Connection),
		emails:      make(map[string]primitive.ObjectID),
		pairs:       make(map[string]primitive.ObjectID),
	}
}

func cloneUser(u models.User) *models.User {
	if u.Skills != nil {
		u.Skills = append([]string{}, u.Skills...)
	}
	if u.Age != nil {
		age := *u.Age
		u.Age = &age
	}
	return &u
}

func sortedIDs[T any](m map[primitive.ObjectID]T) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[user.Email]; ok {
		return ErrDuplicateKey
	}
	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = *cloneUser(*user)
	s.emails[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *MemoryStore) FindUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, *cloneUser(u))
		}
	}
	return users, nil
}

func (s *MemoryStore) ListUsersExcluding(_ context.Context, exclude []primitive.ObjectID, skip, limit int64) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hidden := make(map[primitive.ObjectID]struct{}, len(exclude))
	for _, id := range exclude {
		hidden[id] = struct{}{}
	}

	users := []models.User{}
	var seen int64
	for _, id := range sortedIDs(s.users) {
		if _, ok := hidden[id]; ok {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		if limit > 0 && int64(len(users)) >= limit {
			break
		}
		u := cloneUser(s.users[id])
		u.Password = ""
		users = append(users, *u)
	}
	return users, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := cloneUser(u)
	update.Apply(updated)
	updated.UpdatedAt = time.Now().UTC()
	s.users[id] = *updated
	return cloneUser(*updated), nil
}

func (s *MemoryStore) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Password = hash
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.emails, u.Email)
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) CreateConnection(_ context.Context, conn *models.Connection) error {
	if err := conn.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pairs[conn.PairKey]; ok {
		return ErrDuplicateKey
	}
	now := time.Now().UTC()
	if conn.ID.IsZero() {
		conn.ID = primitive.NewObjectID()
	}
	conn.CreatedAt = now
	conn.UpdatedAt = now

	s.connections[conn.ID] = *conn
	s.pairs[conn.PairKey] = conn.ID
	return nil
}

func (s *MemoryStore) FindConnectionByID(_ context.Context, id primitive.ObjectID) (*models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.connections[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) FindConnectionBetween(_ context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.pairs[models.PairKey(a, b)]
	if !ok {
		return nil, ErrNotFound
	}
	c := s.connections[id]
	return &c, nil
}

func (s *MemoryStore) TransitionConnection(_ context.Context, id primitive.ObjectID, from, to models.ConnectionStatus) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.connections[id]
	if !ok || c.Status != from {
		return nil, ErrNotFound
	}
	c.Status = to
	c.UpdatedAt = time.Now().UTC()
	s.connections[id] = c
	return &c, nil
}

func (s *MemoryStore) filterConnections(match func(models.Connection) bool) []models.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conns := []models.Connection{}
	for _, id := range sortedIDs(s.connections) {
		if c := s.connections[id]; match(c) {
			conns = append(conns, c)
		}
	}
	return conns
}

func (s *MemoryStore) ListConnectionsInvolving(_ context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return s.filterConnections(func(c models.Connection) bool {
		return c.FromUserID == userID || c.ToUserID == userID
	}), nil
}

func (s *MemoryStore) ListConnectionsTo(_ context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.Connection, error) {
	return s.filterConnections(func(c models.Connection) bool {
		return c.ToUserID == userID && c.Status == status
	}), nil
}

func (s *MemoryStore) ListAccepted(_ context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return s.filterConnections(func(c models.Connection) bool {
		return c.Status == models.StatusAccepted && (c.FromUserID == userID || c.ToUserID == userID)
	}), nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)
