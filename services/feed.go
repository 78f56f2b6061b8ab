package services

import (
	"context"
	"errors"
	"math"

	"devmatch/database"
	"devmatch/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 5
	// MaxPage keeps (page-1)*limit well inside int64.
	MaxPage = math.MaxInt32
)

// NormalizePage maps page < 1 to 1, limit < 1 to DefaultLimit and clamps
// page to MaxPage and limit to MaxLimit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// FeedCard is a feed entry: a public profile plus the id needed to swipe on it.
type FeedCard struct {
	ID primitive.ObjectID `json:"id"`
	models.SafeProfile
}

// FeedService selects the profiles a user has not yet made a decision about.
type FeedService struct {
	users       database.UserStore
	connections database.ConnectionStore
}

func NewFeedService(users database.UserStore, connections database.ConnectionStore) *FeedService {
	return &FeedService{users: users, connections: connections}
}

// Feed returns one page of public profiles, excluding the caller and anyone
// who shares a connection with the caller in any status.
func (s *FeedService) Feed(ctx context.Context, callerID primitive.ObjectID, page, limit int) ([]FeedCard, error) {
	page, limit = NormalizePage(page, limit)

	if _, err := s.users.FindUserByID(ctx, callerID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, internal("Failed to fetch user", err)
	}

	conns, err := s.connections.ListConnectionsInvolving(ctx, callerID)
	if err != nil {
		return nil, internal("Failed to fetch connections", err)
	}

	hidden := map[primitive.ObjectID]struct{}{callerID: {}}
	for _, c := range conns {
		hidden[c.FromUserID] = struct{}{}
		hidden[c.ToUserID] = struct{}{}
	}
	exclude := make([]primitive.ObjectID, 0, len(hidden))
	for id := range hidden {
		exclude = append(exclude, id)
	}

	skip := int64(page-1) * int64(limit)
	users, err := s.users.ListUsersExcluding(ctx, exclude, skip, int64(limit))
	if err != nil {
		return nil, internal("Failed to fetch feed", err)
	}

	feed := make([]FeedCard, 0, len(users))
	for i := range users {
		feed = append(feed, FeedCard{ID: users[i].ID, SafeProfile: users[i].Safe()})
	}
	return feed, nil
}
