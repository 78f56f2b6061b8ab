package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devmatch/database"
	"devmatch/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConnectionService creates connection requests (swipes) and lets the
// recipient decide pending ones (reviews).
type ConnectionService struct {
	users       database.UserStore
	connections database.ConnectionStore
}

func NewConnectionService(users database.UserStore, connections database.ConnectionStore) *ConnectionService {
	return &ConnectionService{users: users, connections: connections}
}

// ReceivedRequest is a pending request addressed to the caller.
type ReceivedRequest struct {
	ID        primitive.ObjectID      `json:"id"`
	FromUser  models.SafeProfile      `json:"fromUser"`
	Status    models.ConnectionStatus `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
}

func (s *ConnectionService) lookupUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, newError(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, internal("Failed to fetch user", err)
	}
	return user, nil
}

// Swipe records callerID's decision about targetID. It returns the created
// connection and a summary naming both parties.
func (s *ConnectionService) Swipe(ctx context.Context, callerID primitive.ObjectID, rawTargetID string, status models.ConnectionStatus) (*models.Connection, string, error) {
	if !status.IsSwipe() {
		return nil, "", newError(ErrInvalidArgument, "Invalid status. Must be 'interested' or 'ignored'")
	}
	targetID, err := parseID(rawTargetID, "Invalid target user ID")
	if err != nil {
		return nil, "", err
	}
	if targetID == callerID {
		return nil, "", newError(ErrInvalidArgument, "Cannot choose yourself")
	}

	from, err := s.lookupUser(ctx, callerID)
	if err != nil {
		return nil, "", err
	}
	to, err := s.lookupUser(ctx, targetID)
	if err != nil {
		return nil, "", err
	}

	_, err = s.connections.FindConnectionBetween(ctx, callerID, targetID)
	if err == nil {
		return nil, "", newError(ErrConflict, "You have already made a choice for this user")
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, "", internal("Failed to check existing connection", err)
	}

	conn := &models.Connection{FromUserID: callerID, ToUserID: targetID, Status: status}
	if err := s.connections.CreateConnection(ctx, conn); err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicateKey):
			return nil, "", newError(ErrConflict, "You have already made a choice for this user")
		case errors.Is(err, models.ErrSelfConnection):
			return nil, "", newError(ErrInvalidArgument, "Cannot choose yourself")
		}
		return nil, "", internal("Failed to save connection", err)
	}

	return conn, fmt.Sprintf("%s is %s in %s", from.FirstName, status, to.FirstName), nil
}

// Review moves a pending request addressed to callerID to accepted or
// rejected. Only "interested" requests are reviewable.
func (s *ConnectionService) Review(ctx context.Context, callerID primitive.ObjectID, rawRequestID string, status models.ConnectionStatus) (*models.Connection, error) {
	if !status.IsReview() {
		return nil, newError(ErrInvalidArgument, "Invalid status. Must be 'accepted' or 'rejected'")
	}
	requestID, err := parseID(rawRequestID, "Invalid request ID")
	if err != nil {
		return nil, err
	}

	conn, err := s.connections.FindConnectionByID(ctx, requestID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, newError(ErrNotFound, "Connection not found")
	}
	if err != nil {
		return nil, internal("Failed to fetch connection", err)
	}

	if conn.ToUserID != callerID {
		return nil, newError(ErrForbidden, "You are not authorized to review this connection")
	}
	if conn.Status != models.StatusInterested {
		return nil, newError(ErrInvalidState, "You can only review connections in 'interested' status")
	}

	updated, err := s.connections.TransitionConnection(ctx, requestID, models.StatusInterested, status)
	if errors.Is(err, database.ErrNotFound) {
		// Another review won the race.
		return nil, newError(ErrInvalidState, "You can only review connections in 'interested' status")
	}
	if err != nil {
		return nil, internal("Failed to update connection", err)
	}
	return updated, nil
}

// ReceivedRequests lists pending requests addressed to callerID together with
// each initiator's public profile. Requests from deleted users are skipped.
func (s *ConnectionService) ReceivedRequests(ctx context.Context, callerID primitive.ObjectID) ([]ReceivedRequest, error) {
	if _, err := s.lookupUser(ctx, callerID); err != nil {
		return nil, err
	}

	pending, err := s.connections.ListConnectionsTo(ctx, callerID, models.StatusInterested)
	if err != nil {
		return nil, internal("Failed to fetch requests", err)
	}

	ids := make([]primitive.ObjectID, 0, len(pending))
	for _, c := range pending {
		ids = append(ids, c.FromUserID)
	}
	profiles, err := s.profilesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	requests := make([]ReceivedRequest, 0, len(pending))
	for _, c := range pending {
		profile, ok := profiles[c.FromUserID]
		if !ok {
			continue
		}
		requests = append(requests, ReceivedRequest{
			ID:        c.ID,
			FromUser:  profile,
			Status:    c.Status,
			CreatedAt: c.CreatedAt,
		})
	}
	return requests, nil
}

// Connections lists the public profiles of everyone callerID has an accepted
// connection with, in either direction.
func (s *ConnectionService) Connections(ctx context.Context, callerID primitive.ObjectID) ([]models.SafeProfile, error) {
	if _, err := s.lookupUser(ctx, callerID); err != nil {
		return nil, err
	}

	accepted, err := s.connections.ListAccepted(ctx, callerID)
	if err != nil {
		return nil, internal("Failed to fetch connections", err)
	}

	ids := make([]primitive.ObjectID, 0, len(accepted))
	for _, c := range accepted {
		ids = append(ids, c.Counterpart(callerID))
	}
	profiles, err := s.profilesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]models.SafeProfile, 0, len(ids))
	for _, id := range ids {
		if profile, ok := profiles[id]; ok {
			result = append(result, profile)
		}
	}
	return result, nil
}

func (s *ConnectionService) profilesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.SafeProfile, error) {
	users, err := s.users.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, internal("Failed to fetch users", err)
	}
	profiles := make(map[primitive.ObjectID]models.SafeProfile, len(users))
	for i := range users {
		profiles[users[i].ID] = users[i].Safe()
	}
	return profiles, nil
}
