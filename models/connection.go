package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConnectionStatus string

const (
	StatusIgnored    ConnectionStatus = "ignored"
	StatusInterested ConnectionStatus = "interested"
	StatusAccepted   ConnectionStatus = "accepted"
	StatusRejected   ConnectionStatus = "rejected"
)

var (
	ErrSelfConnection = errors.New("cannot choose yourself")
	ErrInvalidStatus  = errors.New("invalid connection status")
)

// IsSwipe reports whether a new connection may be created with s.
func (s ConnectionStatus) IsSwipe() bool {
	return s == StatusInterested || s == StatusIgnored
}

// IsReview reports whether a pending connection may be moved to s.
func (s ConnectionStatus) IsReview() bool {
	return s == StatusAccepted || s == StatusRejected
}

func (s ConnectionStatus) Valid() bool {
	return s.IsSwipe() || s.IsReview()
}

type Connection struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FromUserID primitive.ObjectID `bson:"fromUserId" json:"fromUserId"`
	ToUserID   primitive.ObjectID `bson:"toUserId" json:"toUserId"`
	Status     ConnectionStatus   `bson:"status" json:"status"`
	PairKey    string             `bson:"pairKey" json:"-"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PairKey identifies the unordered pair {a, b}; PairKey(a, b) == PairKey(b, a).
func PairKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}

// Validate checks the record before it is persisted and fills PairKey.
func (c *Connection) Validate() error {
	if c.FromUserID == c.ToUserID {
		return ErrSelfConnection
	}
	if !c.Status.Valid() {
		return ErrInvalidStatus
	}
	c.PairKey = PairKey(c.FromUserID, c.ToUserID)
	return nil
}

// Counterpart returns the other side of the connection as seen by userID.
func (c *Connection) Counterpart(userID primitive.ObjectID) primitive.ObjectID {
	if c.FromUserID == userID {
		return c.ToUserID
	}
	return c.FromUserID
}
