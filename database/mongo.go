package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devmatch/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of a MongoDB database.
type MongoStore struct {
	users       *mongo.Collection
	connections *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:       db.Collection(usersCollection),
		connections: db.Collection(connectionsCollection),
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.users.InsertOne(ctx, user)
	return translate(err)
}

func (s *MongoStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *MongoStore) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoStore) ListUsersExcluding(ctx context.Context, exclude []primitive.ObjectID, skip, limit int64) ([]models.User, error) {
	if exclude == nil {
		exclude = []primitive.ObjectID{}
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(bson.M{"password": 0})

	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$nin": exclude}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func profileSet(update models.ProfileUpdate) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.FirstName != nil {
		set["firstName"] = *update.FirstName
	}
	if update.LastName != nil {
		set["lastName"] = *update.LastName
	}
	if update.Age != nil {
		set["age"] = *update.Age
	}
	if update.PhotoURL != nil {
		set["photoUrl"] = *update.PhotoURL
	}
	if update.Gender != nil {
		set["gender"] = *update.Gender
	}
	if update.Skills != nil {
		set["skills"] = *update.Skills
	}
	if update.About != nil {
		set["about"] = *update.About
	}
	return set
}

func (s *MongoStore) UpdateUser(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": profileSet(update)}, opts).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *MongoStore) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	result, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateConnection(ctx context.Context, conn *models.Connection) error {
	if err := conn.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if conn.ID.IsZero() {
		conn.ID = primitive.NewObjectID()
	}
	conn.CreatedAt = now
	conn.UpdatedAt = now

	_, err := s.connections.InsertOne(ctx, conn)
	return translate(err)
}

func (s *MongoStore) FindConnectionByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	var conn models.Connection
	if err := s.connections.FindOne(ctx, bson.M{"_id": id}).Decode(&conn); err != nil {
		return nil, translate(err)
	}
	return &conn, nil
}

func (s *MongoStore) FindConnectionBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	filter := bson.M{"$or": []bson.M{
		{"fromUserId": a, "toUserId": b},
		{"fromUserId": b, "toUserId": a},
	}}

	var conn models.Connection
	if err := s.connections.FindOne(ctx, filter).Decode(&conn); err != nil {
		return nil, translate(err)
	}
	return &conn, nil
}

func (s *MongoStore) TransitionConnection(ctx context.Context, id primitive.ObjectID, from, to models.ConnectionStatus) (*models.Connection, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}}

	var conn models.Connection
	err := s.connections.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, update, opts).Decode(&conn)
	if err != nil {
		return nil, translate(err)
	}
	return &conn, nil
}

func (s *MongoStore) findConnections(ctx context.Context, filter bson.M) ([]models.Connection, error) {
	cursor, err := s.connections.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	conns := []models.Connection{}
	if err := cursor.All(ctx, &conns); err != nil {
		return nil, err
	}
	return conns, nil
}

func (s *MongoStore) ListConnectionsInvolving(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return s.findConnections(ctx, bson.M{"$or": []bson.M{
		{"fromUserId": userID},
		{"toUserId": userID},
	}})
}

func (s *MongoStore) ListConnectionsTo(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.Connection, error) {
	return s.findConnections(ctx, bson.M{"toUserId": userID, "status": status})
}

func (s *MongoStore) ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return s.findConnections(ctx, bson.M{
		"status": models.StatusAccepted,
		"$or": []bson.M{
			{"fromUserId": userID},
			{"toUserId": userID},
		},
	})
}
