package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/account-api/internal/database"
	"github.com/isdelr/account-api/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	FirstName string        `bson:"firstName"`
	LastName  string        `bson:"lastName"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"` // hashed
	Age       *int          `bson:"age,omitempty"`
	Avatar    string        `bson:"avatar"`
	Gender    string        `bson:"gender"`
}

func (d userDocument) toModel() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.Password,
		Age:          d.Age,
		Avatar:       d.Avatar,
		Gender:       d.Gender,
	}
}

// MongoUserStore is a UserStore backed by a MongoDB collection.
type MongoUserStore struct {
	coll *mongo.Collection
}

// NewMongoUserStore creates a new MongoUserStore on the users collection of db.
func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(database.UsersCollection)}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	doc := userDocument{
		ID:        bson.NewObjectID(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Age:       user.Age,
		Avatar:    user.Avatar,
		Gender:    user.Gender,
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = doc.ID.Hex()
	return nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.findOneAndSet(ctx, id, bson.M{"password": passwordHash})
}

// UpdateProfile overwrites every profile field; a nil age is stored as null.
func (s *MongoUserStore) UpdateProfile(ctx context.Context, id string, p models.Profile) error {
	return s.findOneAndSet(ctx, id, bson.M{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"avatar":    p.Avatar,
		"gender":    p.Gender,
		"age":       p.Age,
	})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoUserStore) findOneAndSet(ctx context.Context, id string, fields bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

type eventDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Type      string        `bson:"type"`
	UserID    string        `bson:"userId"`
	Message   string        `bson:"message"`
	CreatedAt time.Time     `bson:"createdAt"`
}

// MongoEventStore is an EventStore backed by a MongoDB collection.
type MongoEventStore struct {
	coll *mongo.Collection
}

// NewMongoEventStore creates a new MongoEventStore on the events collection of db.
func NewMongoEventStore(db *mongo.Database) *MongoEventStore {
	return &MongoEventStore{coll: db.Collection(database.EventsCollection)}
}

func (s *MongoEventStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	doc := eventDocument{
		ID:        bson.NewObjectID(),
		Type:      event.Type,
		UserID:    event.UserID,
		Message:   event.Message,
		CreatedAt: event.CreatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	event.ID = doc.ID.Hex()
	return nil
}

func (s *MongoEventStore) RecentEvents(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []eventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]models.Event, 0, len(docs))
	for _, d := range docs {
		events = append(events, models.Event{
			ID:        d.ID.Hex(),
			Type:      d.Type,
			UserID:    d.UserID,
			Message:   d.Message,
			CreatedAt: d.CreatedAt,
		})
	}
	return events, nil
}
