package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/users"
)

const usersCollection = "users"

type resumeDoc struct {
	Key              string    `bson:"s3_key"`
	OriginalFilename string    `bson:"original_filename"`
	ContentType      string    `bson:"content_type"`
	UploadedAt       time.Time `bson:"uploaded_at"`
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name"`
	Role         string             `bson:"user_type"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
	Resume       *resumeDoc         `bson:"resume,omitempty"`
}

func (d userDoc) user() *users.User {
	u := &users.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Name:         d.Name,
		Role:         users.Role(d.Role),
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
	}
	if d.Resume != nil {
		u.Resume = &users.ResumeRef{
			Key:              d.Resume.Key,
			OriginalFilename: d.Resume.OriginalFilename,
			ContentType:      d.Resume.ContentType,
			UploadedAt:       d.Resume.UploadedAt.UTC(),
		}
	}
	return u
}

// Users is a users.Repository with a unique index on email.
type Users struct {
	collection *mongo.Collection
}

var _ users.Repository = (*Users)(nil)

func NewUsers(db *mongo.Database) *Users {
	return &Users{collection: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index.
func (s *Users) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.collection.Indexes().CreateOne(ctx, model); err != nil {
		return apperr.Dependency(err, "create user indexes")
	}
	return nil
}

func (s *Users) Insert(ctx context.Context, u *users.User) (*users.User, error) {
	doc := userDoc{
		ID:           primitive.NewObjectID(),
		Email:        u.Email,
		Name:         u.Name,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("user with this email already exists")
		}
		return nil, apperr.Dependency(err, "insert user")
	}
	return doc.user(), nil
}

func (s *Users) findOne(ctx context.Context, filter bson.M) (*users.User, error) {
	var doc userDoc
	err := s.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Dependency(err, "find user")
	}
	return doc.user(), nil
}

func (s *Users) Get(ctx context.Context, id string) (*users.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Ids that cannot exist are reported like missing ones.
		return nil, apperr.NotFound("user %s not found", id)
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *Users) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Users) SetResume(ctx context.Context, id string, ref *users.ResumeRef) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("user %s not found", id)
	}

	update := bson.M{"$unset": bson.M{"resume": ""}}
	if ref != nil {
		update = bson.M{"$set": bson.M{"resume": resumeDoc{
			Key:              ref.Key,
			OriginalFilename: ref.OriginalFilename,
			ContentType:      ref.ContentType,
			UploadedAt:       ref.UploadedAt,
		}}}
	}

	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return apperr.Dependency(err, "update user resume")
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user %s not found", id)
	}
	return nil
}
