package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/filtering"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
)

const jobsCollection = "jobs"

type jobDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	EmployerID  string             `bson:"employer_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Field       string             `bson:"field"`
	Skills      []string           `bson:"skills"`
	Type        string             `bson:"type"`
	Location    string             `bson:"location"`
	Active      bool               `bson:"active"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toJobDoc(j *jobs.Job) jobDoc {
	return jobDoc{
		EmployerID:  j.EmployerID,
		Title:       j.Title,
		Description: j.Description,
		Field:       j.Field,
		Skills:      append([]string{}, j.Skills...),
		Type:        string(j.Type),
		Location:    j.Location,
		Active:      j.Active,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func (d jobDoc) job() *jobs.Job {
	return &jobs.Job{
		ID:          d.ID.Hex(),
		EmployerID:  d.EmployerID,
		Title:       d.Title,
		Description: d.Description,
		Field:       d.Field,
		Skills:      d.Skills,
		Type:        jobs.Type(d.Type),
		Location:    d.Location,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// Jobs is a jobs.Repository backed by a MongoDB collection. Facet lookups use
// collection indexes that the server keeps current on every write.
type Jobs struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

var _ jobs.Repository = (*Jobs)(nil)

func NewJobs(db *mongo.Database, log *zap.Logger) *Jobs {
	return &Jobs{
		collection: db.Collection(jobsCollection),
		logger:     logger.WithFields(log, zap.String("store", "mongo")),
	}
}

// EnsureIndexes creates the facet and ordering indexes.
func (s *Jobs) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "field", Value: 1}}},
		{Keys: bson.D{{Key: "employer_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, models); err != nil {
		return apperr.Dependency(err, "create job indexes")
	}
	return nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("malformed job id %q", id)
	}
	return oid, nil
}

func (s *Jobs) Insert(ctx context.Context, job *jobs.Job) (*jobs.Job, error) {
	doc := toJobDoc(job)
	if job.ID != "" {
		oid, err := objectID(job.ID)
		if err != nil {
			return nil, err
		}
		doc.ID = oid
	} else {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("job %s already exists", doc.ID.Hex())
		}
		return nil, apperr.Dependency(err, "insert job")
	}

	return doc.job(), nil
}

func (s *Jobs) Get(ctx context.Context, id string) (*jobs.Job, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc jobDoc
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("job %s not found", id)
	}
	if err != nil {
		return nil, apperr.Dependency(err, "find job")
	}
	return doc.job(), nil
}

// patchSet translates a patch into a $set document. Strings are trimmed the
// same way jobs.Patch.Apply trims them.
func patchSet(patch jobs.Patch, at time.Time) bson.M {
	applied := patch.Apply(&jobs.Job{}, at)
	set := bson.M{"updated_at": at}
	if patch.Title != nil {
		set["title"] = applied.Title
	}
	if patch.Description != nil {
		set["description"] = applied.Description
	}
	if patch.Field != nil {
		set["field"] = applied.Field
	}
	if patch.Skills != nil {
		set["skills"] = append([]string{}, applied.Skills...)
	}
	if patch.Type != nil {
		set["type"] = string(applied.Type)
	}
	if patch.Location != nil {
		set["location"] = applied.Location
	}
	if patch.Active != nil {
		set["active"] = applied.Active
	}
	return set
}

func (s *Jobs) Update(ctx context.Context, id string, patch jobs.Patch, at time.Time) (*jobs.Job, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc jobDoc
	err = s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": patchSet(patch, at)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("job %s not found", id)
	}
	if err != nil {
		return nil, apperr.Dependency(err, "update job")
	}
	return doc.job(), nil
}

func (s *Jobs) Delete(ctx context.Context, id string) (*jobs.Job, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc jobDoc
	err = s.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("job %s not found", id)
	}
	if err != nil {
		return nil, apperr.Dependency(err, "delete job")
	}
	return doc.job(), nil
}

// queryFilter renders every facet except skills as a bson filter and disables
// the matching steps. Skill overlap is substring based in both directions,
// which a single query operator cannot express, so it stays a step.
func queryFilter(f jobs.Filter, steps []filtering.Filter) bson.M {
	q := bson.M{}
	resolved := func(name string) {
		filtering.DisableByName(steps, name, "resolved by query")
	}

	if f.Type != nil {
		q["type"] = string(*f.Type)
		resolved(filtering.NameType)
	}
	if f.Field != nil {
		q["field"] = *f.Field
		resolved(filtering.NameField)
	}
	if f.EmployerID != nil {
		q["employer_id"] = *f.EmployerID
		resolved(filtering.NameEmployer)
	}
	if f.Active != nil {
		q["active"] = *f.Active
		resolved(filtering.NameActive)
	}
	if f.Location != nil {
		q["location"] = containsPattern(*f.Location)
		resolved(filtering.NameLocation)
	}
	if f.SearchTerm != nil {
		pattern := containsPattern(*f.SearchTerm)
		q["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
		resolved(filtering.NameSearch)
	}
	return q
}

func containsPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(s)), Options: "i"}
}

func (s *Jobs) Query(ctx context.Context, f jobs.Filter) ([]*jobs.Job, error) {
	steps := filtering.ForFilter(f)
	q := queryFilter(f, steps)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, q, opts)
	if err != nil {
		return nil, apperr.Dependency(err, "find jobs")
	}
	defer cursor.Close(ctx)

	var docs []jobDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperr.Dependency(err, "decode jobs")
	}

	candidates := make([]*jobs.Job, 0, len(docs))
	for _, d := range docs {
		candidates = append(candidates, d.job())
	}

	list, err := filtering.Run(ctx, filtering.Deps{Logger: s.logger}, steps, candidates)
	if err != nil {
		return nil, fmt.Errorf("filter jobs: %w", err)
	}

	jobs.SortNewestFirst(list)
	return list, nil
}
