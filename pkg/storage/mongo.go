package storage

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
)

// Collection names.
const (
	CollectionDocuments     = "documents"
	CollectionRelationships = "relationships"
	CollectionArchives      = "archives"
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI      string
	Database string
	// Timeout bounds connecting and the initial ping. Zero means 10s.
	Timeout time.Duration
}

// MongoStore keeps the review state in three MongoDB collections.
type MongoStore struct {
	client        *mongo.Client
	documents     *mongo.Collection
	relationships *mongo.Collection
	archives      *mongo.Collection
}

// OpenMongoStore connects, pings and ensures the indexes exist.
func OpenMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Database == "" {
		opts.Database = "doctriage"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect %s", opts.URI)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping %s", opts.URI)
	}

	s := NewMongoStore(client, opts.Database)
	if err := s.ensureIndexes(cctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// NewMongoStore wraps a connected client without touching the server.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:        client,
		documents:     db.Collection(CollectionDocuments),
		relationships: db.Collection(CollectionRelationships),
		archives:      db.Collection(CollectionArchives),
	}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.relationships.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "source_id", Value: 1}, {Key: "target_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "target_id", Value: 1}}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create relationship indexes")
	}
	_, err = s.documents.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "source_archive", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create document indexes")
	}
	return nil
}

var documentOrder = options.Find().SetSort(bson.D{{Key: "upload_date", Value: 1}, {Key: "_id", Value: 1}})

func findAll[T any](ctx context.Context, c *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find %s", c.Name())
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode %s", c.Name())
	}
	return out, nil
}

func (s *MongoStore) ListDocuments(ctx context.Context) ([]docs.Document, error) {
	return findAll[docs.Document](ctx, s.documents, bson.D{}, documentOrder)
}

func (s *MongoStore) GetDocument(ctx context.Context, id string) (docs.Document, error) {
	var d docs.Document
	err := s.documents.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return docs.Document{}, documentNotFound(id)
	}
	if err != nil {
		return docs.Document{}, errors.Wrap(errors.ErrCodeStorage, err, "get document %q", id)
	}
	return d, nil
}

func (s *MongoStore) UpsertDocuments(ctx context.Context, documents ...docs.Document) error {
	if len(documents) == 0 {
		return nil
	}
	if err := validateDocuments(documents); err != nil {
		return err
	}
	models := make([]mongo.WriteModel, len(documents))
	for i, d := range documents {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": d.ID}).
			SetReplacement(d).
			SetUpsert(true)
	}
	if _, err := s.documents.BulkWrite(ctx, models); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "upsert documents")
	}
	return nil
}

func (s *MongoStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.documents.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete document %q", id)
	}
	if res.DeletedCount == 0 {
		return documentNotFound(id)
	}
	return s.deleteTouching(ctx, []string{id})
}

func (s *MongoStore) deleteTouching(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	filter := bson.M{"$or": bson.A{
		bson.M{"source_id": bson.M{"$in": ids}},
		bson.M{"target_id": bson.M{"$in": ids}},
	}}
	if _, err := s.relationships.DeleteMany(ctx, filter); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete relationships")
	}
	return nil
}

func (s *MongoStore) DocumentsByArchive(ctx context.Context, archive string) ([]docs.Document, error) {
	return findAll[docs.Document](ctx, s.documents, bson.M{"source_archive": archive}, documentOrder)
}

func (s *MongoStore) ListRelationships(ctx context.Context) ([]docs.Relationship, error) {
	return findAll[docs.Relationship](ctx, s.relationships, bson.D{})
}

func (s *MongoStore) RelationshipsByDocument(ctx context.Context, id string) ([]docs.Relationship, error) {
	filter := bson.M{"$or": bson.A{bson.M{"source_id": id}, bson.M{"target_id": id}}}
	return findAll[docs.Relationship](ctx, s.relationships, filter)
}

func (s *MongoStore) UpsertRelationships(ctx context.Context, rels ...docs.Relationship) error {
	if len(rels) == 0 {
		return nil
	}
	if err := validateRelationships(rels); err != nil {
		return err
	}
	models := make([]mongo.WriteModel, len(rels))
	for i, r := range rels {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"source_id": r.SourceID, "target_id": r.TargetID}).
			SetReplacement(r).
			SetUpsert(true)
	}
	if _, err := s.relationships.BulkWrite(ctx, models); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "upsert relationships")
	}
	return nil
}

func (s *MongoStore) DeleteRelationship(ctx context.Context, key docs.RelKey) error {
	res, err := s.relationships.DeleteOne(ctx, bson.M{"source_id": key.SourceID, "target_id": key.TargetID})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete relationship")
	}
	if res.DeletedCount == 0 {
		return relationshipNotFound(key)
	}
	return nil
}

func (s *MongoStore) ListArchives(ctx context.Context) ([]docs.Archive, error) {
	return findAll[docs.Archive](ctx, s.archives, bson.D{},
		options.Find().SetSort(bson.D{{Key: "upload_date", Value: 1}}))
}

func (s *MongoStore) UpsertArchive(ctx context.Context, a docs.Archive) error {
	if a.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "archive %q has no id", a.FileName)
	}
	_, err := s.archives.ReplaceOne(ctx, bson.M{"_id": a.ID}, a, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "upsert archive %q", a.FileName)
	}
	return nil
}

func (s *MongoStore) ClearArchive(ctx context.Context, fileName string) error {
	cur, err := s.documents.Find(ctx, bson.M{"source_archive": fileName},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "find archive documents")
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "decode archive documents")
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	if err := s.deleteTouching(ctx, ids); err != nil {
		return err
	}
	if _, err := s.documents.DeleteMany(ctx, bson.M{"source_archive": fileName}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete archive documents")
	}
	res, err := s.archives.DeleteMany(ctx, bson.M{"file_name": fileName})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete archive %q", fileName)
	}
	if len(ids) == 0 && res.DeletedCount == 0 {
		return archiveNotFound(fileName)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
