package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/Dan9191/grocery-store/internal/common"
	"github.com/Dan9191/grocery-store/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Mongo provides store operations over a MongoDB database
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to uri and verifies the primary is reachable
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", classify(err))
	}
	return &Mongo{client: client, db: client.Database(database)}, nil
}

// EnsureIndexes creates the unique email index on users
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(string(models.Users)).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", classify(err))
	}
	return nil
}

// Ping checks the primary is reachable
func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return classify(err)
	}
	return nil
}

// Close disconnects the client
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// CreateUser inserts a user; a duplicate email yields common.ErrDuplicateAccount
func (m *Mongo) CreateUser(ctx context.Context, user *models.User) error {
	res, err := m.db.Collection(string(models.Users)).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return common.ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", classify(err))
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		user.ID = id
	}
	return nil
}

// FindUserByEmail retrieves a user by exact email
func (m *Mongo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := m.db.Collection(string(models.Users)).
		FindOne(ctx, bson.D{{Key: "email", Value: email}}).
		Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", classify(err))
	}
	return user, nil
}

// Insert stores doc in coll as is
func (m *Mongo) Insert(ctx context.Context, coll models.Collection, doc models.Document) (*models.InsertResult, error) {
	res, err := m.db.Collection(string(coll)).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", coll, classify(err))
	}
	return &models.InsertResult{Acknowledged: res.Acknowledged, InsertedID: res.InsertedID}, nil
}

// Find lists documents in coll matching filter
func (m *Mongo) Find(ctx context.Context, coll models.Collection, filter Filter) ([]models.Document, error) {
	query := bson.D{}
	if filter.Category != "" {
		query = append(query, bson.E{Key: models.FieldCategory, Value: bson.Regex{
			Pattern: "^" + regexp.QuoteMeta(filter.Category) + "$",
			Options: "i",
		}})
	}
	opts := options.Find()
	if filter.ByRatingsDesc {
		opts.SetSort(bson.D{{Key: models.FieldRatings, Value: -1}})
	}

	cursor, err := m.db.Collection(string(coll)).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll, classify(err))
	}
	docs := []models.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", coll, classify(err))
	}
	return docs, nil
}

// FindByID retrieves one document by its ObjectID
func (m *Mongo) FindByID(ctx context.Context, coll models.Collection, id bson.ObjectID) (models.Document, error) {
	var doc models.Document
	err := m.db.Collection(string(coll)).FindOne(ctx, bson.D{{Key: models.FieldID, Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find in %s: %w", coll, classify(err))
	}
	return doc, nil
}

// classify marks connectivity failures as common.ErrStoreUnavailable
func classify(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return err
}
