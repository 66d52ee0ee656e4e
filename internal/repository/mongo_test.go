package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Dan9191/grocery-store/internal/common"
	"github.com/Dan9191/grocery-store/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// setupMongo connects to MONGODB_TEST_URI using a throwaway database.
func setupMongo(t *testing.T) *Mongo {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := NewMongo(ctx, uri, "grocery_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	require.NoError(t, store.EnsureIndexes(ctx))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = store.db.Drop(ctx)
		_ = store.Close(ctx)
	})
	return store
}

func TestMongo_Users(t *testing.T) {
	store := setupMongo(t)
	ctx := context.Background()

	user := &models.User{Name: "A", Email: "a@x.com", PasswordHash: "digest"}
	require.NoError(t, store.CreateUser(ctx, user))
	assert.False(t, user.ID.IsZero())

	err := store.CreateUser(ctx, &models.User{Name: "B", Email: "a@x.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, common.ErrDuplicateAccount)

	found, err := store.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "A", found.Name)
	assert.Equal(t, "digest", found.PasswordHash)

	_, err = store.FindUserByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMongo_Catalog(t *testing.T) {
	store := setupMongo(t)
	ctx := context.Background()

	var salmonID bson.ObjectID
	for _, doc := range []models.Document{
		{"name": "a", "category": "Salmon", "ratings": 4.5},
		{"name": "b", "category": "salmon", "ratings": 5},
		{"name": "c", "category": "Tuna", "ratings": 3},
		{"name": "d", "category": "Sal.on", "ratings": 1},
	} {
		res, err := store.Insert(ctx, models.Products, doc)
		require.NoError(t, err)
		if doc["name"] == "a" {
			salmonID = res.InsertedID.(bson.ObjectID)
		}
	}

	byCategory, err := store.Find(ctx, models.Products, Filter{Category: "SALMON"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	escaped, err := store.Find(ctx, models.Products, Filter{Category: "Sal.on"})
	require.NoError(t, err)
	assert.Len(t, escaped, 1, "category is matched literally")

	sorted, err := store.Find(ctx, models.Products, Filter{ByRatingsDesc: true})
	require.NoError(t, err)
	require.Len(t, sorted, 4)
	assert.Equal(t, "b", sorted[0]["name"])
	assert.Equal(t, "d", sorted[3]["name"])

	doc, err := store.FindByID(ctx, models.Products, salmonID)
	require.NoError(t, err)
	assert.Equal(t, "a", doc["name"])

	_, err = store.FindByID(ctx, models.Products, bson.NewObjectID())
	assert.ErrorIs(t, err, common.ErrNotFound)
}
