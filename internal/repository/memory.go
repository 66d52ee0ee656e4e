package repository

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/grocery-store/internal/common"
	"github.com/Dan9191/grocery-store/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Memory is an in-process store that follows Mongo query semantics for the
// filters and sorts the catalog uses.
// Documents are kept in insertion order.
type Memory struct {
	mu    sync.RWMutex
	users map[string]*models.User
	docs  map[models.Collection][]models.Document
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]*models.User),
		docs:  make(map[models.Collection][]models.Document),
	}
}

func (s *Memory) Ping(context.Context) error { return nil }

func (s *Memory) Close(context.Context) error { return nil }

func (s *Memory) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Email]; exists {
		return common.ErrDuplicateAccount
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	stored := *user
	s.users[user.Email] = &stored
	return nil
}

func (s *Memory) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[email]
	if !exists {
		return nil, common.ErrNotFound
	}
	found := *user
	return &found, nil
}

// UserCount returns the number of stored users
func (s *Memory) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Memory) Insert(ctx context.Context, coll models.Collection, doc models.Document) (*models.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	stored := maps.Clone(doc)
	if stored == nil {
		stored = models.Document{}
	}
	if _, ok := stored[models.FieldID]; !ok {
		stored[models.FieldID] = bson.NewObjectID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.docs[coll] {
		if sameID(existing[models.FieldID], stored[models.FieldID]) {
			return nil, fmt.Errorf("failed to insert into %s: duplicate _id %v", coll, stored[models.FieldID])
		}
	}
	s.docs[coll] = append(s.docs[coll], stored)
	return &models.InsertResult{Acknowledged: true, InsertedID: stored[models.FieldID]}, nil
}

func (s *Memory) Find(ctx context.Context, coll models.Collection, filter Filter) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	s.mu.RLock()
	docs := []models.Document{}
	for _, doc := range s.docs[coll] {
		if filter.Category != "" && !categoryMatches(doc[models.FieldCategory], filter.Category) {
			continue
		}
		docs = append(docs, maps.Clone(doc))
	}
	s.mu.RUnlock()

	if filter.ByRatingsDesc {
		sort.SliceStable(docs, func(i, j int) bool {
			return compareBSON(docs[i][models.FieldRatings], docs[j][models.FieldRatings]) > 0
		})
	}
	return docs, nil
}

func (s *Memory) FindByID(ctx context.Context, coll models.Collection, id bson.ObjectID) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs[coll] {
		if stored, ok := doc[models.FieldID].(bson.ObjectID); ok && stored == id {
			return maps.Clone(doc), nil
		}
	}
	return nil, common.ErrNotFound
}

// categoryMatches mirrors an anchored case-insensitive regex, which in
// MongoDB also matches any string element of an array field.
func categoryMatches(value any, category string) bool {
	switch v := value.(type) {
	case string:
		return strings.EqualFold(v, category)
	case []any:
		for _, elem := range v {
			if s, ok := elem.(string); ok && strings.EqualFold(s, category) {
				return true
			}
		}
	}
	return false
}

// typeRank follows the BSON comparison order, so a descending sort puts
// strings above numbers and leaves missing or null values last.
func typeRank(v any) int {
	if _, ok := number(v); ok {
		return 2
	}
	switch v.(type) {
	case nil:
		return 1
	case string:
		return 3
	case map[string]any, models.Document, bson.M, bson.D:
		return 4
	case []any, bson.A:
		return 5
	case []byte:
		return 6
	case bson.ObjectID:
		return 7
	case bool:
		return 8
	case time.Time, bson.DateTime:
		return 9
	}
	return 10
}

// compareBSON orders two field values the way a Mongo sort does. Values of
// the same kind that are not numbers or strings compare equal.
func compareBSON(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case 2:
		na, _ := number(a)
		nb, _ := number(b)
		return cmp.Compare(na, nb)
	case 3:
		return strings.Compare(a.(string), b.(string))
	}
	return 0
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func sameID(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}
