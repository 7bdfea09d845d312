package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/patil-piyush/OceanGuard/models"
)

// AuthorityStore reads the authority records owned by the account service.
// The only write this API performs is the availability toggle.
type AuthorityStore struct {
	col *mongo.Collection
}

func NewAuthorityStore(col *mongo.Collection) *AuthorityStore {
	return &AuthorityStore{col: col}
}

// ListAvailable snapshots every authority currently taking assignments.
func (s *AuthorityStore) ListAvailable(ctx context.Context) ([]models.Authority, error) {
	cur, err := s.col.Find(ctx, bson.M{"is_available": true})
	if err != nil {
		return nil, fmt.Errorf("list authorities: %w", err)
	}
	defer cur.Close(ctx)

	authorities := make([]models.Authority, 0)
	if err := cur.All(ctx, &authorities); err != nil {
		return nil, fmt.Errorf("decode authorities: %w", err)
	}
	return authorities, nil
}

// SetAvailability flips the availability flag. Returns the matched count so
// the caller can surface unknown authorities.
func (s *AuthorityStore) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) (int64, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_available": available}},
	)
	if err != nil {
		return 0, fmt.Errorf("set availability: %w", err)
	}
	return res.MatchedCount, nil
}
