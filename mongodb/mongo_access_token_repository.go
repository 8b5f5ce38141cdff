package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// AccessTokenRepositoryMongo implements domain.AccessTokenRepository over
// the token collection the gateway nodes write to. This core only counts.
type AccessTokenRepositoryMongo struct {
	collection *mongo.Collection
}

// NewAccessTokenRepository creates the access token repository.
func NewAccessTokenRepository(db *mongo.Database) *AccessTokenRepositoryMongo {
	return &AccessTokenRepositoryMongo{
		collection: db.Collection(AccessTokensCollection),
	}
}

func (r *AccessTokenRepositoryMongo) CountByClientID(ctx context.Context, clientID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"client": clientID})
}
