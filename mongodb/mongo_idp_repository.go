package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vigil-iam/vigil/domain"
)

// IdPRepositoryMongo implements domain.IdentityProviderRepository using
// MongoDB. Provider provisioning is owned elsewhere; the registries only
// resolve references.
type IdPRepositoryMongo struct {
	collection *mongo.Collection
}

// NewIdPRepository creates the identity provider repository.
func NewIdPRepository(db *mongo.Database) *IdPRepositoryMongo {
	return &IdPRepositoryMongo{
		collection: db.Collection(IdPsCollection),
	}
}

func (r *IdPRepositoryMongo) FindByID(ctx context.Context, id string) (*domain.IdentityProvider, error) {
	var idp domain.IdentityProvider
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&idp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &idp, nil
}
