package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vigil-iam/vigil/domain"
)

// DomainRepositoryMongo implements domain.DomainRepository using MongoDB.
type DomainRepositoryMongo struct {
	collection *mongo.Collection
}

// NewDomainRepository creates the domain repository.
func NewDomainRepository(db *mongo.Database) *DomainRepositoryMongo {
	return &DomainRepositoryMongo{
		collection: db.Collection(DomainsCollection),
	}
}

func (r *DomainRepositoryMongo) FindByID(ctx context.Context, id string) (*domain.Domain, error) {
	var d domain.Domain
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DomainRepositoryMongo) FindAll(ctx context.Context) ([]*domain.Domain, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	domains := []*domain.Domain{}
	if err := cursor.All(ctx, &domains); err != nil {
		return nil, err
	}
	return domains, nil
}

func (r *DomainRepositoryMongo) Create(ctx context.Context, d *domain.Domain) (*domain.Domain, error) {
	if _, err := r.collection.InsertOne(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DomainRepositoryMongo) Update(ctx context.Context, d *domain.Domain) (*domain.Domain, error) {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (r *DomainRepositoryMongo) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
