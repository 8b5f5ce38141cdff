package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vigil-iam/vigil/domain"
)

// ScopeRepositoryMongo implements domain.ScopeRepository using MongoDB.
type ScopeRepositoryMongo struct {
	collection *mongo.Collection
}

// NewScopeRepository creates the scope repository and ensures the per-domain
// key uniqueness index.
func NewScopeRepository(ctx context.Context, db *mongo.Database) (*ScopeRepositoryMongo, error) {
	repo := &ScopeRepositoryMongo{
		collection: db.Collection(ScopesCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "domain", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, err := repo.collection.Indexes().CreateMany(timeoutCtx, indexModels); err != nil {
		log.Warn().Err(err).Msg("issue creating indexes for scopes collection")
	}
	return repo, nil
}

func (r *ScopeRepositoryMongo) FindByID(ctx context.Context, id string) (*domain.Scope, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ScopeRepositoryMongo) FindByDomain(ctx context.Context, domainID string) ([]*domain.Scope, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"domain": domainID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	scopes := []*domain.Scope{}
	if err := cursor.All(ctx, &scopes); err != nil {
		return nil, err
	}
	return scopes, nil
}

func (r *ScopeRepositoryMongo) FindByDomainAndKey(ctx context.Context, domainID, key string) (*domain.Scope, error) {
	return r.findOne(ctx, bson.M{"domain": domainID, "key": key})
}

func (r *ScopeRepositoryMongo) Create(ctx context.Context, s *domain.Scope) (*domain.Scope, error) {
	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ScopeRepositoryMongo) Update(ctx context.Context, s *domain.Scope) (*domain.Scope, error) {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (r *ScopeRepositoryMongo) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ScopeRepositoryMongo) findOne(ctx context.Context, filter bson.M) (*domain.Scope, error) {
	var s domain.Scope
	if err := r.collection.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
