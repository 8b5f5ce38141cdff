package mongodb

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vigil-iam/vigil/domain"
)

// ScopeApprovalRepositoryMongo implements domain.ScopeApprovalRepository
// using MongoDB.
type ScopeApprovalRepositoryMongo struct {
	collection *mongo.Collection
}

// NewScopeApprovalRepository creates the consent approval repository.
func NewScopeApprovalRepository(ctx context.Context, db *mongo.Database) (*ScopeApprovalRepositoryMongo, error) {
	repo := &ScopeApprovalRepositoryMongo{
		collection: db.Collection(ScopeApprovalsCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "domain", Value: 1}, {Key: "scope", Value: 1}},
		},
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, err := repo.collection.Indexes().CreateMany(timeoutCtx, indexModels); err != nil {
		log.Warn().Err(err).Msg("issue creating indexes for scope approvals collection")
	}
	return repo, nil
}

func (r *ScopeApprovalRepositoryMongo) FindByDomainAndScope(ctx context.Context, domainID, scope string) ([]*domain.ScopeApproval, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"domain": domainID, "scope": scope})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	approvals := []*domain.ScopeApproval{}
	if err := cursor.All(ctx, &approvals); err != nil {
		return nil, err
	}
	return approvals, nil
}

// DeleteByDomainAndScope removes every recorded consent for the scope in the
// domain. Deleting zero documents is not an error: the cascading delete must
// stay idempotent.
func (r *ScopeApprovalRepositoryMongo) DeleteByDomainAndScope(ctx context.Context, domainID, scope string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"domain": domainID, "scope": scope})
	return err
}
