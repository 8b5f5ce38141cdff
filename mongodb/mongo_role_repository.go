package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vigil-iam/vigil/domain"
)

// RoleRepositoryMongo implements domain.RoleRepository using MongoDB.
type RoleRepositoryMongo struct {
	collection *mongo.Collection
}

// NewRoleRepository creates the role repository.
func NewRoleRepository(ctx context.Context, db *mongo.Database) (*RoleRepositoryMongo, error) {
	repo := &RoleRepositoryMongo{
		collection: db.Collection(RolesCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "domain", Value: 1}},
		},
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, err := repo.collection.Indexes().CreateMany(timeoutCtx, indexModels); err != nil {
		log.Warn().Err(err).Msg("issue creating indexes for roles collection")
	}
	return repo, nil
}

func (r *RoleRepositoryMongo) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	var role domain.Role
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryMongo) FindByDomain(ctx context.Context, domainID string) ([]*domain.Role, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"domain": domainID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	roles := []*domain.Role{}
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *RoleRepositoryMongo) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	if _, err := r.collection.InsertOne(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (r *RoleRepositoryMongo) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": role.ID}, role)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	return role, nil
}

func (r *RoleRepositoryMongo) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
