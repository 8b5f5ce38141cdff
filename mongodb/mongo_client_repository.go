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

// ClientRepositoryMongo implements domain.ClientRepository using MongoDB.
type ClientRepositoryMongo struct {
	collection *mongo.Collection
}

// NewClientRepository creates the client repository and ensures its indexes,
// including the per-domain client_id uniqueness constraint.
func NewClientRepository(ctx context.Context, db *mongo.Database) (*ClientRepositoryMongo, error) {
	repo := &ClientRepositoryMongo{
		collection: db.Collection(ClientsCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "domain", Value: 1}, {Key: "client_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "domain", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "identities", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "certificate", Value: 1}},
		},
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, err := repo.collection.Indexes().CreateMany(timeoutCtx, indexModels); err != nil {
		log.Warn().Err(err).Msg("issue creating indexes for clients collection")
	}
	return repo, nil
}

func (r *ClientRepositoryMongo) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ClientRepositoryMongo) FindByClientIDAndDomain(ctx context.Context, clientID, domainID string) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"client_id": clientID, "domain": domainID})
}

func (r *ClientRepositoryMongo) FindByDomain(ctx context.Context, domainID string) ([]*domain.Client, error) {
	return r.find(ctx, bson.M{"domain": domainID})
}

func (r *ClientRepositoryMongo) FindPageByDomain(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Client], error) {
	return r.findPage(ctx, bson.M{"domain": domainID}, page, size)
}

func (r *ClientRepositoryMongo) FindByIdentityProvider(ctx context.Context, identityProviderID string) ([]*domain.Client, error) {
	return r.find(ctx, bson.M{"identities": identityProviderID})
}

func (r *ClientRepositoryMongo) FindByCertificate(ctx context.Context, certificate string) ([]*domain.Client, error) {
	return r.find(ctx, bson.M{"certificate": certificate})
}

func (r *ClientRepositoryMongo) FindByDomainAndExtensionGrant(ctx context.Context, domainID, extensionGrant string) ([]*domain.Client, error) {
	return r.find(ctx, bson.M{"domain": domainID, "authorized_grant_types": extensionGrant})
}

func (r *ClientRepositoryMongo) FindAll(ctx context.Context) ([]*domain.Client, error) {
	return r.find(ctx, bson.M{})
}

func (r *ClientRepositoryMongo) FindPage(ctx context.Context, page, size int) (*domain.Page[*domain.Client], error) {
	return r.findPage(ctx, bson.M{}, page, size)
}

func (r *ClientRepositoryMongo) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	if _, err := r.collection.InsertOne(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ClientRepositoryMongo) Update(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *ClientRepositoryMongo) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClientRepositoryMongo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *ClientRepositoryMongo) CountByDomain(ctx context.Context, domainID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"domain": domainID})
}

func (r *ClientRepositoryMongo) findOne(ctx context.Context, filter bson.M) (*domain.Client, error) {
	var c domain.Client
	if err := r.collection.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepositoryMongo) find(ctx context.Context, filter bson.M) ([]*domain.Client, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := []*domain.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepositoryMongo) findPage(ctx context.Context, filter bson.M, page, size int) (*domain.Page[*domain.Client], error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find().
		SetSkip(int64(page) * int64(size)).
		SetLimit(int64(size)).
		SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := []*domain.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, err
	}

	return &domain.Page[*domain.Client]{
		Data:        clients,
		CurrentPage: page,
		PageSize:    size,
		TotalCount:  total,
	}, nil
}
