package mongodb

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/v2/mongo/otelmongo"
)

const (
	DomainsCollection        = "am_domains"         // Tenant definitions
	ClientsCollection        = "am_clients"         // OAuth2/OIDC client registrations
	ScopesCollection         = "am_scopes"          // Scope definitions
	RolesCollection          = "am_roles"           // Roles and their permission keys
	ScopeApprovalsCollection = "am_scope_approvals" // End-user consent records
	AccessTokensCollection   = "am_access_tokens"   // Issued tokens (written by the gateway)
	IdPsCollection           = "am_identity_providers"
)

// Connect opens the MongoDB connection used by every repository and returns
// the database handle. Commands are instrumented with the otel monitor.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	log.Info().Str("db", dbName).Msg("connecting to MongoDB")

	clientOptions := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetMonitor(otelmongo.NewMonitor())

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	return client.Database(dbName), nil
}
