// Package mongodb is the MongoDB credential store.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// DB wraps a connected client and the database holding the users collection.
type DB struct {
	Client *mongo.Client
	db     *mongo.Database
}

var _ domain.Database = (*DB)(nil)

// New connects to uri and selects database.
func New(ctx context.Context, uri, database string) (*DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &DB{Client: client, db: client.Database(database)}, nil
}

// Migrate ensures the unique email index and the token lookup indexes.
func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "verifyToken", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("verify_token"),
		},
		{
			Keys:    bson.D{{Key: "forgotPasswordToken", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("forgot_password_token"),
		},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.Client.Disconnect(ctx)
}

// Users returns the user repository.
func (d *DB) Users() domain.UserRepository {
	return NewUserRepository(d.db.Collection(usersCollection))
}
