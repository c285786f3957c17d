package store

import (
	"context"
	"fmt"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoInserter struct {
	client *mongo.Client
	db     *mongo.Database
}

// DialMongo connects to MongoDB and verifies the connection with a ping.
func DialMongo(ctx context.Context, uri, database string) (Inserter, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &mongoInserter{client: client, db: client.Database(database)}, nil
}

func (m *mongoInserter) InsertOne(ctx context.Context, collection string, doc bson.D) (string, error) {
	res, err := m.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (m *mongoInserter) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// redactURI hides the password of a connection string for logs and errors.
func redactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
