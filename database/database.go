package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var client *mongo.Client
var db *mongo.Database

// Connect establishes a singleton MongoDB connection.
func Connect(ctx context.Context) error {
	if client != nil && db != nil {
		return nil
	}

	cfg, reason := resolveConfig()

	start := time.Now()
	log.Printf("mongo: connecting uri=%s db=%s (%s)", redactURI(cfg.URI), cfg.DBName, reason)

	dctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	c, err := mongo.Connect(dctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	if err = c.Ping(dctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("mongo ping: %w", err)
	}

	client = c
	db = c.Database(cfg.DBName)

	if err := createIndexes(); err != nil {
		log.Printf("mongo: index creation warnings: %v", err)
	}

	log.Printf("mongo: connected ok in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	defer func() { client, db = nil, nil }()
	return client.Disconnect(ctx)
}

func Client() *mongo.Client { return client }

func Col(name string) *mongo.Collection {
	if db == nil {
		panic("database not connected: call database.Connect first")
	}
	return db.Collection(name)
}

// --- internal ---

type config struct {
	URI    string
	DBName string
}

// resolveConfig returns the chosen config and a human-readable reason.
func resolveConfig() (config, string) {
	dbname := getenv("MONGO_DB", "oceanguard")

	explicit := strings.TrimSpace(os.Getenv("MONGO_URI"))
	local := getenv("MONGO_URI_LOCAL", "mongodb://localhost:27017")

	if explicit != "" {
		return config{URI: explicit, DBName: dbname}, "MONGO_URI present"
	}
	return config{URI: local, DBName: dbname}, "fallback to local"
}

func createIndexes() error {
	if db == nil {
		return errors.New("db is nil")
	}
	ctxIdx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []string
	reports := Col("reports")

	if _, err := reports.Indexes().CreateOne(ctxIdx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}); err != nil {
		errs = append(errs, "created_at: "+err.Error())
	}
	if _, err := reports.Indexes().CreateOne(ctxIdx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		errs = append(errs, "user_id: "+err.Error())
	}
	// Serves the pending-for-authority view: status + membership probe.
	if _, err := reports.Indexes().CreateOne(ctxIdx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "notified_authorities", Value: 1}},
	}); err != nil {
		errs = append(errs, "status,notified_authorities: "+err.Error())
	}
	if _, err := reports.Indexes().CreateOne(ctxIdx, mongo.IndexModel{
		Keys: bson.D{{Key: "assigned_authority", Value: 1}, {Key: "status", Value: 1}},
	}); err != nil {
		errs = append(errs, "assigned_authority,status: "+err.Error())
	}

	authorities := Col("authorities")
	if _, err := authorities.Indexes().CreateOne(ctxIdx, mongo.IndexModel{
		Keys: bson.D{{Key: "is_available", Value: 1}},
	}); err != nil {
		errs = append(errs, "is_available: "+err.Error())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// --- utils ---

func redactURI(raw string) string {
	if raw == "" || !strings.Contains(raw, "://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.UserPassword("****", "****")
	return u.String()
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
