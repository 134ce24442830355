package config

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"food-delivery-admin/models"
)

// InitDB opens the SQLite document store and migrates every collection table.
func InitDB(cfg Config) (*gorm.DB, error) {
	return OpenSQLite(cfg.SQLitePath)
}

func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all collections
	err = db.AutoMigrate(
		&models.Address{},
		&models.Card{},
		&models.Category{},
		&models.Banner{},
		&models.FreeFoodRequest{},
		&models.HelpRequest{},
		&models.Order{},
		&models.User{},
		&models.ChatStatus{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.Operator{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// InitMongo connects to MongoDB and returns the configured database.
func InitMongo(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, client.Database(cfg.MongoDB), nil
}
