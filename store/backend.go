package store

import (
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
)

// Backend is the database every collection of the process lives in.
// Exactly one of the two handles is set.
type Backend struct {
	Gorm  *gorm.DB
	Mongo *mongo.Database
}

// Open returns the collection name on the configured backend.
func Open[T any, P DocPtr[T]](b Backend, name string, sort Sort) Collection[T] {
	if b.Mongo != nil {
		return NewMongo[T, P](b.Mongo, name, sort)
	}
	return NewGorm[T, P](b.Gorm, name, sort)
}
