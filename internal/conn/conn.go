// Package conn holds optional bootstrap helpers for callers that don't
// already manage their own connections. The facade itself only borrows
// handles; nothing in here is required to use it.
package conn

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
}

// OpenSQLite opens (or creates) a SQLite database file and returns the
// connection.
func OpenSQLite(dbFilePath string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dbFilePath), gormConfig())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

func OpenPostgres(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

func OpenMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

// OpenMongo connects to the given URI and returns the named database handle.
// The caller owns the underlying client and its shutdown.
func OpenMongo(ctx context.Context, uri, database string) *mongo.Database {
	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	return client.Database(database)
}
