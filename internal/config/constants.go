package config

// Storage backends selectable with DATABASE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Default connection settings
const (
	// DefaultDatabasePath is the default path for the sqlite database
	DefaultDatabasePath = "./bookstore.db"

	// DefaultMongoURI points at a local MongoDB with the bookstore database
	DefaultMongoURI = "mongodb://localhost:27017/bookstore"

	// DefaultMongoDatabase is used when the URI names no database
	DefaultMongoDatabase = "bookstore"
)
