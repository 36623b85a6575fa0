package config

// Default storage paths
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./causeway.db"

	// DefaultCacheDir is the default directory for the file cache backend
	DefaultCacheDir = "./storage/cache"

	// DefaultLogDir is the default directory for daily log files
	DefaultLogDir = "./logs"
)
