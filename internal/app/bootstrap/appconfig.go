// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, request limits). AppConfig is everything specific to
// the club: database, sessions, file storage for review uploads, Google
// sign-in, and the audit trail.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: clubhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// File storage for uploaded book reviews
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads/reviews")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files/reviews")
	StorageS3Region  string // AWS region (only used if StorageType is "s3")
	StorageS3Bucket  string // S3 bucket name
	StorageS3Prefix  string // Key prefix (e.g., "reviews/")

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks (e.g., "https://merrittsmen.org")
	BaseURL string

	// Audit logging destinations per category: "all" (db+log), "db",
	// "log", or "off"
	AuditLogAuth    string
	AuditLogAdmin   string
	AuditLogContent string

	// AdminEmail names the account promoted to admin on startup so a
	// fresh deployment has someone who can approve applications.
	AdminEmail string
}
