package filestore

import "os"

// Provider identifies the file storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"
)

// Environment variables read by FromEnv.
const (
	EnvEndpoint  = "LITEDB_S3_ENDPOINT"
	EnvAccessKey = "LITEDB_S3_ACCESS_KEY"
	EnvSecretKey = "LITEDB_S3_SECRET_KEY"
	EnvBucket    = "LITEDB_S3_BUCKET"
)

// Config holds all settings needed to connect to a file storage backend.
type Config struct {
	// Provider is the storage backend (e.g. ProviderMinIO).
	Provider Provider

	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends (e.g. AWS S3).
	// Leave empty for MinIO.
	Region string

	// DefaultBucket is where snapshots go when the caller names no bucket.
	DefaultBucket string
}

// DefaultConfig returns a sensible local-dev config for MinIO.
func DefaultConfig(endpoint, accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		UseSSL:    false,
	}
}

// FromEnv returns DefaultConfig filled from the LITEDB_S3_* variables.
// Unset variables leave the field empty.
func FromEnv() *Config {
	cfg := DefaultConfig(os.Getenv(EnvEndpoint), os.Getenv(EnvAccessKey), os.Getenv(EnvSecretKey))
	cfg.DefaultBucket = os.Getenv(EnvBucket)
	return cfg
}

// Bucket returns bucket, or DefaultBucket when bucket is empty.
func (c *Config) Bucket(bucket string) string {
	if bucket != "" {
		return bucket
	}
	return c.DefaultBucket
}
