package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned when a key does not exist in the store.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore stores opaque blobs under slash-separated keys
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	// List returns every key under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// S3Config holds configuration for the S3 and MinIO stores
type S3Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}
