package storage

import "context"

// PutOptions carries the metadata attached to a stored object.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// ObjectStore is the write side of the object-storage collaborator. Backup
// artifacts and rating images go through it; tests swap in a fake.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body []byte, opts PutOptions) error
}
