// Package s3 provides an S3 implementation of the index.Store interface.
//
// The bundle lives in a single object. S3 object writes are atomic, so a
// reader always sees either the previous build or the new one.
//
// # Usage
//
//	store, err := s3.NewStoreFromRegion(ctx, "my-bucket", "recall/index.bundle", "us-east-1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bundle, err := store.Load(ctx)
//
// Credentials resolve through the default AWS chain (environment,
// shared config, instance metadata).
package s3
