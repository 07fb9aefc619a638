// Package s3 persists engine snapshots to an S3 bucket.
//
//	store, err := s3.New(ctx, "vecbridge-data",
//	    s3.WithPrefix("instances/a/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// Large snapshots are written with multipart uploads. WithEndpoint points the
// store at an S3-compatible service.
package s3
