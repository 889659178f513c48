package types

type S3ObjectInfo struct {
	Bucket string
	Key    string
}

// S3ObjectMetadata is the subset of object metadata the extractor consumes.
type S3ObjectMetadata struct {
	ETag          string
	ContentLength int64
	ContentType   string
}
