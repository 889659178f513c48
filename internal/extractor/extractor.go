package extractor

import (
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/jdwit/s3-metadata-extractor/internal/config"
	"github.com/jdwit/s3-metadata-extractor/internal/logging"
	"github.com/jdwit/s3-metadata-extractor/internal/targets"
	"github.com/jdwit/s3-metadata-extractor/internal/types"
)

// ResultOk is returned by a successful invocation.
const ResultOk = "Ok"

type S3Api interface {
	GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error)
	DeleteObject(input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error)
}

type MetadataExtractor struct {
	s3Client S3Api
	logger   *logging.Logger
	config   Config
}

type Config struct {
	DeleteAfterProcessing bool
	Targets               []targets.Target
}

func NewMetadataExtractor(sess *session.Session, cfg config.Config, logger *logging.Logger) (*MetadataExtractor, error) {
	t, err := targets.GetTargets(cfg.Targets, sess)
	if err != nil {
		return nil, err
	}

	return New(s3.New(sess), logger, Config{
		DeleteAfterProcessing: cfg.DeleteAfterProcessing,
		Targets:               t,
	}), nil
}

func New(s3Client S3Api, logger *logging.Logger, cfg Config) *MetadataExtractor {
	return &MetadataExtractor{
		s3Client: s3Client,
		logger:   logger,
		config:   cfg,
	}
}

// Handle processes the first record of event: it logs the object's metadata
// and then deletes the object unless deletion is disabled. Further records
// are ignored.
func (me *MetadataExtractor) Handle(event events.S3Event, sink logging.Sink) (string, error) {
	if len(event.Records) == 0 {
		return "", fmt.Errorf("%w: event contains no records", ErrMalformedEvent)
	}
	record := event.Records[0]

	bucket := record.S3.Bucket.Name
	if bucket == "" || record.S3.Object.Key == "" {
		return "", fmt.Errorf("%w: record is missing bucket name or object key", ErrMalformedEvent)
	}
	key, err := decodeKey(record.S3.Object.Key)
	if err != nil {
		return "", err
	}
	obj := objectRef{bucket: bucket, key: key}

	sink.Printf("--- processing file: %s/%s ---", bucket, key)

	out, err := me.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", getObjectError(obj, err)
	}
	// The body is never read, only released.
	if out.Body != nil {
		defer out.Body.Close()
	}

	metadata := extractMetadata(key, objectMetadata(out))
	sink.Printf("  METADATA:")
	for _, f := range metadata.Fields {
		sink.Printf("  %s => %s", f.Key, f.Value)
	}

	me.sendToTargets(types.MetadataEntry{
		Bucket:    bucket,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}, sink)

	if !me.config.DeleteAfterProcessing {
		sink.Printf("--- finished extracting from file, deletion disabled ---")
		return ResultOk, nil
	}

	_, err = me.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", deleteObjectError(obj, err)
	}
	sink.Printf("--- finished extracting from and deleting file ---")

	return ResultOk, nil
}

func (me *MetadataExtractor) sendToTargets(entry types.MetadataEntry, sink logging.Sink) {
	for _, t := range me.config.Targets {
		if err := t.Send(entry); err != nil {
			sink.Printf("warning: could not send metadata to target: %v", err)
		}
	}
}
