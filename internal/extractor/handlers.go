package extractor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/jdwit/s3-metadata-extractor/internal/logging"
	"github.com/jdwit/s3-metadata-extractor/internal/types"
)

// concurrency is the max number of objects processed at once in cli mode
const concurrency = 10

// HandleLambdaEvent is the Lambda entry point.
func (me *MetadataExtractor) HandleLambdaEvent(ctx context.Context, event events.S3Event) (string, error) {
	return me.Handle(event, me.logger.ForRequest(logging.RequestID(ctx)))
}

// HandleS3URL processes every object under an s3://bucket/prefix URL, each as
// its own single-record notification.
func (me *MetadataExtractor) HandleS3URL(url string) error {
	bucket, prefix, err := parseS3Url(url)
	if err != nil {
		return fmt.Errorf("failed to parse S3 URL: %w", err)
	}

	var s3Objects []types.S3ObjectInfo
	var continuationToken *string
	for {
		resp, err := me.s3Client.ListObjectsV2(&s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to list objects: %w", ErrStorageAccess, err)
		}

		for _, item := range resp.Contents {
			s3Objects = append(s3Objects, types.S3ObjectInfo{
				Bucket: bucket,
				Key:    aws.StringValue(item.Key),
			})
		}

		if resp.IsTruncated == nil || !*resp.IsTruncated {
			break
		}
		continuationToken = resp.NextContinuationToken
	}

	if len(s3Objects) == 0 {
		log.Printf("no objects found under s3://%s/%s", bucket, prefix)
		return nil
	}

	return me.processS3Objects(s3Objects)
}

func (me *MetadataExtractor) processS3Objects(s3Objects []types.S3ObjectInfo) error {
	errs := make(chan error, len(s3Objects)) // buffered channel for errors
	var wg sync.WaitGroup
	concurrent := make(chan int, concurrency) // buffered channel for concurrency

	for _, s3obj := range s3Objects {
		wg.Add(1)
		concurrent <- 1
		go func(s3obj types.S3ObjectInfo) {
			defer func() {
				wg.Done()
				<-concurrent
			}()
			_, err := me.Handle(newS3Event(s3obj), me.logger.ForRequest(uuid.NewString()))
			if err != nil {
				errs <- fmt.Errorf("error processing s3://%s/%s: %w", s3obj.Bucket, s3obj.Key, err)
			}
		}(s3obj)
	}

	go func() {
		wg.Wait()
		close(errs)
	}()

	var errorList []error
	for err := range errs {
		if err != nil {
			errorList = append(errorList, err)
		}
	}

	if len(errorList) > 0 {
		return fmt.Errorf("encountered errors: %v", errorList)
	}

	return nil
}

// newS3Event builds the notification S3 would deliver for obj, with the key
// encoded the same way.
func newS3Event(obj types.S3ObjectInfo) events.S3Event {
	return events.S3Event{
		Records: []events.S3EventRecord{{
			EventSource: "aws:s3",
			EventName:   "ObjectCreated:Put",
			S3: events.S3Entity{
				Bucket: events.S3Bucket{Name: obj.Bucket},
				Object: events.S3Object{Key: encodeKey(obj.Key)},
			},
		}},
	}
}

func parseS3Url(url string) (bucket string, prefix string, err error) {
	if !strings.HasPrefix(url, "s3://") {
		return "", "", fmt.Errorf("invalid S3 URL, missing 's3://' prefix")
	}
	trimmedS3URL := strings.TrimPrefix(url, "s3://")
	splitPos := strings.Index(trimmedS3URL, "/")
	if splitPos == -1 {
		return "", "", fmt.Errorf("invalid S3 URL, no '/' found after bucket name")
	}
	bucket = trimmedS3URL[:splitPos]
	prefix = trimmedS3URL[splitPos+1:]
	return bucket, prefix, nil
}
