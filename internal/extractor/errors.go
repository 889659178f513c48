package extractor

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
)

var (
	ErrMalformedEvent = errors.New("malformed event")
	ErrEncoding       = errors.New("invalid object key encoding")
	ErrObjectNotFound = errors.New("object not found")
	ErrStorageAccess  = errors.New("storage access failed")
)

// getObjectError wraps a GetObject failure in ErrObjectNotFound when S3
// reports the object (or its bucket) missing and ErrStorageAccess otherwise.
func getObjectError(obj objectRef, err error) error {
	kind := ErrStorageAccess
	if isNotFound(err) {
		kind = ErrObjectNotFound
	}
	return fmt.Errorf("%w: failed to get object %s: %w", kind, obj, err)
}

func deleteObjectError(obj objectRef, err error) error {
	return fmt.Errorf("%w: failed to delete object %s: %w", ErrStorageAccess, obj, err)
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return true
		}
	}
	var reqErr awserr.RequestFailure
	return errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound
}

type objectRef struct {
	bucket string
	key    string
}

func (o objectRef) String() string {
	return fmt.Sprintf("s3://%s/%s", o.bucket, o.key)
}
