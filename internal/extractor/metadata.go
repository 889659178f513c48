package extractor

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/jdwit/s3-metadata-extractor/internal/types"
)

// decodeKey undoes the form encoding S3 applies to keys in event
// notifications (spaces arrive as '+').
func decodeKey(raw string) (string, error) {
	key, err := url.QueryUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrEncoding, raw, err)
	}
	if !utf8.ValidString(key) {
		return "", fmt.Errorf("%w: %q does not decode to UTF-8 text", ErrEncoding, raw)
	}
	return key, nil
}

// encodeKey is the inverse of decodeKey, used to build notifications for
// objects found by listing.
func encodeKey(key string) string {
	return url.QueryEscape(key)
}

// normalizePath collapses repeated separators and drops a trailing one. Dot
// segments are kept as they are part of the key.
func normalizePath(key string) string {
	if key == "" {
		return ""
	}
	var segments []string
	for _, s := range strings.Split(key, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	joined := strings.Join(segments, "/")
	if strings.HasPrefix(key, "/") {
		return "/" + joined
	}
	return joined
}

func objectMetadata(out *s3.GetObjectOutput) types.S3ObjectMetadata {
	return types.S3ObjectMetadata{
		ETag:          strings.Trim(aws.StringValue(out.ETag), `"`),
		ContentLength: aws.Int64Value(out.ContentLength),
		ContentType:   aws.StringValue(out.ContentType),
	}
}

func extractMetadata(key string, meta types.S3ObjectMetadata) types.ExtractedMetadata {
	size := meta.ContentLength
	if size < 0 {
		size = 0
	}
	return types.NewExtractedMetadata(
		normalizePath(key),
		meta.ETag,
		strconv.FormatInt(size, 10),
		meta.ContentType,
	)
}
