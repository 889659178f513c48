package extractor

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
)

type fakeObject struct {
	etag        string
	size        int64
	contentType *string
}

type trackedBody struct {
	io.Reader
	closed bool
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

// fakeS3 is an in-memory bucket store. Every call is appended to timeline,
// which the tests share with their log sink to check ordering.
type fakeS3 struct {
	mu        sync.Mutex
	objects   map[string]fakeObject
	timeline  *[]string
	bodies    []*trackedBody
	getErr    error
	deleteErr error
	pageSize  int
}

func newFakeS3(timeline *[]string) *fakeS3 {
	if timeline == nil {
		timeline = &[]string{}
	}
	return &fakeS3{objects: map[string]fakeObject{}, timeline: timeline, pageSize: 2}
}

func (f *fakeS3) put(bucket, key string, obj fakeObject) {
	f.objects[bucket+"/"+key] = obj
}

func (f *fakeS3) calls(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range *f.timeline {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeS3) GetObject(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := aws.StringValue(in.Bucket) + "/" + aws.StringValue(in.Key)
	*f.timeline = append(*f.timeline, "GetObject "+id)
	if f.getErr != nil {
		return nil, f.getErr
	}
	obj, ok := f.objects[id]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}
	body := &trackedBody{Reader: strings.NewReader("content")}
	f.bodies = append(f.bodies, body)
	return &s3.GetObjectOutput{
		Body:          body,
		ETag:          aws.String(`"` + obj.etag + `"`),
		ContentLength: aws.Int64(obj.size),
		ContentType:   obj.contentType,
	}, nil
}

func (f *fakeS3) DeleteObject(in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := aws.StringValue(in.Bucket) + "/" + aws.StringValue(in.Key)
	*f.timeline = append(*f.timeline, "DeleteObject "+id)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	delete(f.objects, id)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(in *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucket := aws.StringValue(in.Bucket)
	*f.timeline = append(*f.timeline, "ListObjectsV2 "+bucket+"/"+aws.StringValue(in.Prefix))

	var keys []string
	for id := range f.objects {
		key, ok := strings.CutPrefix(id, bucket+"/")
		if ok && strings.HasPrefix(key, aws.StringValue(in.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		var err error
		if start, err = strconv.Atoi(*in.ContinuationToken); err != nil {
			return nil, fmt.Errorf("bad token: %w", err)
		}
	}
	end := min(start+f.pageSize, len(keys))

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, &s3.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

// recordingSink appends log lines to the shared timeline.
type recordingSink struct {
	mu       *sync.Mutex
	timeline *[]string
}

func (s *recordingSink) Printf(format string, v ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.timeline = append(*s.timeline, "log "+fmt.Sprintf(format, v...))
}
