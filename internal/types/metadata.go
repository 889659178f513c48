package types

import (
	"bytes"
	"encoding/json"
	"time"
)

// Field names of ExtractedMetadata, in logging order.
const (
	FieldPath        = "path"
	FieldMD5         = "md5"
	FieldSize        = "size"
	FieldContentType = "contentType"
)

// MetadataField is one key/value pair of ExtractedMetadata.
type MetadataField struct {
	Key   string
	Value string
}

// ExtractedMetadata holds the four fields derived from a stored object. Fields
// keeps the stable path, md5, size, contentType order.
//
// The md5 value is the storage ETag as returned by S3. For multipart uploads
// and SSE-KMS objects this is not an MD5 digest of the content.
type ExtractedMetadata struct {
	Fields []MetadataField
}

func NewExtractedMetadata(path, md5, size, contentType string) ExtractedMetadata {
	return ExtractedMetadata{Fields: []MetadataField{
		{Key: FieldPath, Value: path},
		{Key: FieldMD5, Value: md5},
		{Key: FieldSize, Value: size},
		{Key: FieldContentType, Value: contentType},
	}}
}

func (m ExtractedMetadata) Get(key string) (string, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func (m ExtractedMetadata) Map() map[string]string {
	out := make(map[string]string, len(m.Fields))
	for _, f := range m.Fields {
		out[f.Key] = f.Value
	}
	return out
}

// MarshalJSON writes the fields as a JSON object in field order.
func (m ExtractedMetadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MetadataEntry is what targets receive for every processed object.
type MetadataEntry struct {
	Bucket    string
	Metadata  ExtractedMetadata
	Timestamp time.Time
}
