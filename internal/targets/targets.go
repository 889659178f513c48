package targets

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/jdwit/s3-metadata-extractor/internal/types"
)

const (
	TargetCloudWatch = "cloudwatch"
	TargetStdout     = "stdout"
)

// Target receives the metadata of every processed object.
type Target interface {
	Send(entry types.MetadataEntry) error
}

// GetTargets builds the targets named in the comma separated targetsConfig.
// An empty config yields no targets.
func GetTargets(targetsConfig string, sess *session.Session) ([]Target, error) {
	if strings.TrimSpace(targetsConfig) == "" {
		return nil, nil
	}

	var targets []Target
	for _, t := range strings.Split(targetsConfig, ",") {
		t = strings.TrimSpace(t)

		var target Target
		var err error

		switch t {
		case TargetCloudWatch:
			target, err = NewCloudWatchTarget(sess)
		case TargetStdout:
			target = NewStdoutTarget()
		default:
			log.Printf("warning: unsupported target type: %s", t)
			continue
		}

		// Skip any targets that fail to initialize due to missing config or other errors
		if err != nil {
			log.Printf("warning: could not initialize target %s: %v", t, err)
			continue
		}

		targets = append(targets, target)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("error: no valid targets initialized from %q", targetsConfig)
	}

	return targets, nil
}

type entryJSON struct {
	Bucket   string                  `json:"bucket"`
	Metadata types.ExtractedMetadata `json:"metadata"`
}

func marshalEntry(entry types.MetadataEntry) ([]byte, error) {
	return json.Marshal(entryJSON{Bucket: entry.Bucket, Metadata: entry.Metadata})
}
