package targets

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jdwit/s3-metadata-extractor/internal/types"
)

type StdoutTarget struct {
	out io.Writer
}

func (c *StdoutTarget) Send(entry types.MetadataEntry) error {
	jsonData, err := marshalEntry(entry)
	if err != nil {
		return fmt.Errorf("error marshaling metadata entry to JSON: %w", err)
	}
	_, err = fmt.Fprintf(c.out, "[%s] Metadata: %s\n", entry.Timestamp.Format(time.RFC3339), jsonData)
	return err
}

func NewStdoutTarget() *StdoutTarget {
	return &StdoutTarget{out: os.Stdout}
}
