package services

import (
	"context"
	"fmt"
	"os"
)

// FileLoader reads payloads from the local filesystem. It stands in for the
// browser's file-to-data-URL decoding, which this design treats as an
// opaque binary load.
type FileLoader struct{}

var _ PayloadLoader = FileLoader{}

func (FileLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("payload %s is empty", ref)
	}
	return data, nil
}
