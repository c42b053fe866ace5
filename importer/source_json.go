package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

type jsonFileSource struct{}

func (jsonFileSource) Load(ctx context.Context, opts Options) ([]Record, error) {
	data, err := os.ReadFile(opts.FilePath)
	if err != nil {
		return nil, &SourceError{Op: "error reading JSON file", Err: err}
	}
	records, err := decodeRecords(data)
	if err != nil {
		return nil, &SourceError{Op: "error processing JSON file", Err: err}
	}
	return records, nil
}

type jsonDataSource struct{}

func (jsonDataSource) Load(ctx context.Context, opts Options) ([]Record, error) {
	records, err := decodeRecords([]byte(opts.JSONData))
	if err != nil {
		return nil, &SourceError{Op: "error processing JSON data", Err: err}
	}
	return records, nil
}

// decodeRecords requires a top-level array. Elements that are not objects
// become nil records and fail individually during processing.
func decodeRecords(data []byte) ([]Record, error) {
	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	items, ok := top.([]any)
	if !ok {
		return nil, ErrNotArray
	}

	records := make([]Record, len(items))
	for i, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records[i] = Record(obj)
		}
	}
	return records, nil
}
