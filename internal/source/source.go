// Package source fetches the raw task seed document from the configured
// backend. A fetch returns the decoded elements of a JSON array; a valid
// non-array payload yields zero records, which the loader treats as "nothing
// to load" rather than a failure.
package source

import (
	"context"
	"encoding/json"
)

type Source interface {
	Fetch(ctx context.Context) ([]any, error)
}

func decodeRecords(data []byte) ([]any, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	records, ok := doc.([]any)
	if !ok {
		return nil, nil
	}

	return records, nil
}
