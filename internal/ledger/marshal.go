package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedRecord marks a stored run whose actor list cannot be parsed.
var ErrMalformedRecord = errors.New("malformed run record")

// marshalActors converts actor ids to the JSON TEXT stored in runs.actors.
func marshalActors(actors []int64) (string, error) {
	if actors == nil {
		actors = []int64{}
	}
	data, err := json.Marshal(actors)
	if err != nil {
		return "", fmt.Errorf("marshal actors: %w", err)
	}
	return string(data), nil
}

// unmarshalActors parses runs.actors. Any parse failure wraps ErrMalformedRecord.
func unmarshalActors(data string) ([]int64, error) {
	var actors []int64
	if err := json.Unmarshal([]byte(data), &actors); err != nil {
		return nil, fmt.Errorf("%w: actors %q: %v", ErrMalformedRecord, data, err)
	}
	if actors == nil {
		return nil, fmt.Errorf("%w: actors %q is not a list", ErrMalformedRecord, data)
	}
	return actors, nil
}
