package store

import "encoding/json"

// Flags are stored as a JSONB array; empty slices are stored as NULL.

func marshalFlags(flags []string) ([]byte, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	return json.Marshal(flags)
}

func unmarshalFlags(data []byte, flags *[]string) error {
	return json.Unmarshal(data, flags)
}
