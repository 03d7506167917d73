package services

import (
	"encoding/json"
	"fmt"
)

func unmarshalDoc(raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return nil
}
