package store

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// mergePatch applies a JSON merge patch (RFC 7386) to doc. Only object
// patches are accepted; a scalar or array would replace the whole record.
func mergePatch(doc, patch []byte) ([]byte, error) {
	var p any
	if err := json.Unmarshal(patch, &p); err != nil {
		return nil, fmt.Errorf("%w: patch: %v", ErrMalformed, err)
	}
	if _, ok := p.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: patch must be a JSON object", ErrMalformed)
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	return merged, nil
}
