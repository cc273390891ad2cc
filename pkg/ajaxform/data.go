package ajaxform

import (
	"encoding/json"
	"fmt"
)

// Data is a JSON object exchanged with the client.
type Data map[string]any

// String returns the value of key when it holds a JSON string.
func (d Data) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Decode copies the fields into dst, a pointer to a struct with json tags.
func (d Data) Decode(dst any) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("ajaxform: encode data: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("ajaxform: decode data: %w", err)
	}
	return nil
}
