package logging

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Convert a structured message to an unstructured string, for destinations
// that can only handle text.  If the message has a string `textPayload`
// property, that is placed first, with the remaining properties following in
// sorted order.
func ToUnstructured(message map[string]interface{}) string {
	parts := []string{}

	if payload, ok := message["textPayload"].(string); ok {
		parts = append(parts, payload)
		delete(message, "textPayload")
	} else if len(message) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(message))
	for k := range message {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, valueRepr(message[k])))
	}

	return strings.Join(parts, "; ")
}

// Convert an unstructured message to a structured message, for destinations
// that can only handle structured data.
func ToStructured(message string) map[string]interface{} {
	return map[string]interface{}{
		"textPayload": message,
	}
}

func valueRepr(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%#v", value)
	}
	return string(encoded)
}
