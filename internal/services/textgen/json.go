package textgen

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// decodeSlidesPayload parses a model reply into the slides payload. Replies
// frequently wrap the object in a markdown fence or a sentence of prose, so
// the decoder parses the outermost {...} span of the reply rather than the
// raw text.
func decodeSlidesPayload(content string) (slidesPayload, error) {
	var payload slidesPayload
	reply := strings.TrimSpace(content)
	if reply == "" {
		return payload, ErrEmptyPayload
	}
	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end < start {
		return payload, fmt.Errorf("no JSON object in reply: %s", excerpt(reply))
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &payload); err != nil {
		return payload, fmt.Errorf("%w (reply: %s)", err, excerpt(reply[start:end+1]))
	}
	return payload, nil
}

// excerpt flattens a reply to a single short line for error messages.
func excerpt(s string) string {
	flat := strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(flat) <= 120 {
		return flat
	}
	return string([]rune(flat)[:120]) + "..."
}
