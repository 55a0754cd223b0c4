package copilot

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	fencedAny  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
	inlineJSON = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)
)

// extractJSON pulls the first JSON document out of model output, which
// may wrap it in a code fence or surround it with prose. Returns nil
// when no valid JSON is present.
func extractJSON(text string) json.RawMessage {
	for _, re := range []*regexp.Regexp{fencedJSON, fencedAny, inlineJSON} {
		if m := re.FindStringSubmatch(text); m != nil {
			if candidate := strings.TrimSpace(m[1]); json.Valid([]byte(candidate)) {
				return json.RawMessage(candidate)
			}
		}
	}

	if trimmed := strings.TrimSpace(text); json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	return nil
}
