package model

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Hook id ranges. Location hooks are numbered from LocationHookBase,
// industry hooks from IndustryHookBase, so the two never collide.
const (
	LocationHookBase = 1
	IndustryHookBase = 101
)

// Hook is a greeting flavor phrase with a stable id.
type Hook struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ParseHooks normalizes a stored hook list. The column holds either a JSON
// array of strings or a JSON string whose content is such an array.
// Entries keep their stored positions, blanks included, because a hook's id
// is derived from its index.
func ParseHooks(raw []byte) ([]string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return nil, eris.Wrap(err, "model: decode encoded hooks")
		}
		return ParseHooks([]byte(inner))
	}

	var hooks []string
	if err := json.Unmarshal([]byte(trimmed), &hooks); err != nil {
		return nil, eris.Wrap(err, "model: decode hooks")
	}
	return hooks, nil
}

// ParseStringList decodes a JSON array of strings, tolerating NULL and the
// JSON-encoded string form. Blank entries are dropped.
func ParseStringList(raw []byte) ([]string, error) {
	list, err := ParseHooks(raw)
	if err != nil {
		return nil, err
	}
	out := list[:0]
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
