package nlquery

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tracepilot/tracepilot/internal/qerror"
)

// maxExcerptLen bounds the raw-text excerpt quoted in parse errors.
const maxExcerptLen = 160

// fencedBlockRe matches a markdown code fence, optionally labeled json,
// wrapping an object.
var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Extract recovers a StructuredQuery from the model's raw reply text.
//
// Location policy, in order: the interior of a fenced code block; else the
// greedy span from the first '{' to the last '}'. If neither exists, or the
// located span is not a JSON object, extraction fails with a parse error
// carrying a bounded excerpt of the raw text.
//
// Normalization: string fields that are missing, non-string or empty become
// absent; tags are kept only as a non-empty string-valued mapping; status
// defaults to "all" when absent or unrecognized. OriginalQuestion is always
// the caller's question, never anything the model returned.
func Extract(raw, question string) (*StructuredQuery, error) {
	span, ok := locateJSON(raw)
	if !ok {
		return nil, qerror.Newf(qerror.KindParse, "no JSON object in model reply: %q", excerpt(raw))
	}

	if !gjson.Valid(span) {
		return nil, qerror.Newf(qerror.KindParse, "model reply is not valid JSON: %q", excerpt(span))
	}
	root := gjson.Parse(span)
	if !root.IsObject() {
		return nil, qerror.Newf(qerror.KindParse, "model reply is not a JSON object: %q", excerpt(span))
	}

	q := &StructuredQuery{
		Service:          stringField(root, "service"),
		Operation:        stringField(root, "operation"),
		MinDuration:      stringField(root, "minDuration"),
		MaxDuration:      stringField(root, "maxDuration"),
		Status:           statusField(root),
		OriginalQuestion: question,
	}

	if tags := root.Get("tags"); tags.IsObject() {
		m := make(map[string]string)
		tags.ForEach(func(k, v gjson.Result) bool {
			if v.Type == gjson.String && v.Str != "" {
				m[k.Str] = v.Str
			}
			return true
		})
		if len(m) > 0 {
			q.Tags = m
		}
	}

	return q, nil
}

// locateJSON finds the candidate JSON span in the raw text.
func locateJSON(raw string) (string, bool) {
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// stringField returns the field's value when it is a non-empty JSON string,
// else "" (absent).
func stringField(root gjson.Result, name string) string {
	v := root.Get(name)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

// statusField maps the status field to a Status, defaulting to StatusAll on
// absent or unrecognized values. A malformed status is a soft failure.
func statusField(root gjson.Result) Status {
	switch root.Get("status").Str {
	case string(StatusError):
		return StatusError
	case string(StatusSuccess):
		return StatusSuccess
	default:
		return StatusAll
	}
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxExcerptLen {
		return s
	}
	return s[:maxExcerptLen] + "..."
}
