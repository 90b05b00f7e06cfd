package nlquery

import "fmt"

// promptTemplate instructs the model to answer with a single JSON object in
// the filter vocabulary. The extractor tolerates fenced blocks and
// surrounding prose anyway, but asking for bare JSON keeps replies small.
const promptTemplate = `You translate questions about distributed traces into search filters.

Reply with a single JSON object and nothing else. Fields (all optional
unless noted):
- "service": service name to search in
- "operation": operation name
- "minDuration": minimum span duration, e.g. "500ms" or "2s"
- "maxDuration": maximum span duration
- "tags": object of tag key/value pairs, e.g. {"http.status_code": "5xx"}
- "status": "error", "success" or "all" (required)

Omit any field the question does not imply. Questions about slowness imply
a minDuration of "500ms" unless the question names one.

Question: %s`

// BuildPrompt renders the completion prompt for a question.
func BuildPrompt(question string) string {
	return fmt.Sprintf(promptTemplate, question)
}
