package gateway

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// estimateTokens counts prompt tokens with the cl100k_base encoding, used
// only for logging. When the encoding cannot be loaded (first use fetches
// the BPE ranks), it falls back to the chars/4 heuristic.
func estimateTokens(prompt string) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return len(prompt) / 4
	}
	return len(encoding.Encode(prompt, nil, nil))
}
