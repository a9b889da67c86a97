package tokenizer

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/gptizer/gptizer/pkg/errors"
)

// DefaultEncoding is the encoding used by GPT-4 class models.
const DefaultEncoding = "cl100k_base"

// Tiktoken counts BPE tokens with a tiktoken encoding.
type Tiktoken struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewTiktoken loads the named encoding. The BPE ranks are downloaded on
// first use and cached by tiktoken-go (TIKTOKEN_CACHE_DIR).
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("load tiktoken encoding %q", encoding), err)
	}
	return &Tiktoken{encoding: encoding, enc: enc}, nil
}

// Count returns the number of tokens in text. Special-token markers such
// as <|endoftext|> are counted as ordinary text.
func (t *Tiktoken) Count(text string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.TokenizationError("tiktoken encode failed", fmt.Errorf("%v", r))
		}
	}()
	return len(t.enc.Encode(text, nil, nil)), nil
}

// Name implements Named.
func (t *Tiktoken) Name() string {
	return "tiktoken-" + t.encoding
}
