package runnable

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// StringOutput is an output parser that reduces a model response to the text
// of its first choice. Placed at the end of a pipeline it turns
// prompt | model into a plain string chain:
//
//	chain := runnable.NewSequence(prompt, model, runnable.NewStringOutput())
//
// StringOutput implements ChunkTransformer, so streaming through it keeps
// emitting the model's token chunks unchanged.
type StringOutput struct{}

// NewStringOutput returns the string output parser.
func NewStringOutput() *StringOutput {
	return &StringOutput{}
}

// Invoke extracts the text from a *llms.ContentResponse. Strings pass
// through unchanged.
func (p *StringOutput) Invoke(ctx context.Context, input any, opts ...Option) (any, error) {
	switch v := input.(type) {
	case *llms.ContentResponse:
		return contentText(v)
	case string:
		return v, nil
	case llms.PromptValue:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("%w: string output parser expects a model response, got %T", ErrInvalidInput, input)
	}
}

// Stream parses the input and emits the text as a single chunk.
func (p *StringOutput) Stream(ctx context.Context, input any, opts ...Option) (*Stream, error) {
	return streamOnce(ctx, p, input, opts...)
}

// Batch parses every input concurrently.
func (p *StringOutput) Batch(ctx context.Context, inputs []any, opts ...Option) ([]any, error) {
	return batchInvoke(ctx, p, inputs, opts...)
}

// TransformChunk lets token streams pass through and converts whole-response
// chunks to their text.
func (p *StringOutput) TransformChunk(ctx context.Context, chunk Chunk) (Chunk, error) {
	if resp, ok := chunk.Value.(*llms.ContentResponse); ok {
		text, err := contentText(resp)
		if err != nil {
			return Chunk{}, err
		}
		chunk.Value = text
	}
	return chunk, nil
}
