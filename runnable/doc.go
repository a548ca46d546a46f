// Package runnable provides the core composition primitives for RunnableGo.
//
// A Runnable is a unit of work with one calling convention: it takes a single
// input and produces a single output, and every implementation can be
// invoked, streamed, or batched through the same three methods. Prompt
// templates, chat models, output parsers, and plain Go functions all satisfy
// the same interface, so pipelines are assembled by composing small parts
// instead of writing bespoke glue for each pair.
//
// # Core Concepts
//
// ## Runnable
// The Runnable interface has three methods. Invoke processes one input and
// returns one output. Stream returns a handle that delivers output
// incrementally while the run is still in flight. Batch processes a slice of
// inputs concurrently and returns the outputs in input order. Func adapts an
// ordinary function into a Runnable, and Passthrough returns its input
// unchanged.
//
// ## Sequences
// NewSequence chains runnables so each step's output becomes the next step's
// input. Pipe extends a sequence without mutating the receiver, so a shared
// prefix can fan out into several different pipelines. When a sequence is
// streamed, trailing steps that implement ChunkTransformer (such as
// StringOutput) rewrite chunks in flight, which is how token streams survive
// a prompt-model-parser pipeline end to end.
//
// ## Parallel
// NewParallel runs a map of named branches concurrently over the same input
// and collects their outputs into a map keyed by branch name. Streamed
// parallel runs tag every chunk with the branch that produced it.
//
// ## Configuration
// Per-call Options travel with the run: WithMaxConcurrency bounds Batch and
// Parallel fan-out, WithCallbacks attaches lifecycle handlers, WithTags and
// WithMetadata annotate trace events, and WithSessionID selects the
// conversation for history-wrapped runnables. Nested runs inherit the
// configuration of their parent.
//
// # Key Features
//
//   - One interface for invoke, stream, and batch execution
//   - Pipe composition for prompt, model, and parser pipelines
//   - Token streaming through trailing output parsers
//   - Concurrent batching with ordered results and a concurrency cap
//   - Parallel fan-out with branch-tagged streaming
//   - Callback system for tracing runs, nested runs, and tokens
//   - Message history wrapper with pluggable stores
//   - Channel-based helpers for running work in the background
//
// # Example Usage
//
// ## Basic Invocation
//
//	upper := runnable.Func(func(ctx context.Context, input any) (any, error) {
//		s, ok := input.(string)
//		if !ok {
//			return nil, runnable.ErrInvalidInput
//		}
//		return strings.ToUpper(s), nil
//	})
//
//	out, err := upper.Invoke(context.Background(), "hello")
//	// out == "HELLO"
//
// ## Prompt to Model Pipelines
//
//	tmpl := prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
//		prompts.NewSystemMessagePromptTemplate("You are a comedian.", nil),
//		prompts.NewHumanMessagePromptTemplate("Tell me a joke about {{.topic}}.", []string{"topic"}),
//	})
//
//	model, err := openai.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	chain := runnable.NewSequence(
//		runnable.NewPrompt(tmpl),
//		runnable.NewChatModel(model),
//		runnable.NewStringOutput(),
//	)
//
//	joke, err := chain.Invoke(ctx, map[string]any{"topic": "bears"})
//
// ## Streaming
//
//	stream, err := chain.Stream(ctx, map[string]any{"topic": "bears"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for chunk := range stream.Chunks {
//		fmt.Print(chunk.Value)
//	}
//
//	// Chunks is closed; Wait returns the final output or the failure.
//	joke, err := stream.Wait()
//
// CollectText does the loop above for you and concatenates string chunks:
//
//	text, err := stream.CollectText()
//
// ## Batching
//
//	outputs, err := chain.Batch(ctx, []any{
//		map[string]any{"topic": "bears"},
//		map[string]any{"topic": "cats"},
//		map[string]any{"topic": "ducks"},
//	}, runnable.WithMaxConcurrency(2))
//
// Outputs keep input order regardless of which input finishes first. A
// failure cancels the remaining inputs and is reported as a *BatchError
// carrying the failing index.
//
// ## Parallel Branches
//
//	fanout := runnable.NewParallel(map[string]runnable.Runnable{
//		"joke": jokeChain,
//		"poem": poemChain,
//	})
//
//	out, err := fanout.Invoke(ctx, map[string]any{"topic": "bears"})
//	// out.(map[string]any)["joke"], out.(map[string]any)["poem"]
//
// ## Message History
//
//	store := memory.NewStore()
//	chat := runnable.WithMessageHistory(chain, store)
//
//	answer, err := chat.Invoke(ctx,
//		map[string]any{"question": "hi, I'm Bob"},
//		runnable.WithSessionID("bob"),
//	)
//
// The wrapper loads prior turns into the input map before the inner runnable
// runs and records the new human and AI turns after it completes. Stores for
// memory, files, SQLite, Redis, and PostgreSQL live under history/.
//
// ## Tracing with Callbacks
//
//	handler := runnable.NewConsoleCallbackHandler(runnable.WithConsoleTokens())
//
//	out, err := chain.Invoke(ctx, input, runnable.WithCallbacks(handler))
//
// Handlers receive start, end, error, and token events for the run and every
// nested run. Embed NoopCallbackHandler to implement only the events you
// care about.
//
// ## Background Execution
//
//	results := runnable.InvokeAsync(ctx, chain, input)
//	// ... do other work ...
//	res := <-results
//	if res.Err != nil {
//		log.Fatal(res.Err)
//	}
//
// StreamText returns a plain channel of string tokens when chunk metadata is
// not needed:
//
//	tokens, err := runnable.StreamText(ctx, chain, input)
//	for tok := range tokens {
//		fmt.Print(tok)
//	}
//
// # Thread Safety
//
// Runnables built from this package are safe for concurrent use as long as
// the functions and models they wrap are. Batch and Parallel run their work
// in goroutines, so callback handlers must be safe for concurrent use. A
// Stream handle is for a single consumer; hand out separate streams rather
// than sharing one across goroutines.
//
// # Best Practices
//
//  1. Pass a context with a deadline to every Invoke, Stream, and Batch
//  2. Cap Batch and Parallel fan-out with WithMaxConcurrency when the work
//     hits rate-limited APIs
//  3. Drain or Cancel every Stream you open, or its producer goroutine
//     blocks forever
//  4. Put StringOutput last in a sequence so token streams pass through it
//  5. Use errors.Is and errors.As to inspect failures; batch failures unwrap
//     to the cause through *BatchError
//  6. Keep callback handlers fast; they run inline with the pipeline
package runnable
