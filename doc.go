// RunnableGo - Composable LLM Pipelines in Go
//
// RunnableGo is a Go implementation of LangChain's runnable protocol for
// building LLM applications. Every building block, from prompt templates to
// chat models to tool-calling agents, shares one small interface that can be
// invoked, streamed, and batched, so applications are assembled by piping
// components together instead of hand-writing orchestration code.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/runnablego
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		"github.com/smallnest/runnablego/runnable"
//		"github.com/tmc/langchaingo/llms/openai"
//		"github.com/tmc/langchaingo/prompts"
//	)
//
//	func main() {
//		// Initialize the model (reads OPENAI_API_KEY)
//		model, err := openai.New()
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Build a prompt | model | parser pipeline
//		tmpl := prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
//			prompts.NewSystemMessagePromptTemplate("You are a comedian.", nil),
//			prompts.NewHumanMessagePromptTemplate("Tell me a joke about {{.topic}}.", []string{"topic"}),
//		})
//
//		chain := runnable.NewSequence(
//			runnable.NewPrompt(tmpl),
//			runnable.NewChatModel(model),
//			runnable.NewStringOutput(),
//		)
//
//		// Run it
//		joke, err := chain.Invoke(context.Background(), map[string]any{"topic": "bears"})
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(joke)
//	}
//
// # Key Features
//
//   - Unified Protocol: One interface for invoke, stream, and batch
//   - Pipe Composition: Chain prompts, models, parsers, and functions
//   - Token Streaming: Stream model output through trailing parsers
//   - Concurrent Batching: Ordered results with a configurable cap
//   - Parallel Fan-Out: Run named branches over one input
//   - Conversation Memory: History stores for memory, file, SQLite, Redis, PostgreSQL
//   - Tool-Calling Agents: Function-calling and ReAct loops over real tools
//   - HTTP Serving: Expose any runnable as invoke, batch, and stream endpoints
//   - Tracing: Callback handlers with a colorized console tracer
//
// # Core Concepts
//
// # The Runnable Protocol
//
// A Runnable accepts a single input and produces a single output through
// three methods:
//   - Invoke: process one input, return one output
//   - Stream: deliver output incrementally as it is produced
//   - Batch: process a slice of inputs concurrently, keep input order
//
// Implement one transformation and all three calling conventions come with
// it. InvokeAsync, BatchAsync, and StreamText run the same methods in the
// background and hand back channels.
//
// # Composition
//
// Sequences pipe the output of one runnable into the next. Parallel runs a
// map of branches concurrently over the same input. Both are themselves
// runnables, so they nest.
//
// # Configuration
//
// Per-call options travel with the run and are inherited by nested runs:
//   - WithMaxConcurrency caps Batch and Parallel fan-out
//   - WithCallbacks attaches lifecycle handlers
//   - WithSessionID selects the conversation for history wrappers
//   - WithTags and WithMetadata annotate trace events
//
// # Package Structure
//
// # Core Packages
//
// runnable/
// The runnable protocol and its building blocks
//
//	// Stream a pipeline token by token
//	stream, _ := chain.Stream(ctx, map[string]any{"topic": "cats"})
//	for chunk := range stream.Chunks {
//		fmt.Print(chunk.Value)
//	}
//
//	// Batch over many inputs with at most two in flight
//	outputs, _ := chain.Batch(ctx, []any{in1, in2, in3},
//		runnable.WithMaxConcurrency(2))
//
//	// Fan out to named branches
//	both, _ := runnable.NewParallel(map[string]runnable.Runnable{
//		"joke": jokeChain,
//		"poem": poemChain,
//	}).Invoke(ctx, map[string]any{"topic": "cats"})
//
// history/
// Conversation memory with pluggable stores
//
// Backends:
//   - memory: in-process, for tests and prototypes
//   - file: one JSON file per session
//   - sqlite: single-node persistence
//   - redis: shared cache with optional TTL
//   - postgres: durable multi-node storage
//
// Example:
//
//	store, _ := sqlite.NewStore(sqlite.Options{Path: "chat.db"})
//	chat := runnable.WithMessageHistory(chain, store)
//
//	answer, _ := chat.Invoke(ctx,
//		map[string]any{"question": "hi, I'm Bob"},
//		runnable.WithSessionID("bob"),
//	)
//
// tool/
// Tools that give agents access to the outside world
//
// Built-in tools:
//   - DuckDuckGoSearch: web search without an API key
//   - BraveSearch: web search via the Brave API
//   - Wikipedia: article summaries
//   - WebReader: fetch a URL and strip it to text
//   - Database: SQL list-tables, schema, and read-only query tools
//   - Registry: named lookup over a tool set
//
// Example:
//
//	db, _ := tool.NewDatabase("sqlite3", "chinook.db")
//	defer db.Close()
//
//	reg := tool.NewRegistry()
//	reg.Register(tool.NewDuckDuckGoSearch())
//	for _, t := range db.Tools() {
//		reg.Register(t)
//	}
//
// agent/
// Tool-calling agents wrapped as runnables
//
//	searcher := tool.NewDuckDuckGoSearch()
//
//	a, _ := agent.New(model,
//		[]tools.Tool{searcher, tools.Calculator{}},
//		agent.WithMaxIterations(5),
//	)
//
//	answer, _ := a.Invoke(ctx, "Who won the 2022 World Cup, and what is 38*49?")
//
// The default agent type drives the loop through the model's native
// function calling; agent.ZeroShotReact switches to the ReAct text format
// for models without it.
//
// serve/
// HTTP serving for runnables
//
//	srv := serve.New()
//	srv.Register("joke", chain)
//	srv.Run(":8080")
//
// Each registered runnable gets POST /{name}/invoke, /{name}/batch, and
// /{name}/stream endpoints, with streaming delivered as server-sent events,
// plus a playground page for trying pipelines from the browser.
//
// log/
// Leveled logging used across the library
//
//	log.SetLogLevel(log.LogLevelDebug)
//	log.Info("pipeline ready: %s", name)
//
// # Advanced Examples
//
// # Agent Over a SQL Database
//
//	db, err := tool.NewDatabase("sqlite3", "chinook.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
//
//	a, err := agent.New(model, db.Tools(), agent.WithMaxIterations(8))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	answer, err := a.Invoke(ctx, "How many customers are in the database?")
//
// # Tracing a Pipeline
//
//	tracer := runnable.NewConsoleCallbackHandler(runnable.WithConsoleTokens())
//
//	joke, err := chain.Invoke(ctx,
//		map[string]any{"topic": "bears"},
//		runnable.WithCallbacks(tracer),
//	)
//
// Every run, nested run, and token prints with its run ID, elapsed time, and
// an input preview.
//
// # Serving a Chat With Memory
//
//	store, _ := sqlite.NewStore(sqlite.Options{Path: "chat.db"})
//	chat := runnable.WithMessageHistory(chain, store)
//
//	srv := serve.New()
//	srv.Register("chat", chat)
//	log.Fatal(srv.Run(":8080"))
//
//	// curl -X POST localhost:8080/chat/invoke \
//	//   -d '{"input": {"question": "hello"}, "config": {"session_id": "bob"}}'
//
// # Best Practices
//
//  1. Put StringOutput at the end of model pipelines so both Invoke and
//     Stream yield plain text
//
//  2. Cap concurrency when batching against rate-limited APIs
//
//  3. Drain or Cancel every stream you open
//
//  4. Give agents the smallest tool set that can answer the question
//
//  5. Use session IDs that encode the user and conversation, not just the
//     user
//
//  6. Attach the console tracer while developing; swap in your own
//     CallbackHandler for production telemetry
//
// # Configuration
//
// The library reads configuration from environment variables:
//
//   - OPENAI_API_KEY: OpenAI API key for model access
//   - OPENAI_MODEL: Default model name (e.g. gpt-4o)
//   - OPENAI_BASE_URL: Override for OpenAI-compatible endpoints
//   - BRAVE_API_KEY: API key for the Brave search tool
//
// # Community and Support
//
//   - GitHub: https://github.com/smallnest/runnablego
//   - Documentation: https://pkg.go.dev/github.com/smallnest/runnablego
//   - Examples: ./examples directory
//   - Issues: Report bugs and request features on GitHub
//
// # Contributing
//
// We welcome contributions! Please see:
//   - CONTRIBUTING.md for guidelines
//   - Examples in ./examples for reference implementations
//
// # License
//
// This project is licensed under the MIT License - see the LICENSE file for details.
package runnablego // import "github.com/smallnest/runnablego"
