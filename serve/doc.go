// Package serve publishes runnables over HTTP.
//
// A Server mounts each registered runnable under a fixed set of endpoints,
// so anything that implements runnable.Runnable, from a single prompt to a
// full agent, gets a network surface for free:
//
//	chain := runnable.NewSequence(
//		runnable.NewPrompt(tmpl),
//		runnable.NewChatModel(model),
//		runnable.NewStringOutput(),
//	)
//
//	s := serve.New()
//	s.Register("joke", chain)
//	log.Fatal(s.Run(":8080"))
//
// # Endpoints
//
// POST /joke/invoke
//
//	{"input": {"topic": "bears"}, "config": {"tags": ["web"]}}
//	-> {"data": {"output": "..."}}
//
// POST /joke/batch
//
//	{"inputs": [{"topic": "bears"}, {"topic": "cats"}], "config": {"max_concurrency": 2}}
//	-> {"data": {"output": ["...", "..."]}}
//
// POST /joke/stream answers with Server-Sent Events: one "data:" line per
// chunk (JSON-encoded), an "end" event carrying the final output, or an
// "error" event if the run fails.
//
// GET /joke/playground serves a small HTML page for trying the runnable
// from a browser; it renders Markdown output through POST /joke/render,
// which converts to HTML server-side and sanitizes the result.
//
// Errors use the {"errors": [...]} envelope with 404 for unknown runnable
// names, 400 for malformed bodies and 500 for failed runs.
package serve
