// Package agent initializes tool-calling agents on top of langchaingo.
//
// An agent hands a question to a chat model together with a set of tools,
// executes the tool calls the model asks for, feeds the results back, and
// repeats until the model produces a final answer. The loop, tool-call
// parsing and scratchpad handling all come from langchaingo's agents
// package; this package wires them up and exposes the result as a
// runnable.Runnable.
//
// # Quickstart
//
//	model, err := openai.New()
//	if err != nil {
//		return err
//	}
//
//	db, err := tool.NewDatabase("sqlite3", "./chinook.db")
//	if err != nil {
//		return err
//	}
//
//	agentTools := append(db.Tools(),
//		tool.NewDuckDuckGoSearch(),
//		tools.Calculator{},
//	)
//
//	a, err := agent.New(model, agentTools)
//	if err != nil {
//		return err
//	}
//
//	answer, err := a.Invoke(ctx, "How many artists are in the database?")
//
// # Agent Types
//
// OpenAIFunctions (the default) relies on the model's native tool calling
// and should be used with every model that supports it. ZeroShotReact
// prompts the model to emit Thought/Action/Observation text and parses it,
// a fallback for models without tool calling:
//
//	a, err := agent.New(model, agentTools,
//		agent.WithType(agent.ZeroShotReact),
//		agent.WithMaxIterations(5),
//	)
//
// Because *Agent implements runnable.Runnable it can be piped, batched and
// registered on a serve.Server like any other runnable.
package agent
