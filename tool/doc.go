// Package tool provides a collection of ready-to-use tools for agents.
//
// Every tool implements the langchaingo tools.Tool interface (Name,
// Description, Call), so they can be mixed freely with tools from
// github.com/tmc/langchaingo/tools such as the calculator or SerpAPI
// search. HTTP-backed tools accept an injectable base URL and HTTP client,
// which keeps them testable against httptest servers.
//
// # Available Tools
//
// ## DuckDuckGo Search
//
// Key-free web search through the DuckDuckGo instant answer API:
//
//	import "github.com/smallnest/runnablego/tool"
//
//	search := tool.NewDuckDuckGoSearch(
//		tool.WithDuckDuckGoMaxResults(5),
//	)
//
//	result, err := search.Call(ctx, "capital of France")
//
// ## Brave Search
//
// Web search through the Brave Search API (requires an API key, read from
// BRAVE_API_KEY when not passed explicitly):
//
//	brave, err := tool.NewBraveSearch("",
//		tool.WithBraveCount(5),
//		tool.WithBraveCountry("US"),
//	)
//	if err != nil {
//		return err
//	}
//
//	result, err := brave.Call(ctx, "latest Go release")
//
// ## Wikipedia
//
// Article summaries through the MediaWiki query API:
//
//	wiki := tool.NewWikipedia()
//	result, err := wiki.Call(ctx, "Alan Turing")
//
// ## Web Reader
//
// Fetches a page and returns its visible text with scripts and styles
// stripped, capped at a configurable length:
//
//	reader := tool.NewWebReader(tool.WithWebReaderMaxLength(4000))
//	text, err := reader.Call(ctx, "https://go.dev/doc/")
//
// ## SQL Database
//
// Wraps a database/sql handle as three cooperating tools, the shape agents
// need to explore a database they have never seen:
//
//	import _ "github.com/mattn/go-sqlite3"
//
//	db, err := tool.NewDatabase("sqlite3", "./chinook.db")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	// SQL_List_Tables, SQL_Schema and SQL_Query
//	agentTools := db.Tools()
//
// The query tool only accepts SELECT statements; anything else returns
// ErrQueryNotAllowed before touching the database.
//
// # Tool Registry
//
// A Registry collects tools by name, for building agent tool lists and for
// serving a tool catalog:
//
//	reg := tool.NewRegistry()
//	reg.Register(tool.NewDuckDuckGoSearch())
//	reg.Register(tool.NewWikipedia())
//
//	agent, err := agent.New(model, reg.Tools())
//
// # Custom Tools
//
// Implement the tools.Tool interface:
//
//	type weatherTool struct{}
//
//	func (t *weatherTool) Name() string        { return "Weather" }
//	func (t *weatherTool) Description() string { return "Current weather for a city." }
//
//	func (t *weatherTool) Call(ctx context.Context, input string) (string, error) {
//		return lookupWeather(ctx, input)
//	}
package tool
