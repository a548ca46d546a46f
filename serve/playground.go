package serve

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

type renderRequest struct {
	Text string `json:"text"`
}

// handleRender converts Markdown model output to sanitized HTML, so the
// playground (or any other client) never injects raw model output into the
// DOM.
func (s *Server) handleRender(c *gin.Context) {
	if _, ok := s.lookup(c); !ok {
		return
	}

	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	respondOK(c, gin.H{"html": renderMarkdown(req.Text)})
}

func renderMarkdown(text string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(text))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	htmlBytes := markdown.Render(doc, renderer)

	return string(bluemonday.UGCPolicy().SanitizeBytes(htmlBytes))
}

var playgroundTemplate = template.Must(template.New("playground").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}} playground</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
textarea { width: 100%; height: 6rem; font-family: monospace; }
button { margin-top: 0.5rem; padding: 0.4rem 1.2rem; }
#output { margin-top: 1rem; padding: 1rem; border: 1px solid #ccc; min-height: 3rem; }
.error { color: #b00; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<p>Input is sent as JSON to <code>POST /{{.Name}}/invoke</code>.</p>
<textarea id="input" placeholder='"your input"'></textarea>
<button onclick="run()">Invoke</button>
<div id="output"></div>
<script>
async function run() {
	const output = document.getElementById('output');
	output.textContent = 'running...';
	output.className = '';
	let input;
	try {
		input = JSON.parse(document.getElementById('input').value);
	} catch (e) {
		input = document.getElementById('input').value;
	}
	try {
		const resp = await fetch('/{{.Name}}/invoke', {
			method: 'POST',
			headers: {'Content-Type': 'application/json'},
			body: JSON.stringify({input: input})
		});
		const body = await resp.json();
		if (body.errors) {
			output.textContent = body.errors.join('; ');
			output.className = 'error';
			return;
		}
		const text = typeof body.data.output === 'string'
			? body.data.output : JSON.stringify(body.data.output, null, 2);
		const rendered = await fetch('/{{.Name}}/render', {
			method: 'POST',
			headers: {'Content-Type': 'application/json'},
			body: JSON.stringify({text: text})
		});
		const renderedBody = await rendered.json();
		output.innerHTML = renderedBody.data.html;
	} catch (e) {
		output.textContent = String(e);
		output.className = 'error';
	}
}
</script>
</body>
</html>
`))

// handlePlayground serves a minimal browser page for trying a runnable.
func (s *Server) handlePlayground(c *gin.Context) {
	if _, ok := s.lookup(c); !ok {
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := playgroundTemplate.Execute(c.Writer, gin.H{"Name": c.Param("name")}); err != nil {
		respondError(c, http.StatusInternalServerError, err)
	}
}
