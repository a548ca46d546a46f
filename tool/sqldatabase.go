package tool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/tmc/langchaingo/tools"
)

// ErrQueryNotAllowed is returned by the SQL query tool when the input is not
// a read-only SELECT statement.
var ErrQueryNotAllowed = errors.New("only SELECT queries are allowed")

// Database wraps a SQL database and exposes it to agents as a set of tools:
// one to list tables, one to describe their schema and one to run read-only
// queries. The split mirrors how agents actually work the database: list
// first, inspect the interesting tables, then query them.
type Database struct {
	db      *sql.DB
	driver  string
	maxRows int
}

type DatabaseOption func(*Database)

// WithDatabaseMaxRows caps how many rows the query tool returns.
func WithDatabaseMaxRows(n int) DatabaseOption {
	return func(d *Database) {
		if n > 0 {
			d.maxRows = n
		}
	}
}

// NewDatabase opens a database with the given driver and DSN and wraps it.
// The caller owns the returned Database and should Close it when done.
func NewDatabase(driver, dsn string, opts ...DatabaseOption) (*Database, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewDatabaseFromDB(db, driver, opts...), nil
}

// NewDatabaseFromDB wraps an existing database handle. The driver name
// selects dialect-specific catalog queries ("sqlite3", "pgx", "mysql").
func NewDatabaseFromDB(db *sql.DB, driver string, opts ...DatabaseOption) *Database {
	d := &Database{
		db:      db,
		driver:  driver,
		maxRows: 100,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Close closes the underlying database.
func (d *Database) Close() error {
	return d.db.Close()
}

// Tools returns the list-tables, schema and query tools for this database.
func (d *Database) Tools() []tools.Tool {
	return []tools.Tool{
		&ListTablesTool{db: d},
		&SchemaTool{db: d},
		&QueryTool{db: d},
	}
}

// listTables returns the user table names in sorted order.
func (d *Database) listTables(ctx context.Context) ([]string, error) {
	var query string
	switch d.driver {
	case "sqlite3", "sqlite":
		query = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	case "mysql":
		query = `SHOW TABLES`
	default:
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name`
	}

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ListTablesTool lists the tables in the database.
type ListTablesTool struct {
	db *Database
}

var _ tools.Tool = (*ListTablesTool)(nil)

func (t *ListTablesTool) Name() string {
	return "SQL_List_Tables"
}

func (t *ListTablesTool) Description() string {
	return "Lists the tables in the database. " +
		"Input is an empty string, output is a comma separated list of table names."
}

func (t *ListTablesTool) Call(ctx context.Context, _ string) (string, error) {
	tables, err := t.db.listTables(ctx)
	if err != nil {
		return "", err
	}
	if len(tables) == 0 {
		return "No tables found", nil
	}
	return strings.Join(tables, ", "), nil
}

// SchemaTool describes tables and shows a few sample rows for each.
type SchemaTool struct {
	db *Database
}

var _ tools.Tool = (*SchemaTool)(nil)

func (t *SchemaTool) Name() string {
	return "SQL_Schema"
}

func (t *SchemaTool) Description() string {
	return "Describes tables in the database. " +
		"Input is a comma separated list of table names (empty for all tables), " +
		"output is the schema and up to three sample rows for each table. " +
		"Call SQL_List_Tables first to make sure the tables exist."
}

func (t *SchemaTool) Call(ctx context.Context, input string) (string, error) {
	var tables []string
	for _, name := range strings.Split(input, ",") {
		if name = strings.TrimSpace(name); name != "" {
			tables = append(tables, name)
		}
	}
	if len(tables) == 0 {
		all, err := t.db.listTables(ctx)
		if err != nil {
			return "", err
		}
		tables = all
	}

	var sb strings.Builder
	for i, table := range tables {
		if !identPattern.MatchString(table) {
			return "", fmt.Errorf("invalid table name: %q", table)
		}
		if i > 0 {
			sb.WriteString("\n\n")
		}

		schema, err := t.db.tableSchema(ctx, table)
		if err != nil {
			return "", err
		}
		sb.WriteString(schema)

		sample, err := t.db.sampleRows(ctx, table)
		if err != nil {
			return "", err
		}
		if sample != "" {
			sb.WriteString("\n\nSample rows:\n")
			sb.WriteString(sample)
		}
	}
	return sb.String(), nil
}

func (d *Database) tableSchema(ctx context.Context, table string) (string, error) {
	if d.driver == "sqlite3" || d.driver == "sqlite" {
		var ddl string
		err := d.db.QueryRowContext(ctx,
			`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&ddl)
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("unknown table: %s", table)
		}
		if err != nil {
			return "", fmt.Errorf("failed to read schema for %s: %w", table, err)
		}
		return ddl, nil
	}

	// Other dialects: derive column names and types from an empty result set.
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", table))
	if err != nil {
		return "", fmt.Errorf("failed to read schema for %s: %w", table, err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return "", fmt.Errorf("failed to read schema for %s: %w", table, err)
	}

	cols := make([]string, 0, len(types))
	for _, ct := range types {
		cols = append(cols, fmt.Sprintf("%s %s", ct.Name(), ct.DatabaseTypeName()))
	}
	return fmt.Sprintf("TABLE %s (%s)", table, strings.Join(cols, ", ")), nil
}

func (d *Database) sampleRows(ctx context.Context, table string) (string, error) {
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 3", table))
	if err != nil {
		return "", fmt.Errorf("failed to read sample rows for %s: %w", table, err)
	}
	defer rows.Close()

	out, _, err := formatRows(rows, 3)
	return out, err
}

// QueryTool runs read-only SELECT queries against the database.
type QueryTool struct {
	db *Database
}

var _ tools.Tool = (*QueryTool)(nil)

func (t *QueryTool) Name() string {
	return "SQL_Query"
}

func (t *QueryTool) Description() string {
	return "Runs a SQL query against the database. " +
		"Input is a syntactically correct SELECT query, output is the result rows. " +
		"Only SELECT queries are allowed. " +
		"If an error is returned, rewrite the query and try again."
}

func (t *QueryTool) Call(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(input), ";"))
	if query == "" {
		return "", fmt.Errorf("%w: empty query", ErrQueryNotAllowed)
	}

	if err := checkReadOnly(query); err != nil {
		return "", err
	}

	rows, err := t.db.db.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	out, truncated, err := formatRows(rows, t.db.maxRows)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "No rows returned", nil
	}
	if truncated {
		out += fmt.Sprintf("\n(output truncated at %d rows)", t.db.maxRows)
	}
	return out, nil
}

// checkReadOnly verifies that query is a single SELECT statement, possibly
// behind a CTE prologue. The check looks only at top-level keywords, so
// "WITH x AS (SELECT 1) DELETE FROM t" is rejected on the DELETE while
// "WITH x AS (SELECT 1) SELECT * FROM x" passes.
func checkReadOnly(query string) error {
	words, err := topLevelWords(query)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("%w: empty query", ErrQueryNotAllowed)
	}
	if words[0] == "SELECT" {
		return nil
	}
	if words[0] != "WITH" {
		return fmt.Errorf("%w: got %s", ErrQueryNotAllowed, words[0])
	}
	for _, w := range words[1:] {
		switch w {
		case "SELECT":
			return nil
		case "INSERT", "UPDATE", "DELETE", "REPLACE", "CREATE", "DROP", "ALTER":
			return fmt.Errorf("%w: got %s", ErrQueryNotAllowed, w)
		}
	}
	return fmt.Errorf("%w: no top-level SELECT", ErrQueryNotAllowed)
}

// topLevelWords tokenizes query into uppercased bare words outside of
// parentheses, quoted strings, quoted identifiers and comments. A semicolon
// anywhere but the end of the input fails the scan, so multi-statement
// input never reaches the driver.
func topLevelWords(query string) ([]string, error) {
	var words []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			words = append(words, strings.ToUpper(word.String()))
			word.Reset()
		}
	}

	runes := []rune(query)
	depth := 0
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			flush()
			for i++; i < len(runes) && runes[i] != c; i++ {
			}
		case c == '[':
			flush()
			for i++; i < len(runes) && runes[i] != ']'; i++ {
			}
		case c == '-' && i+1 < len(runes) && runes[i+1] == '-':
			flush()
			for i++; i < len(runes) && runes[i] != '\n'; i++ {
			}
		case c == '/' && i+1 < len(runes) && runes[i+1] == '*':
			flush()
			i += 2
			for ; i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/'); i++ {
			}
			i++
		case c == '(':
			flush()
			depth++
		case c == ')':
			flush()
			depth--
		case c == ';':
			flush()
			if strings.TrimSpace(string(runes[i+1:])) != "" {
				return nil, fmt.Errorf("%w: multiple statements", ErrQueryNotAllowed)
			}
		case unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_':
			if depth == 0 {
				word.WriteRune(c)
			}
		default:
			flush()
		}
	}
	flush()
	return words, nil
}

// formatRows renders up to maxRows rows as a header line followed by one
// pipe-separated line per row. It reports whether the result was truncated.
func formatRows(rows *sql.Rows, maxRows int) (string, bool, error) {
	cols, err := rows.Columns()
	if err != nil {
		return "", false, fmt.Errorf("failed to read columns: %w", err)
	}

	var sb strings.Builder
	count := 0
	for rows.Next() {
		if count >= maxRows {
			return sb.String(), true, nil
		}
		if count == 0 {
			sb.WriteString(strings.Join(cols, " | "))
		}

		values := make([]any, len(cols))
		for i := range values {
			values[i] = new(any)
		}
		if err := rows.Scan(values...); err != nil {
			return "", false, fmt.Errorf("failed to scan row: %w", err)
		}

		fields := make([]string, len(values))
		for i, v := range values {
			fields[i] = formatValue(*(v.(*any)))
		}
		sb.WriteString("\n")
		sb.WriteString(strings.Join(fields, " | "))
		count++
	}
	if err := rows.Err(); err != nil {
		return "", false, fmt.Errorf("failed to read rows: %w", err)
	}
	return sb.String(), false, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
