// Package clickhouse provides a ready-made tool set for exploring and querying
// a ClickHouse database: listing databases and tables, describing table
// schemas and running read-only SQL. Attach the set to an agent to give a
// model guarded access to analytical data.
package clickhouse

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/tool"
)

// DefaultMaxRows caps result sets returned to the model.
const DefaultMaxRows = 100

// Options configures the tool set.
type Options struct {
	// MaxRows caps the number of rows run_query returns. Defaults to
	// DefaultMaxRows.
	MaxRows int
}

// Toolset bundles the database tools over one ClickHouse connection.
// The connection is shared; clickhouse-go connections are safe for concurrent
// use, so one Toolset may serve parallel tool calls.
type Toolset struct {
	conn driver.Conn
	opts Options
}

// NewToolset creates the tool set over an open connection.
func NewToolset(conn driver.Conn, optFns ...func(o *Options)) *Toolset {
	opts := Options{MaxRows: DefaultMaxRows}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultMaxRows
	}
	return &Toolset{conn: conn, opts: opts}
}

// Catalog returns the tools as a catalogue for the definition-binding layer.
func (s *Toolset) Catalog() *tool.Catalog {
	return tool.NewCatalog(s.Tools()...)
}

// Tools returns the four database tools, ready for agent registration.
func (s *Toolset) Tools() []tool.Tool {
	return []tool.Tool{
		s.ShowDatabasesTool(),
		s.ShowTablesTool(),
		s.DescribeTableTool(),
		s.RunQueryTool(),
	}
}

// ShowDatabasesTool lists the databases visible to the connection.
func (s *Toolset) ShowDatabasesTool() tool.Tool {
	return tool.NewFunctionTool(
		"show_databases",
		"List all databases available on the ClickHouse server.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			return s.queryStrings(tc, "SHOW DATABASES")
		},
	)
}

// ShowTablesTool lists the tables of one database.
func (s *Toolset) ShowTablesTool() tool.Tool {
	return tool.NewFunctionTool(
		"show_tables",
		"List all tables in the given ClickHouse database.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"database": map[string]any{
					"type":        "string",
					"description": "Database to list tables from",
				},
			},
			"required": []string{"database"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			database, err := identifierArg(args, "database")
			if err != nil {
				return nil, err
			}
			return s.queryStrings(tc, "SHOW TABLES FROM "+database)
		},
	)
}

// DescribeTableTool returns a table's column definitions.
func (s *Toolset) DescribeTableTool() tool.Tool {
	return tool.NewFunctionTool(
		"describe_table",
		"Describe the columns of a ClickHouse table: names, types, defaults.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"database": map[string]any{
					"type":        "string",
					"description": "Database containing the table",
				},
				"table": map[string]any{
					"type":        "string",
					"description": "Table to describe",
				},
			},
			"required": []string{"database", "table"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			database, err := identifierArg(args, "database")
			if err != nil {
				return nil, err
			}
			table, err := identifierArg(args, "table")
			if err != nil {
				return nil, err
			}
			return s.queryRows(tc, fmt.Sprintf("DESCRIBE TABLE %s.%s", database, table))
		},
	)
}

// RunQueryTool executes a read-only SQL query. Only SELECT, SHOW, DESCRIBE and
// EXISTS statements pass the guard; mutations are rejected before reaching the
// server.
func (s *Toolset) RunQueryTool() tool.Tool {
	return tool.NewFunctionTool(
		"run_query",
		"Run a read-only SQL query (SELECT, SHOW, DESCRIBE) against ClickHouse and return the rows.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The SQL query to execute",
				},
			},
			"required": []string{"query"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			if err := checkReadOnly(query); err != nil {
				return nil, tool.NewToolError("run_query", err.Error(), tool.CodeValidation)
			}
			return s.queryRows(tc, query)
		},
	)
}

// queryStrings runs a single-column query and returns the values.
func (s *Toolset) queryStrings(tc *core.ToolContext, query string) ([]string, error) {
	rows, err := s.conn.Query(tc.Context, query)
	if err != nil {
		return nil, fmt.Errorf("clickhouse query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("clickhouse scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// queryRows runs a query and returns up to MaxRows rows as column-keyed maps.
func (s *Toolset) queryRows(tc *core.ToolContext, query string) (map[string]any, error) {
	rows, err := s.conn.Query(tc.Context, query)
	if err != nil {
		return nil, fmt.Errorf("clickhouse query: %w", err)
	}
	defer rows.Close()

	columns := rows.Columns()
	types := rows.ColumnTypes()

	var out []map[string]any
	truncated := false
	for rows.Next() {
		if len(out) >= s.opts.MaxRows {
			truncated = true
			break
		}
		values := make([]any, len(columns))
		for i, ct := range types {
			values[i] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(values...); err != nil {
			return nil, fmt.Errorf("clickhouse scan: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = reflect.ValueOf(values[i]).Elem().Interface()
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return map[string]any{
		"columns":   columns,
		"rows":      out,
		"row_count": len(out),
		"truncated": truncated,
	}, nil
}

// readOnlyPrefixes are the statement kinds run_query accepts.
var readOnlyPrefixes = []string{"SELECT", "SHOW", "DESCRIBE", "DESC", "EXISTS", "WITH"}

func checkReadOnly(query string) error {
	trimmed := strings.ToUpper(strings.TrimSpace(query))
	if trimmed == "" {
		return fmt.Errorf("empty query")
	}
	for _, p := range readOnlyPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return nil
		}
	}
	return fmt.Errorf("only read-only queries are allowed (SELECT, SHOW, DESCRIBE)")
}

// identifierArg extracts a string argument and checks it is a plain SQL
// identifier, preventing injection through interpolated names.
func identifierArg(args map[string]any, name string) (string, error) {
	v, _ := args[name].(string)
	if v == "" {
		return "", tool.NewToolError(name, "missing required argument: "+name, tool.CodeValidation)
	}
	for _, r := range v {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return "", tool.NewToolError(name, fmt.Sprintf("invalid identifier %q", v), tool.CodeValidation)
		}
	}
	return v, nil
}
