// Package migrations embeds the schema files run by the migrate command.
package migrations

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed *.sql clickhouse/*.sql
var files embed.FS

// MySQL returns the statements of the MySQL schema, in file order.
func MySQL() ([]string, error) { return load("001_init.sql") }

// ClickHouse returns the statements of the ClickHouse schema.
func ClickHouse() ([]string, error) { return load("clickhouse/001_init.sql") }

func load(name string) ([]string, error) {
	b, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read migration %s: %w", name, err)
	}
	return Split(string(b)), nil
}

// Split cuts a script into statements on ';' line endings. Neither schema
// contains semicolons inside literals.
func Split(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
