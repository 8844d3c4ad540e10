package repositories

import (
	"fmt"
	"strings"
)

// Dialect selects the SQL flavor used for placeholders.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite"
	case Postgres:
		return "postgres"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// bind returns the placeholder for the n-th (1-based) query argument.
func (d Dialect) bind(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns n comma separated bind parameters starting at from.
func (d Dialect) placeholders(from, n int) string {
	ph := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ph = append(ph, d.bind(from+i))
	}
	return strings.Join(ph, ", ")
}
