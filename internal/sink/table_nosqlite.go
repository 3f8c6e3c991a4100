//go:build !sqlite

package sink

import "fmt"

func newSQLiteTable(_, _ string, _ []string) (Table, error) {
	return nil, fmt.Errorf("%w: sqlite, rebuild with -tags sqlite", ErrUnsupportedBackend)
}
