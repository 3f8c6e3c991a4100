//go:build !sqlite

package sink

import (
	"errors"
	"testing"
)

func TestSQLiteUnavailable(t *testing.T) {
	if _, err := NewTable("sqlite", "x.db", "run", nil); !errors.Is(err, ErrUnsupportedBackend) {
		t.Fatalf("err=%v", err)
	}
}
