package db

import (
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/rpattn/dddkit/pkg/translate/pgsql"
)

func TestDefaultConfigDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password = "secret"
	dsn := cfg.DSN()
	if !strings.Contains(dsn, "host=localhost") || !strings.Contains(dsn, "port=5432") || !strings.Contains(dsn, "password=secret") {
		t.Fatalf("unexpected dsn %q", dsn)
	}

	cfg.Password = ""
	if dsn := cfg.DSN(); strings.Contains(dsn, "password") {
		t.Fatalf("expected empty password to be left out, got %q", dsn)
	}
	cfg.Password = "it's secret"
	if dsn := cfg.DSN(); !strings.Contains(dsn, `password='it\'s secret'`) {
		t.Fatalf("expected quoted password, got %q", dsn)
	}
}

func TestCountQuery(t *testing.T) {
	q, err := CountQuery("users", pgsql.Condition{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != `SELECT count(*) FROM "users"` {
		t.Fatalf("unexpected query %q", q)
	}

	q, err = CountQuery("users", pgsql.Condition{Clause: `"users"."age" > @p1`, Args: pgx.NamedArgs{"p1": int64(3)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != `SELECT count(*) FROM "users" WHERE "users"."age" > @p1` {
		t.Fatalf("unexpected query %q", q)
	}

	if _, err := CountQuery("", pgsql.Condition{}); err == nil {
		t.Fatalf("expected missing table error")
	}
}
