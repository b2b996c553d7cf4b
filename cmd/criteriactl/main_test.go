package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const userSchemaDoc = `name: User
fields:
  - name: name
    kind: string
    value_object: true
  - name: age
    kind: integer
    value_object: true
    column: age_years
  - name: passwordHash
    kind: string
`

func run(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "user.yaml")
	if err := os.WriteFile(schemaPath, []byte(userSchemaDoc), 0o600); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}
	if config != "" {
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(config), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
	}

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--schema", schemaPath, "--config", dir))
	err := root.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := run(t, "", "validate", "--filter", `name = "al" AND age >= 18`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "ok: 2 filter(s) on User") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestValidateRejectsRawField(t *testing.T) {
	if _, err := run(t, "", "validate", "--filter", `passwordHash = "x"`); err == nil {
		t.Fatalf("expected raw field to be rejected")
	}
}

func TestTranslateSQL(t *testing.T) {
	out, err := run(t, "translate:\n  table: users\n", "translate", "--filter", "age > 18")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"users"."age_years" > @p1`) || !strings.Contains(out, "@p1 = 18") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestTranslateEmptyFilter(t *testing.T) {
	out, err := run(t, "", "translate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "-- no condition") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestTranslateGorm(t *testing.T) {
	out, err := run(t, "", "translate", "--target", "gorm", "--table", "users", "--filter", `name = "al"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `FROM "users" WHERE`) || !strings.Contains(out, `'al'`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestColumnMappingFromConfig(t *testing.T) {
	config := "translate:\n  columns:\n    name: full_name\n"
	out, err := run(t, config, "translate", "--filter", `name = "al"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"full_name" = @p1`) {
		t.Fatalf("expected mapped column, got %q", out)
	}
}

func TestCountRequiresTable(t *testing.T) {
	if _, err := run(t, "", "count", "--filter", "age > 1"); err == nil {
		t.Fatalf("expected missing table error")
	}
}
