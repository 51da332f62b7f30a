package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	in := `create table a (id text);
insert into a values ('x;y');
create index idx on a (id);`

	stmts := splitStatements(in)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(stmts), stmts)
	}
	if want := `insert into a values ('x;y');`; stmts[1] != "\n"+want {
		t.Fatalf("semicolon inside string split incorrectly: %q", stmts[1])
	}
}

func TestCollectSQLOrdersAndFilters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.up.sql", "0001_a.up.sql", "0001_a.down.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("select 1;"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	files, err := collectSQL(dir, ".up.sql")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 up files, got %d", len(files))
	}
	if files[0].Base != "0001_a.up.sql" || files[1].Base != "0002_b.up.sql" {
		t.Fatalf("wrong order: %v", files)
	}
}

func TestCollectSQLMissingDir(t *testing.T) {
	files, err := collectSQL(filepath.Join(t.TempDir(), "absent"), ".up.sql")
	if err != nil {
		t.Fatalf("expected nil error for missing dir, got %v", err)
	}
	if files != nil {
		t.Fatalf("expected no files, got %v", files)
	}
}
