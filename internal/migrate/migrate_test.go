package migrate

import (
	"io/fs"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/and161185/studylife/migrations"
)

func TestGooseLogger_Printf(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	l := gooseLogger{s: zap.New(core).Sugar()}
	l.Printf("OK   %s (%s)\n", "00001_init.sql", "12ms")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	if got := entries[0].Message; got != "OK   00001_init.sql (12ms)" {
		t.Fatalf("message: %q", got)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(names) < 2 {
		t.Fatalf("want schema and seed migrations, got %v", names)
	}
	for _, n := range names {
		b, err := fs.ReadFile(migrations.FS, n)
		if err != nil {
			t.Fatalf("read %s: %v", n, err)
		}
		s := string(b)
		if !strings.Contains(s, "-- +goose Up") || !strings.Contains(s, "-- +goose Down") {
			t.Fatalf("%s: missing goose annotations", n)
		}
	}
}
