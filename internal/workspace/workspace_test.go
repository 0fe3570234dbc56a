package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pipe01/tmplint/internal/validator"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, contents := range files {
		path := filepath.Join(root, name)

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create dir: %s", err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("failed to write file: %s", err)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"index.html":            "<p></p>",
		"notes.txt":             "<p>",
		"partials/row.hbs":      "{{#if x}}{{/if}}",
		"partials/Card.HTML":    "<div></div>",
		"partials/deep/x.jinja": "{% if %}",
	})

	ws := New(root, Options{})

	files, err := ws.Discover([]string{"partials", "notes.txt", "partials/row.hbs"})
	if err != nil {
		t.Fatalf("failed to discover files: %s", err)
	}

	want := []string{
		"notes.txt",
		filepath.Join("partials", "Card.HTML"),
		filepath.Join("partials", "row.hbs"),
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}

	if _, err := ws.Discover([]string{"missing"}); err == nil {
		t.Fatalf("expected an error for a missing path")
	}
}

func TestCheckAll(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.html": "<div>\n  <p>ok</p>\n</div>",
		"b.html": "<div>\n  </div>",
		"c.html": "<b>foo</i>",
		"d.html": "{{#with x}}",
	})

	ws := New(root, Options{
		Validator: validator.Options{CheckIndentation: true},
		Jobs:      2,
	})

	paths := []string{"a.html", "b.html", "c.html", "d.html", "e.html"}

	results, err := ws.CheckAll(context.Background(), paths)
	if err != nil {
		t.Fatalf("failed to check files: %s", err)
	}

	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}

	for i, r := range results {
		if r.Path != paths[i] {
			t.Fatalf("result %d is for %q, expected %q", i, r.Path, paths[i])
		}
	}

	if results[0].Err != nil {
		t.Fatalf("expected a.html to be valid, got: %s", results[0].Err)
	}
	if !errors.Is(results[1].Err, validator.ErrBadIndentation) {
		t.Fatalf("expected bad indentation in b.html, got: %v", results[1].Err)
	}
	if !errors.Is(results[2].Err, validator.ErrMismatchedTag) {
		t.Fatalf("expected mismatched tag in c.html, got: %v", results[2].Err)
	}
	if !errors.Is(results[3].Err, validator.ErrMissingEndTag) {
		t.Fatalf("expected missing end tag in d.html, got: %v", results[3].Err)
	}
	if !errors.Is(results[4].Err, os.ErrNotExist) {
		t.Fatalf("expected e.html to be missing, got: %v", results[4].Err)
	}

	var verr *validator.ValidationError
	if errors.As(results[2].Err, &verr) && verr.At().File != "c.html" {
		t.Fatalf("expected error to be labelled c.html, got %q", verr.At().File)
	}

	if got := len(ws.CheckedFiles()); got != 4 {
		t.Fatalf("expected 4 checked files, got %d", got)
	}
}

func TestCheckAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ws := New(t.TempDir(), Options{})

	_, err := ws.CheckAll(ctx, []string{"a.html"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}

func TestCheckContents(t *testing.T) {
	ws := New(t.TempDir(), Options{})

	err := ws.CheckContents("mem.html", []byte("<p>\n    </p>"))
	if err != nil {
		t.Fatalf("expected no error without indentation checks, got: %s", err)
	}
}
