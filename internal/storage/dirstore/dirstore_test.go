package dirstore

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

type testMeta struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestWriteReadMeta(t *testing.T) {
	ds := NewDirStore(t.TempDir(), "thing")
	id := "abc123"

	if err := ds.EnsureDir(id); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}

	want := testMeta{Name: "hello", Value: 42}
	if err := ds.WriteMeta(id, want); err != nil {
		t.Fatalf("WriteMeta: %v", err)
	}

	var got testMeta
	if err := ds.ReadMeta(id, &got); err != nil {
		t.Fatalf("ReadMeta: %v", err)
	}
	if got != want {
		t.Errorf("ReadMeta = %+v, want %+v", got, want)
	}

	if _, err := os.Stat(ds.FilePath(id, "meta.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestReadMetaNotFound(t *testing.T) {
	ds := NewDirStore(t.TempDir(), "widget")

	var out testMeta
	err := ds.ReadMeta("nonexistent", &out)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if want := "widget not found: nonexistent"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestInvalidIDs(t *testing.T) {
	ds := NewDirStore(t.TempDir(), "build")
	for _, id := range []string{"", ".", "..", "../etc", `a\b`} {
		if err := ds.EnsureDir(id); err == nil {
			t.Errorf("EnsureDir(%q) succeeded", id)
		}
		if _, err := ds.ReadFile(id, "meta.json"); !errors.Is(err, ErrNotFound) {
			t.Errorf("ReadFile(%q) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestRemoveDir(t *testing.T) {
	ds := NewDirStore(t.TempDir(), "build")
	if err := ds.EnsureDir("x"); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := ds.RemoveDir("x"); err != nil {
		t.Fatalf("RemoveDir: %v", err)
	}
	if err := ds.RemoveDir("x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second RemoveDir err = %v, want ErrNotFound", err)
	}
}

func TestListDirs(t *testing.T) {
	base := t.TempDir()
	ds := NewDirStore(base, "item")

	for _, name := range []string{"dir_a", "dir_b", "dir_c"} {
		if err := os.MkdirAll(filepath.Join(base, name), 0o755); err != nil {
			t.Fatalf("MkdirAll %s: %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(base, "not_a_dir.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	dirs, err := ds.ListDirs()
	if err != nil {
		t.Fatalf("ListDirs: %v", err)
	}

	sort.Strings(dirs)
	want := []string{"dir_a", "dir_b", "dir_c"}
	if len(dirs) != len(want) {
		t.Fatalf("ListDirs = %v, want %v", dirs, want)
	}
	for i, d := range dirs {
		if d != want[i] {
			t.Errorf("dirs[%d] = %q, want %q", i, d, want[i])
		}
	}
}

func TestListDirsMissingBase(t *testing.T) {
	ds := NewDirStore(filepath.Join(t.TempDir(), "nope"), "item")
	dirs, err := ds.ListDirs()
	if err != nil || dirs != nil {
		t.Errorf("ListDirs = %v, %v; want nil, nil", dirs, err)
	}
}

func TestJSONL(t *testing.T) {
	ds := NewDirStore(t.TempDir(), "thing")
	if err := ds.EnsureDir("a"); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}

	items := []testMeta{{"one", 1}, {"two", 2}}
	if err := WriteJSONL(ds, "a", "rows.jsonl", items); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}

	got, err := LoadJSONL[testMeta](ds, "a", "rows.jsonl")
	if err != nil {
		t.Fatalf("LoadJSONL: %v", err)
	}
	if len(got) != 2 || got[0] != items[0] || got[1] != items[1] {
		t.Errorf("LoadJSONL = %+v, want %+v", got, items)
	}

	missing, err := LoadJSONL[testMeta](ds, "a", "missing.jsonl")
	if err != nil || missing != nil {
		t.Errorf("missing file = %v, %v; want nil, nil", missing, err)
	}
}

func TestLoadJSONLSkipsCorruptLines(t *testing.T) {
	ds := NewDirStore(t.TempDir(), "thing")
	if err := ds.EnsureDir("a"); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	content := []byte("{\"name\":\"ok\",\"value\":1}\nnot json\n\n{\"name\":\"ok2\",\"value\":2}\n")
	if err := ds.WriteFileAtomic("a", "rows.jsonl", content); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	got, err := LoadJSONL[testMeta](ds, "a", "rows.jsonl")
	if err != nil {
		t.Fatalf("LoadJSONL: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("LoadJSONL = %+v, want 2 items", got)
	}
}
