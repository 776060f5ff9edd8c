package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_CreateReadStat(t *testing.T) {
	var fsys FileSystem = OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "reports", "run")

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	path := filepath.Join(dir, "out.txt")
	w, err := fsys.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil || string(data) != "hello" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
	info, err := fsys.Stat(path)
	if err != nil || info.Size() != 5 {
		t.Errorf("Stat = %v, %v", info, err)
	}
	if _, err := fsys.Stat(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Stat(missing) error = %v, want not exist", err)
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	m := NewMemoryFileSystem()
	m.WriteFile("traces/./a.json", []byte(`{"dimension":2}`))

	data, err := m.ReadFile("traces/a.json")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `{"dimension":2}` {
		t.Errorf("ReadFile = %q", data)
	}

	// Returned data is a copy.
	data[0] = 'x'
	again, _ := m.ReadFile("traces/a.json")
	if again[0] != '{' {
		t.Error("ReadFile result aliases stored data")
	}
}

func TestMemoryFileSystem_CreateCommitsOnClose(t *testing.T) {
	m := NewMemoryFileSystem()
	w, err := m.Create("out.html")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, _ = w.Write([]byte("<html>"))

	if data, _ := m.ReadFile("out.html"); len(data) != 0 {
		t.Errorf("data visible before Close: %q", data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if data, _ := m.ReadFile("out.html"); string(data) != "<html>" {
		t.Errorf("ReadFile after Close = %q", data)
	}
}

func TestMemoryFileSystem_Stat(t *testing.T) {
	m := NewMemoryFileSystem()
	m.WriteFile("a/b.json", []byte("123"))
	if err := m.MkdirAll("plots/run/1", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	info, err := m.Stat("a/b.json")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Name() != "b.json" || info.Size() != 3 || info.IsDir() {
		t.Errorf("unexpected file info: name=%s size=%d dir=%v", info.Name(), info.Size(), info.IsDir())
	}

	for _, dir := range []string{"plots", "plots/run", "plots/run/1"} {
		info, err := m.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("Stat(%s) = %v, %v; want directory", dir, info, err)
		}
	}

	if _, err := m.Stat("nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat(nope) error = %v, want ErrNotExist", err)
	}
	if _, err := m.ReadFile("nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile(nope) error = %v, want ErrNotExist", err)
	}
}
