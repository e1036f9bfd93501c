package storage

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	return NewStore(filepath.Join(base, "images"), filepath.Join(base, "audios"))
}

func TestSaveReaderAndOpen(t *testing.T) {
	s := newTestStore(t)

	name, err := s.SaveReader(s.ImagesDir, ".PNG", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("extension should be lowercased, got %q", name)
	}

	r, err := s.Open(s.ImagesDir, name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	s := newTestStore(t)

	first, err := s.SaveReader(s.AudiosDir, ".mp3", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := s.SaveReader(s.AudiosDir, ".mp3", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first == second {
		t.Fatal("two saves must not share a name")
	}
}

func TestOpenMissingFile(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Open(s.ImagesDir, "does-not-exist.png")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestOpenRejectsPathTraversal(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Open(s.ImagesDir, "../etc/passwd"); err == nil {
		t.Fatal("traversal name must be rejected")
	}
}

func TestDeleteRejectsPathTraversal(t *testing.T) {
	s := newTestStore(t)

	if err := s.Delete(s.ImagesDir, "../../etc/passwd"); err == nil {
		t.Fatal("traversal name must be rejected")
	}
	if err := s.Delete(s.ImagesDir, ""); err == nil {
		t.Fatal("empty name must be rejected")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	name, err := s.SaveReader(s.ImagesDir, ".jpg", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.Delete(s.ImagesDir, name); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.Delete(s.ImagesDir, name); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if _, err := s.Open(s.ImagesDir, name); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("file should be gone, got %v", err)
	}
}
