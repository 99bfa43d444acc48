package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStorageSaveReader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads", "cv")
	storage := NewStorageService(dir)
	if err := storage.EnsureUploadDir(); err != nil {
		t.Fatalf("EnsureUploadDir: %v", err)
	}

	doc, err := storage.SaveReader(strings.NewReader("%PDF-1.7 content"), "../My CV.PDF", "application/pdf")
	if err != nil {
		t.Fatalf("SaveReader: %v", err)
	}

	if filepath.Dir(doc.Path) != dir {
		t.Fatalf("file saved outside the upload dir: %s", doc.Path)
	}
	if filepath.Ext(doc.Path) != ".pdf" {
		t.Fatalf("unexpected extension in %s", doc.Path)
	}
	if doc.OriginalFilename != "My CV.PDF" || doc.DeclaredFormat != "application/pdf" {
		t.Fatalf("unexpected metadata %+v", doc)
	}
	if doc.Size != int64(len("%PDF-1.7 content")) {
		t.Fatalf("unexpected size %d", doc.Size)
	}

	data, err := os.ReadFile(doc.Path)
	if err != nil || string(data) != "%PDF-1.7 content" {
		t.Fatalf("unexpected file content %q, %v", data, err)
	}

	if err := doc.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := doc.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	assertRemoved(t, doc.Path)
}

func TestStorageSaveReaderMissingDir(t *testing.T) {
	storage := NewStorageService(filepath.Join(t.TempDir(), "missing"))

	if _, err := storage.SaveReader(strings.NewReader("x"), "cv.pdf", ""); err == nil {
		t.Fatal("expected an error for a missing upload dir")
	}
}
