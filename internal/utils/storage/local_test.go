package storage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"RecipeHub-Backend/domain"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func newFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", name)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestLocalStorageUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "uploads")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	key, err := s.UploadFile("cover", newFileHeader(t, "cover.png", pngBytes), "recipes", AllowImage...)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if key != "recipes/cover.png" {
		t.Errorf("expected key recipes/cover.png, got %s", key)
	}
	if _, err := os.Stat(filepath.Join(dir, "recipes", "cover.png")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	link := s.GetPublicLinkKey(key)
	if link != "/uploads/recipes/cover.png" {
		t.Errorf("unexpected link %s", link)
	}
	if got := s.GetObjectKeyFromLink(link); got != key {
		t.Errorf("expected key %s from link, got %s", key, got)
	}
	if got := s.GetObjectKeyFromLink("https://elsewhere.example/x.png"); got != "" {
		t.Errorf("expected empty key for foreign link, got %s", got)
	}

	if err := s.DeleteFile(key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "recipes", "cover.png")); !os.IsNotExist(err) {
		t.Errorf("expected file to be removed, stat err: %v", err)
	}
	if err := s.DeleteFile(key); err != nil {
		t.Errorf("deleting a missing file should be a no-op, got %v", err)
	}
}

func TestLocalStorageRejectsNonImage(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	_, err = s.UploadFile("notes", newFileHeader(t, "notes.png", []byte("just some text")), "recipes", AllowImage...)
	if !errors.Is(err, domain.ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
}

func TestLocalStorageKeysStayInsideDir(t *testing.T) {
	dir := t.TempDir()
	ls := &localStorage{dir: dir, publicPath: "/uploads"}

	got := ls.path("../../etc/passwd")
	want := filepath.Join(dir, "etc", "passwd")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
