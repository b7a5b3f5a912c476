package filehandler

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestGetMIMEType(t *testing.T) {
	tests := []struct {
		ext      string
		expected string
	}{
		{".mp4", "video/mp4"},
		{".MP4", "video/mp4"},
		{".mov", "video/quicktime"},
		{".webm", "video/webm"},
	}

	for _, tt := range tests {
		got, err := GetMIMEType(tt.ext)
		if err != nil {
			t.Errorf("GetMIMEType(%q): unexpected error: %v", tt.ext, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("GetMIMEType(%q): got %q, want %q", tt.ext, got, tt.expected)
		}
	}
}

func TestGetMIMEType_Unsupported(t *testing.T) {
	for _, ext := range []string{".jpg", ".txt", ".exe", ""} {
		if _, err := GetMIMEType(ext); err == nil {
			t.Errorf("GetMIMEType(%q): expected error for unsupported extension", ext)
		}
	}
}

func TestIsVideo(t *testing.T) {
	if !IsVideo(".mp4") {
		t.Error("expected .mp4 to be a video")
	}
	if IsVideo(".png") {
		t.Error("expected .png not to be a video")
	}
}

func TestSaveUpload(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	content := []byte("fake video bytes")
	up, err := SaveUpload(bytes.NewReader(content), "clip.mp4", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer up.Remove()

	if up.MIMEType != "video/mp4" {
		t.Errorf("expected MIME type video/mp4, got %q", up.MIMEType)
	}
	if up.Size != int64(len(content)) {
		t.Errorf("expected size %d, got %d", len(content), up.Size)
	}

	saved, err := os.ReadFile(up.Path)
	if err != nil {
		t.Fatalf("failed to read saved upload: %v", err)
	}
	if !bytes.Equal(saved, content) {
		t.Error("saved content does not match upload")
	}
}

func TestSaveUpload_UnsupportedExtension(t *testing.T) {
	_, err := SaveUpload(strings.NewReader("data"), "notes.txt", 0)
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestSaveUpload_TooLarge(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	_, err := SaveUpload(strings.NewReader("0123456789"), "clip.mp4", 5)
	if !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("expected ErrUploadTooLarge, got %v", err)
	}
}

func TestUploadRemove(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	up, err := SaveUpload(strings.NewReader("data"), "clip.webm", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	up.Remove()
	if _, err := os.Stat(up.Path); !os.IsNotExist(err) {
		t.Error("expected upload file to be removed")
	}

	// Second Remove must be a no-op.
	up.Remove()
}
