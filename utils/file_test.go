package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSubmissionPhotoKey(t *testing.T) {
	key := SubmissionPhotoKey("plastic bottle", ".jpg")
	if !strings.HasPrefix(key, "submissions/plastic-bottle/") {
		t.Errorf("key = %q, want submissions/plastic-bottle/ prefix", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key = %q, want .jpg suffix", key)
	}
	if other := SubmissionPhotoKey("plastic bottle", ".jpg"); other == key {
		t.Error("keys are not unique")
	}
}

func TestSavePhotoLocally(t *testing.T) {
	dir := t.TempDir()
	old, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(old)

	url, err := SavePhotoLocally([]byte("fake-jpeg"), "submissions/glass/abc.jpg")
	if err != nil {
		t.Fatalf("SavePhotoLocally: %v", err)
	}
	if url != "/uploads/submissions/glass/abc.jpg" {
		t.Errorf("url = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "uploads", "submissions", "glass", "abc.jpg"))
	if err != nil || string(data) != "fake-jpeg" {
		t.Errorf("stored file wrong: %q, %v", data, err)
	}
}
