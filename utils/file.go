package utils

import (
	"os"
	"path/filepath"
)

// EnsureUploadDir creates the uploads directory if it doesn't exist.
// Local uploads are the fallback when R2 is not configured.
func EnsureUploadDir() error {
	return os.MkdirAll("uploads", os.ModePerm)
}

// SavePhotoLocally writes photo bytes under uploads/ and returns the public path.
func SavePhotoLocally(data []byte, key string) (string, error) {
	destPath := filepath.Join("uploads", filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return "", err
	}
	return "/uploads/" + key, nil
}

// R2Enabled reports whether the R2 photo store is configured.
func R2Enabled() bool {
	return os.Getenv("R2_BUCKET_NAME") != ""
}
