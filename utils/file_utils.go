package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// Maximum decoded upload size (10MB)
	MaxUploadSize = 10 * 1024 * 1024

	// Bounding box signatures are scaled down into
	signatureMaxWidth  = 1200
	signatureMaxHeight = 600
)

var (
	ErrEmptyImage    = errors.New("image is required")
	ErrImageTooLarge = fmt.Errorf("image too large. Maximum size is %d bytes", MaxUploadSize)
	ErrInvalidImage  = errors.New("invalid image data")

	dataURIRegex = regexp.MustCompile(`^data:image/(png|jpe?g|gif);base64,`)
	cleanRegex   = regexp.MustCompile(`[^a-zA-Z0-9./-]`)
)

// DecodeImagePayload accepts either a data URI (data:image/png;base64,...) or a bare
// base64 string and returns the raw bytes.
func DecodeImagePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmptyImage
	}

	if strings.HasPrefix(payload, "data:") {
		loc := dataURIRegex.FindStringIndex(payload)
		if loc == nil {
			return nil, ErrInvalidImage
		}
		payload = payload[loc[1]:]
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxUploadSize {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients send unpadded or URL-safe base64
		data, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, ErrInvalidImage
		}
	}
	return data, nil
}

// NormalizeSignatureImage decodes an image, scales it down into the signature bounding
// box and re-encodes it as PNG.
func NormalizeSignatureImage(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	img = imaging.Fit(img, signatureMaxWidth, signatureMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// cleanPath removes any potentially dangerous characters and parent references from a
// relative upload path
func cleanPath(relPath string) string {
	relPath = cleanRegex.ReplaceAllString(relPath, "")
	relPath = filepath.Clean("/" + relPath)
	return strings.TrimPrefix(relPath, "/")
}

// SaveUpload writes data below baseDir and returns the cleaned relative path.
func SaveUpload(baseDir, relPath string, data []byte) (string, error) {
	relPath = cleanPath(relPath)
	if relPath == "" || relPath == "." {
		return "", errors.New("invalid upload path")
	}

	fullPath := filepath.Join(baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return filepath.ToSlash(relPath), nil
}
