package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"strings"

	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/utils"
)

// SignatureService turns an uploaded signature into a stored PNG and hands back its URL.
type SignatureService struct {
	store  SignatureStore
	logger *log.Logger
}

func NewSignatureService(store SignatureStore) *SignatureService {
	return &SignatureService{
		store:  store,
		logger: log.New(os.Stdout, "[UPLOADS] ", log.LstdFlags),
	}
}

func (s *SignatureService) UploadSignature(ctx context.Context, req models.SignatureUploadRequest) (*models.SignatureUploadResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	raw, err := utils.DecodeImagePayload(req.Image)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrEmptyImage):
			return nil, InvalidInput("image is required")
		case errors.Is(err, utils.ErrImageTooLarge):
			return nil, InvalidInput("Image too large")
		}
		return nil, InvalidInput("Invalid image data")
	}

	png, err := utils.NormalizeSignatureImage(raw)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidImage) {
			return nil, InvalidInput("Invalid image data")
		}
		return nil, Internal("Failed to process image", err)
	}

	name := path.Join("signatures", uuid.NewString()+".png")
	url, err := s.store.Save(ctx, name, png)
	if err != nil {
		return nil, UpstreamFailure("Upload failed", err)
	}

	s.logger.Printf("Signature stored - %s (%d bytes)", name, len(png))
	return &models.SignatureUploadResult{URL: url}, nil
}

// LocalSignatureStore writes signatures below dir; they are served under baseURL.
type LocalSignatureStore struct {
	dir     string
	baseURL string
}

func NewLocalSignatureStore(dir, baseURL string) *LocalSignatureStore {
	return &LocalSignatureStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *LocalSignatureStore) Save(_ context.Context, name string, data []byte) (string, error) {
	rel, err := utils.SaveUpload(l.dir, name, data)
	if err != nil {
		return "", err
	}
	return l.baseURL + "/uploads/" + rel, nil
}

// FirebaseSignatureStore writes signatures to a Cloud Storage bucket through the
// Firebase Admin SDK.
type FirebaseSignatureStore struct {
	app    *firebase.App
	bucket string
}

func NewFirebaseSignatureStore(app *firebase.App, bucket string) *FirebaseSignatureStore {
	return &FirebaseSignatureStore{app: app, bucket: bucket}
}

func (f *FirebaseSignatureStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	client, err := f.app.Storage(ctx)
	if err != nil {
		return "", fmt.Errorf("storage client: %w", err)
	}
	bucket, err := client.Bucket(f.bucket)
	if err != nil {
		return "", fmt.Errorf("bucket %s: %w", f.bucket, err)
	}

	w := bucket.Object(name).NewWriter(ctx)
	w.ContentType = "image/png"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", f.bucket, name), nil
}
