// Package objstore holds the object-storage client for repayment proof
// images.
package objstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const (
	proofFolder  = "proofs"
	signedURLTTL = 15 * time.Minute
)

type GCSStore struct {
	client     *storage.Client
	bucketName string
}

func NewGCSStore(ctx context.Context, bucketName string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: client, bucketName: bucketName}, nil
}

func (g *GCSStore) Close() error { return g.client.Close() }

// Upload stores a proof image under a fresh object name and returns that
// name. The DoesNotExist precondition makes a name collision fail loudly
// instead of overwriting someone else's proof.
func (g *GCSStore) Upload(ctx context.Context, loanID string, data []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/%s/%s", proofFolder, loanID, uuid.NewString())
	object := g.client.Bucket(g.bucketName).Object(objectName)

	w := object.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("write proof object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close proof object: %w", err)
	}
	return objectName, nil
}

// SignedURL hands out a short-lived read link for a stored proof.
func (g *GCSStore) SignedURL(object string) (string, error) {
	return g.client.Bucket(g.bucketName).SignedURL(object, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(signedURLTTL),
	})
}
