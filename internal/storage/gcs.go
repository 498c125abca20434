package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSClient shares exported template packages through a bucket so a package
// can move between installations without a manual file transfer.
type GCSClient struct {
	client     *storage.Client
	bucketName string
}

func NewGCSClient(bucketName, credentialsPath string) (*GCSClient, error) {
	ctx := context.Background()

	var client *storage.Client
	var err error

	if credentialsPath != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsPath))
	} else {
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// UploadPackage writes a package archive to the bucket and returns its
// object name.
func (g *GCSClient) UploadPackage(ctx context.Context, reader io.Reader, templateID string) (string, error) {
	objectName := PackageObjectName(templateID)
	obj := g.client.Bucket(g.bucketName).Object(objectName)

	writer := obj.NewWriter(ctx)
	writer.ContentType = "application/zip"

	if _, err := io.Copy(writer, reader); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to write package to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return objectName, nil
}

// GetSignedURL returns a V4 signed download link for a shared package.
func (g *GCSClient) GetSignedURL(objectName string, expiry time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	}

	url, err := g.client.Bucket(g.bucketName).SignedURL(objectName, opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}

	return url, nil
}

func (g *GCSClient) Close() error {
	return g.client.Close()
}

func PackageObjectName(templateID string) string {
	return fmt.Sprintf("packages/%s/%d.zip", templateID, time.Now().Unix())
}
