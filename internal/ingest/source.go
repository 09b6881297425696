// Package ingest bulk-loads source extracts into the raw tables with
// full-refresh semantics. It is deliberately mechanical: fields are stored
// exactly as received and all repair belongs to the conformance stage.
// Structural problems (an unreadable file, a ragged CSV line) are errors
// here; value-level defects are not.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
)

const gcsPrefix = "gs://"

// FetchSource returns the bytes of a source extract. Paths starting with
// gs:// are read from Google Cloud Storage (Application Default Credentials
// assumed); anything else is a local file path.
func FetchSource(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, gcsPrefix) {
		return fetchFromGCS(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("FetchSource: reading local file %q: %w", path, err)
	}
	return data, nil
}

func fetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	trimmed := strings.TrimPrefix(gcsURI, gcsPrefix)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}

	bucketName := parts[0]
	objectPath := parts[1]

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: reading object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: reading bytes: %w", err)
	}

	return data, nil
}
