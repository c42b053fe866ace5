package archive

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// Firebase archives uploads to a Firebase Storage bucket. Objects stay
// private.
type Firebase struct {
	app    *firebase.App
	bucket string
	now    func() time.Time
}

// NewFirebase initializes the Firebase app from GOOGLE_APPLICATION_CREDENTIALS,
// which may hold either a credentials file path or the JSON itself.
func NewFirebase(ctx context.Context, bucket string) (*Firebase, error) {
	if bucket == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	var opts []option.ClientOption
	if credJSON := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credJSON != "" {
		if strings.HasPrefix(credJSON, "{") {
			log.Println("[archive] using Firebase credentials from environment variable")
			opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
		} else {
			log.Println("[archive] using Firebase credentials from file:", credJSON)
			opts = append(opts, option.WithCredentialsFile(credJSON))
		}
	} else {
		log.Println("[archive] GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase init failed: %w", err)
	}
	return &Firebase{app: app, bucket: bucket, now: time.Now}, nil
}

func (f *Firebase) Archive(ctx context.Context, localPath, name string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	client, err := f.app.Storage(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get storage client: %w", err)
	}
	bucket, err := client.Bucket(f.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to get bucket: %w", err)
	}

	objectPath := objectKey(name, f.now())
	// Never overwrite an earlier archive with the same key.
	obj := bucket.Object(objectPath).If(storage.Conditions{DoesNotExist: true})
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType(name)
	wc.Metadata = map[string]string{"originalName": name}

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", f.bucket, objectPath), nil
}
