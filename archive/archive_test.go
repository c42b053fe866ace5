package archive

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "orgs_test-file.csv", sanitizeFilename("orgs_test-file.csv"))
	assert.Equal(t, "my_file__1_.xlsx", sanitizeFilename("my file (1).xlsx"))
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "file", sanitizeFilename(""))
	assert.Equal(t, "file", sanitizeFilename(".."))
	assert.Len(t, sanitizeFilename(strings.Repeat("a", 200)), 100)
}

func TestObjectKey(t *testing.T) {
	now := time.Unix(1714521600, 0)
	assert.Equal(t, "imports/1714521600_doctors_2025.csv", objectKey("doctors 2025.csv", now))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", contentType("a.CSV"))
	assert.Equal(t, "application/vnd.ms-excel", contentType("a.xls"))
	assert.Equal(t, "application/octet-stream", contentType("a.bin"))
}

func TestNewFromConfig(t *testing.T) {
	a, err := NewFromConfig(context.Background(), "none")
	require.NoError(t, err)
	assert.IsType(t, Nop{}, a)

	_, err = NewFromConfig(context.Background(), "ftp")
	assert.Error(t, err)

	t.Setenv("IMPORT_ARCHIVE_S3_BUCKET", "")
	_, err = NewFromConfig(context.Background(), "s3")
	assert.ErrorContains(t, err, "IMPORT_ARCHIVE_S3_BUCKET")

	t.Setenv("FIREBASE_STORAGE_BUCKET", "")
	_, err = NewFromConfig(context.Background(), "firebase")
	assert.ErrorContains(t, err, "FIREBASE_STORAGE_BUCKET")
}

type putRecorder struct {
	mu          sync.Mutex
	path        string
	body        string
	contentType string
}

func TestS3ArchiveUploadsFile(t *testing.T) {
	rec := &putRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.path = r.URL.Path
		rec.body = string(body)
		rec.contentType = r.Header.Get("Content-Type")
		rec.mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := NewS3(context.Background(), S3Config{
		Bucket:          "imports-bucket",
		Endpoint:        srv.URL,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
	})
	require.NoError(t, err)
	a.now = func() time.Time { return time.Unix(1700000000, 0) }

	path := filepath.Join(t.TempDir(), "upload.csv")
	require.NoError(t, os.WriteFile(path, []byte("name\nOrg A\n"), 0o600))

	loc, err := a.Archive(context.Background(), path, "orgs.csv")
	require.NoError(t, err)
	assert.Equal(t, "s3://imports-bucket/imports/1700000000_orgs.csv", loc)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, "/imports-bucket/imports/1700000000_orgs.csv", rec.path)
	assert.Contains(t, rec.body, "Org A")
	assert.Equal(t, "text/csv", rec.contentType)
}

func TestS3ArchiveMissingFile(t *testing.T) {
	a, err := NewS3(context.Background(), S3Config{Bucket: "b", AccessKeyID: "AKIA", SecretAccessKey: "SECRET"})
	require.NoError(t, err)

	_, err = a.Archive(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), "missing.csv")
	assert.Error(t, err)
}
