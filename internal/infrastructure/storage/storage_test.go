package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smilecare.backend/internal/config"
)

func TestNewKeyLayout(t *testing.T) {
	now := time.Date(2025, 3, 9, 10, 0, 0, 42, time.UTC)
	key := NewKey(now, "My X-Ray (final).PNG")

	re := regexp.MustCompile(`^2025/03/09/\d+-[0-9a-f]{8}-My_X-Ray_final.PNG$`)
	assert.Regexp(t, re, key)
	assert.NotEqual(t, key, NewKey(now, "My X-Ray (final).PNG"))
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd":    "passwd",
		`C:\Users\me\a b.jpg`: "a_b.jpg",
		"...":                 "file",
		"ünïcødé.pdf":         "ncd.pdf",
		"":                    "file",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
	assert.Len(t, SanitizeFilename(strings.Repeat("a", 300)+".jpg"), 100)
}

func TestLocalStorage_PutDeleteURL(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root, "uploads/")
	ctx := context.Background()

	key := "2025/01/02/1-deadbeef-a.txt"
	require.NoError(t, s.Put(ctx, key, strings.NewReader("hello"), 5, "text/plain"))

	data, err := os.ReadFile(filepath.Join(root, "2025", "01", "02", "1-deadbeef-a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "/uploads/"+key, s.URL(key))

	require.Error(t, s.Put(ctx, key, strings.NewReader("again"), 5, "text/plain"), "keys are never overwritten")

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "/uploads")
	ctx := context.Background()

	for _, key := range []string{"", "../x", "a/../../x", `a\b`, "a//b"} {
		assert.ErrorIs(t, s.Put(ctx, key, strings.NewReader("x"), 1, ""), ErrInvalidKey, key)
		assert.ErrorIs(t, s.Delete(ctx, key), ErrInvalidKey, key)
	}
}

type fakeS3 struct {
	puts    map[string]string
	deletes []string
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.puts[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = aws.ToString(in.ContentType) + ":" + string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage(t *testing.T) {
	fake := &fakeS3{puts: map[string]string{}}
	s := newS3Storage(fake, config.StorageConfig{S3Bucket: "clinic", S3Region: "eu-west-1"})
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "2025/01/01/k.png", strings.NewReader("png"), 3, "image/png"))
	assert.Equal(t, "image/png:png", fake.puts["clinic/2025/01/01/k.png"])
	assert.Equal(t, "https://clinic.s3.eu-west-1.amazonaws.com/2025/01/01/k.png", s.URL("2025/01/01/k.png"))

	require.NoError(t, s.Delete(ctx, "2025/01/01/k.png"))
	assert.Equal(t, []string{"2025/01/01/k.png"}, fake.deletes)

	cdn := newS3Storage(fake, config.StorageConfig{S3Bucket: "clinic", S3PublicURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com/a.png", cdn.URL("a.png"))

	fake.putErr = errors.New("denied")
	assert.ErrorContains(t, s.Put(ctx, "x.png", strings.NewReader(""), 0, "image/png"), "failed to upload file to S3")
	assert.ErrorIs(t, s.Put(ctx, "../x.png", strings.NewReader(""), 0, "image/png"), ErrInvalidKey)
}

func TestNewSelectsDriver(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Driver: "local", LocalRoot: t.TempDir(), PublicPrefix: "/uploads"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(context.Background(), config.StorageConfig{Driver: "s3"})
	assert.ErrorContains(t, err, "S3_BUCKET")

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
