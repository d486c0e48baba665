package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakePutter struct {
	mu   sync.Mutex
	puts []*s3.PutObjectInput
	body [][]byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	data, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.body = append(f.body, data)
	return &s3.PutObjectOutput{}, nil
}

func newTestUploader(p ObjectPutter) *Uploader {
	u := NewUploader(p, Config{
		Endpoint:  "http://localhost:9000",
		Bucket:    "images",
		PublicURL: "https://cdn.example.org/storage/v1/object/public/",
		MaxBytes:  64,
	}, zerolog.Nop())
	u.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return u
}

func TestUpload(t *testing.T) {
	p := &fakePutter{}
	u := newTestUploader(p)

	obj, err := u.Upload(context.Background(), `C:\fotos\mapa do campus.png`, "image/png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "1700000000123-mapa-do-campus.png", obj.Path)
	assert.Equal(t, "https://cdn.example.org/storage/v1/object/public/images/1700000000123-mapa-do-campus.png", obj.URL)
	assert.True(t, strings.HasPrefix(obj.URL, "http"))

	require.Len(t, p.puts, 1)
	assert.Equal(t, "images", aws.ToString(p.puts[0].Bucket))
	assert.Equal(t, "image/png", aws.ToString(p.puts[0].ContentType))
	assert.Equal(t, int64(len(pngHeader)), aws.ToInt64(p.puts[0].ContentLength))
	assert.Equal(t, pngHeader, p.body[0])
}

func TestUploadSniffsGenericType(t *testing.T) {
	p := &fakePutter{}
	u := newTestUploader(p)

	_, err := u.Upload(context.Background(), "logo.png", "application/octet-stream", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", aws.ToString(p.puts[0].ContentType))

	_, err = u.Upload(context.Background(), "notes.txt", "", strings.NewReader("plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestUploadRejects(t *testing.T) {
	p := &fakePutter{}
	u := newTestUploader(p)

	_, err := u.Upload(context.Background(), "doc.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = u.Upload(context.Background(), "big.png", "image/png", bytes.NewReader(make([]byte, 65)))
	assert.ErrorIs(t, err, ErrTooLarge)

	assert.Empty(t, p.puts)
}

func TestUploadChecksContentNotDeclaredType(t *testing.T) {
	p := &fakePutter{}
	u := newTestUploader(p)

	_, err := u.Upload(context.Background(), "fake.png", "image/png", strings.NewReader("<html>not an image</html>"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = u.Upload(context.Background(), "logo.png", "text/plain", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Empty(t, p.puts)

	_, err = u.Upload(context.Background(), "logo.jpg", "image/jpeg", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	require.Len(t, p.puts, 1)
	assert.Equal(t, "image/png", aws.ToString(p.puts[0].ContentType))
}

func TestUploadPutError(t *testing.T) {
	boom := errors.New("bucket not found")
	u := newTestUploader(&fakePutter{err: boom})

	_, err := u.Upload(context.Background(), "a.png", "image/png", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, boom)
}

func TestPublicURLFallsBackToEndpoint(t *testing.T) {
	u := NewUploader(&fakePutter{}, Config{Endpoint: "http://localhost:9000/", Bucket: "images", MaxBytes: 1}, zerolog.Nop())
	assert.Equal(t, "http://localhost:9000/images/k.png", u.publicURL("k.png"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "image", baseName(""))
	assert.Equal(t, "a.png", baseName("../../a.png"))
	assert.Equal(t, "foto-1.jpg", baseName("dir/foto  1.jpg"))
}

func TestNewS3Client(t *testing.T) {
	client, err := NewS3Client(context.Background(), Config{
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)

	opts := client.Options()
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))
}
