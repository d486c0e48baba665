// Package media stores the images shown on the guide's screens in an
// S3-compatible bucket.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrUnsupportedType is returned for uploads that are not images.
	ErrUnsupportedType = errors.New("only image uploads are accepted")
	// ErrTooLarge is returned for uploads over the size limit.
	ErrTooLarge = errors.New("upload exceeds size limit")
)

// Config describes the bucket.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL prefixes object URLs; Endpoint is used when empty.
	PublicURL string
	MaxBytes  int64
}

// ObjectPutter is the part of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds a path-style client for the configured endpoint.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	awsCfg, err := awscfg.LoadDefaultConfig(ctx,
		awscfg.WithRegion(cfg.Region),
		awscfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// Object is a stored upload.
type Object struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// Uploader writes images to the bucket.
type Uploader struct {
	client ObjectPutter
	cfg    Config
	logger zerolog.Logger
	now    func() time.Time
}

// NewUploader creates an uploader.
func NewUploader(client ObjectPutter, cfg Config, logger zerolog.Logger) *Uploader {
	return &Uploader{client: client, cfg: cfg, logger: logger, now: time.Now}
}

// MaxBytes returns the upload size limit.
func (u *Uploader) MaxBytes() int64 {
	return u.cfg.MaxBytes
}

// Upload stores body under "<unix millis>-<base name>". The stored content
// type is sniffed from the bytes, which must be an image whatever the
// caller declared.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (Object, error) {
	data, err := io.ReadAll(io.LimitReader(body, u.cfg.MaxBytes+1))
	if err != nil {
		return Object{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > u.cfg.MaxBytes {
		return Object{}, ErrTooLarge
	}

	contentType, err = resolveType(contentType, data)
	if err != nil {
		return Object{}, err
	}

	key := fmt.Sprintf("%d-%s", u.now().UnixMilli(), baseName(filename))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return Object{}, fmt.Errorf("put %s: %w", key, err)
	}

	u.logger.Info().
		Str("upload_id", uuid.NewString()).
		Str("key", key).
		Str("content_type", contentType).
		Int("bytes", len(data)).
		Msg("image stored")

	return Object{Path: key, URL: u.publicURL(key)}, nil
}

func (u *Uploader) publicURL(key string) string {
	base := u.cfg.PublicURL
	if base == "" {
		base = u.cfg.Endpoint
	}
	return strings.TrimRight(base, "/") + "/" + u.cfg.Bucket + "/" + key
}

// resolveType returns the sniffed image type of data. A declared type other
// than a generic one must itself name an image.
func resolveType(declared string, data []byte) (string, error) {
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	if !isImage(sniffed) {
		return "", fmt.Errorf("%w: content is %s", ErrUnsupportedType, sniffed)
	}
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" && !isImage(mt) {
		return "", fmt.Errorf("%w: declared %s", ErrUnsupportedType, mt)
	}
	return sniffed, nil
}

func isImage(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}

func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "image"
	}
	return strings.Join(strings.Fields(name), "-")
}
