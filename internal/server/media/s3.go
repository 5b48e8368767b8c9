package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/vidtube/internal/filex"
	"github.com/dmitrijs2005/vidtube/internal/logging"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// objectAPI is the part of *s3.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config describes the bucket. PublicURL is the externally reachable
// base of the object store; object URLs are PublicURL/Bucket/Key.
type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	PublicURL    string
}

type S3Store struct {
	client    objectAPI
	bucket    string
	publicURL string
	logger    logging.Logger
	now       func() time.Time
}

// NewS3Store builds a path-style S3 client (MinIO compatible) with static credentials.
func NewS3Store(ctx context.Context, cfg S3Config, logger logging.Logger) (*S3Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		logger:    logger.With("module", "media"),
		now:       time.Now,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, kind Kind, localPath string) (*Object, error) {
	defer func() {
		if err := filex.Remove(localPath); err != nil {
			s.logger.Warn(ctx, "failed to remove temp file", "path", localPath, "error", err)
		}
	}()

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}

	key := ObjectKey(kind, s.now().UTC(), localPath)
	contentType := contentTypeOf(key)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	s.logger.Debug(ctx, "object uploaded", "key", key, "size", info.Size())

	return &Object{
		Key:         key,
		URL:         s.URLFor(key),
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}

// Delete removes the object behind url. Empty URLs are ignored.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	key, ok := s.KeyFor(url)
	if !ok {
		return ErrForeignURL
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// videoTypes covers containers missing from the stdlib mime table.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
}

func contentTypeOf(key string) string {
	ext := filepath.Ext(key)
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

func (s *S3Store) URLFor(key string) string {
	return s.publicURL + "/" + s.bucket + "/" + key
}

// KeyFor is the inverse of URLFor.
func (s *S3Store) KeyFor(url string) (string, bool) {
	prefix := s.publicURL + "/" + s.bucket + "/"
	key, ok := strings.CutPrefix(url, prefix)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
