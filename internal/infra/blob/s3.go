package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/slyt3/pagedrop/internal/config"
	"github.com/slyt3/pagedrop/internal/modules/model"
)

// Archiver keeps an out-of-database copy of uploaded artifacts.
type Archiver interface {
	Archive(ctx context.Context, slug string, f *model.File) error
	Remove(ctx context.Context, slug string) error
}

type S3Deps struct {
	Client   *s3.Client
	Uploader *manager.Uploader
	Bucket   string
	Prefix   string
	SSE      *s3types.ServerSideEncryption
}

// NewArchiver returns an S3 archiver, or Noop when no bucket is configured.
func NewArchiver(ctx context.Context, cfg *config.Config) (Archiver, error) {
	if cfg.S3.Bucket == "" {
		return Noop{}, nil
	}
	return NewS3(ctx, cfg)
}

func NewS3(ctx context.Context, cfg *config.Config) (*S3Deps, error) {
	loadOpts := []func(*awsCfg.LoadOptions) error{
		awsCfg.WithRegion(cfg.S3.Region),
	}
	if cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		loadOpts = append(loadOpts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	acfg, err := awsCfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	s3Opts := func(o *s3.Options) {
		if ep := strings.TrimSpace(cfg.S3.Endpoint); ep != "" {
			if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
				ep = "https://" + ep
			}
			if u, uerr := url.Parse(ep); uerr == nil {
				o.BaseEndpoint = aws.String(u.String())
			}
		}
		o.UsePathStyle = cfg.S3.UsePathStyle
	}

	client := s3.NewFromConfig(acfg, s3Opts)

	var sse *s3types.ServerSideEncryption
	if cfg.S3.SSE != "" {
		v := s3types.ServerSideEncryption(cfg.S3.SSE)
		sse = &v
	}

	return &S3Deps{
		Client:   client,
		Uploader: manager.NewUploader(client),
		Bucket:   cfg.S3.Bucket,
		Prefix:   strings.Trim(cfg.S3.Prefix, "/"),
		SSE:      sse,
	}, nil
}

func (s *S3Deps) projectPrefix(slug string) string {
	if s.Prefix == "" {
		return slug + "/"
	}
	return s.Prefix + "/" + slug + "/"
}

// ObjectKey is where a project's file is archived.
func (s *S3Deps) ObjectKey(slug, filename string) string {
	return s.projectPrefix(slug) + filename
}

func (s *S3Deps) Archive(ctx context.Context, slug string, f *model.File) error {
	if slug == "" || f == nil {
		return errors.New("slug or file is empty")
	}

	sum := sha256.Sum256([]byte(f.Content))
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.ObjectKey(slug, f.Filename)),
		Body:        strings.NewReader(f.Content),
		ContentType: aws.String(model.HTMLContentType),
		Metadata: map[string]string{
			"sha256": hex.EncodeToString(sum[:]),
			"name":   f.OriginalName,
		},
	}
	if s.SSE != nil {
		input.ServerSideEncryption = *s.SSE
	}

	if _, err := s.Uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("upload %s: %w", *input.Key, err)
	}
	return nil
}

// Remove deletes every archived object of the project.
func (s *S3Deps) Remove(ctx context.Context, slug string) error {
	if slug == "" {
		return errors.New("slug is empty")
	}

	prefix := s.projectPrefix(slug)
	pager := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(prefix),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list %s: %w", prefix, err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		ids := make([]s3types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			ids = append(ids, s3types.ObjectIdentifier{Key: obj.Key})
		}
		if _, err := s.Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.Bucket),
			Delete: &s3types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		}); err != nil {
			return fmt.Errorf("delete %s: %w", prefix, err)
		}
	}
	return nil
}

type Noop struct{}

func (Noop) Archive(context.Context, string, *model.File) error { return nil }
func (Noop) Remove(context.Context, string) error               { return nil }
