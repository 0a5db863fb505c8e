// Package storage archives finished renders to S3 so the local results
// tree can be pruned without losing videos.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/mvenus2/RedditVideoMakerBot/types"
)

// ObjectClient is the slice of the S3 API the archiver needs, kept narrow
// so tests can fake it.
type ObjectClient interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Archiver uploads render outputs under <subreddit>/<filename> keys.
type Archiver struct {
	client ObjectClient
	bucket string
}

func NewArchiver(ctx context.Context, bucket, region string) (*Archiver, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Archiver{client: s3.NewFromConfig(awsCfg), bucket: bucket}, nil
}

// NewArchiverWithClient wires an explicit client, for tests.
func NewArchiverWithClient(client ObjectClient, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// Archive uploads the video and, when present, the thumbnail. Objects that
// already exist are skipped so retried jobs do not re-upload gigabytes.
func (a *Archiver) Archive(ctx context.Context, subreddit string, result *types.RenderResult) error {
	if err := a.putFile(ctx, subreddit, result.VideoPath, "video/mp4"); err != nil {
		return err
	}
	if result.ThumbnailPath != "" {
		if err := a.putFile(ctx, subreddit, result.ThumbnailPath, "image/png"); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archiver) putFile(ctx context.Context, subreddit, localPath, contentType string) error {
	key := path.Join(subreddit, filepath.Base(localPath))

	exists, err := a.exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("⏭️ s3://%s/%s already archived", a.bucket, key)
		return nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", a.bucket, key, err)
	}
	log.Printf("📦 archived s3://%s/%s", a.bucket, key)
	return nil
}

func (a *Archiver) exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}
