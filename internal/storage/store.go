package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hbomb79/Tubely/pkg/logger"
)

var log = logger.Get("ObjectStore")

type (
	// Config describes the bucket processed media is written to. When an
	// Endpoint is provided, path-style addressing is used so that S3
	// compatible stores (MinIO et al.) can be targeted.
	Config struct {
		Bucket    string `yaml:"bucket" env:"S3_BUCKET" env-required:"true"`
		Region    string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
		Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
		AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
		SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	}

	// StoreError wraps any failure returned by the object store.
	StoreError struct {
		Op  string
		Key string
		Err error
	}

	// S3Store is the object store gateway backed by an S3 bucket.
	S3Store struct {
		client    *s3.Client
		presigner *s3.PresignClient
		bucket    string
	}
)

func (err *StoreError) Error() string {
	return fmt.Sprintf("object store %s %q failed: %v", err.Op, err.Key, err.Err)
}

func (err *StoreError) Unwrap() error { return err.Err }

// NewS3Store loads the AWS configuration (static credentials from the config
// if provided, otherwise the default credential chain) and constructs a
// store for the configured bucket. Requests are attempted exactly once;
// retrying is left to callers.
func NewS3Store(ctx context.Context, config Config) (*S3Store, error) {
	if strings.TrimSpace(config.Bucket) == "" {
		return nil, errors.New("object store bucket must be provided")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(config.Region)}
	if config.AccessKey != "" && config.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKey, config.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.Retryer = aws.NopRetryer{}
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, presigner: s3.NewPresignClient(client), bucket: config.Bucket}, nil
}

// Put uploads the file at localPath to the bucket under the given key,
// replacing any object already stored there.
func (store *S3Store) Put(ctx context.Context, key string, localPath string, contentType string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return &StoreError{Op: "put", Key: key, Err: err}
	}
	defer file.Close()

	if _, err := store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	}); err != nil {
		return &StoreError{Op: "put", Key: key, Err: err}
	}

	log.Emit(logger.DEBUG, "Uploaded %s to s3://%s/%s\n", localPath, store.bucket, key)
	return nil
}

// Sign returns a URL granting read access to the object at key for the
// duration given. No stored state is changed by signing.
func (store *S3Store) Sign(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := store.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", &StoreError{Op: "sign", Key: key, Err: err}
	}

	return req.URL, nil
}

// Delete removes the object at key. Deleting a missing key is not an error.
func (store *S3Store) Delete(ctx context.Context, key string) error {
	if _, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return &StoreError{Op: "delete", Key: key, Err: err}
	}

	return nil
}
