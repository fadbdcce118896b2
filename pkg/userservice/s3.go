package userservice

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// HeadObjectAPI is the subset of *s3.Client used by S3Directory.
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Directory is a Service backed by an S3 bucket. A username is taken
// when the object <prefix><username> exists.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "eu-west-1"})
//	dir := userservice.NewS3Directory(client, "accounts", "usernames/")
type S3Directory struct {
	requestLog

	client HeadObjectAPI
	bucket string
	prefix string
}

// NewS3Directory creates a directory over bucket. prefix is prepended to
// every username to form the object key.
func NewS3Directory(client HeadObjectAPI, bucket, prefix string) *S3Directory {
	return &S3Directory{
		requestLog: newRequestLog(),
		client:     client,
		bucket:     bucket,
		prefix:     prefix,
	}
}

// Key returns the object key that claims username.
func (d *S3Directory) Key(username string) string {
	return d.prefix + username
}

// CanUseUsername publishes username and reports whether its object is
// absent.
func (d *S3Directory) CanUseUsername(ctx context.Context, username string) (bool, error) {
	d.publish(username)

	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.Key(username)),
	})
	if err == nil {
		return false, nil
	}
	if isNotFound(err) {
		return true, nil
	}
	return false, unavailable("s3 head "+d.bucket+"/"+d.Key(username)+" failed", err)
}

// isNotFound reports whether err is S3's answer for a missing key. HEAD
// responses carry no body, so the typed NotFound is not always decoded.
func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
