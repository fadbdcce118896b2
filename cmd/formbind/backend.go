package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vango-dev/formbind/internal/config"
	"github.com/vango-dev/formbind/pkg/userservice"
)

// openBackend builds the username service selected by cfg. The returned
// func releases its resources.
func openBackend(ctx context.Context, cfg *config.Config) (userservice.Service, func(), error) {
	switch cfg.Backend.Kind {
	case config.BackendS3:
		client := newS3Client(cfg.Backend.S3, os.Getenv)
		dir := userservice.NewS3Directory(client, cfg.Backend.S3.Bucket, cfg.Backend.S3.Prefix)
		return dir, dir.Close, nil

	case config.BackendMySQL:
		return openSQLDirectory(ctx, cfg.Backend.MySQL)

	default:
		stub := userservice.NewStub()
		return stub, stub.Close, nil
	}
}

// openSQLDirectory connects to MySQL and optionally migrates the accounts
// table.
func openSQLDirectory(ctx context.Context, cfg config.MySQLConfig) (*userservice.SQLDirectory, func(), error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open mysql: %w", err)
	}
	dir := userservice.NewSQLDirectory(db)
	if cfg.AutoMigrate {
		if err := dir.AutoMigrate(ctx); err != nil {
			_ = closeDB(db)
			return nil, nil, err
		}
	}
	return dir, func() {
		dir.Close()
		_ = closeDB(db)
	}, nil
}

// newS3Client builds a client from the backend section. Credentials come
// from the standard AWS environment variables; without them requests are
// anonymous.
func newS3Client(cfg config.S3Config, getenv func(string) string) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	return s3.New(s3.Options{
		Region:       region,
		UsePathStyle: cfg.UsePathStyle,
		Credentials:  envCredentials(getenv),
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
}

func envCredentials(getenv func(string) string) aws.CredentialsProvider {
	id, secret := getenv("AWS_ACCESS_KEY_ID"), getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := getenv("AWS_SESSION_TOKEN")
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "Environment",
		}, nil
	})
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
