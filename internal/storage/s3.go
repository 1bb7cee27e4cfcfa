package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	appconfig "glasstrade-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores receipt files and site/product images in an
// S3-compatible bucket (R2 in production) and hands back public URLs.
type Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// New builds an uploader from config. Returns nil when storage is not
// configured; callers treat a nil uploader as "uploads disabled".
func New(cfg *appconfig.Config) *Uploader {
	if cfg.Storage.Bucket == "" || cfg.Storage.AccessKey == "" {
		log.Println("[Storage] Object storage not configured, uploads disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		log.Printf("[Storage] Failed to configure client: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
		}
	})

	return &Uploader{
		client:  client,
		bucket:  cfg.Storage.Bucket,
		baseURL: strings.TrimSuffix(cfg.Storage.PublicBaseURL, "/"),
	}
}

// Upload writes body under key and returns the public URL.
func (u *Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return u.baseURL + "/" + key, nil
}

// ReceiptKey builds the object key for a payment receipt file.
func ReceiptKey(billNumber, filename string) string {
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i:]
	}
	return fmt.Sprintf("receipts/%s-%d%s", billNumber, time.Now().UnixMilli(), ext)
}

// SiteImageKey builds the object key for a site photo.
func SiteImageKey(siteID int, filename string) string {
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i:]
	}
	return fmt.Sprintf("sites/%d/%d%s", siteID, time.Now().UnixMilli(), ext)
}
