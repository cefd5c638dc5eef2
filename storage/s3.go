// Package storage spricht das S3-Ziel an, in das Registry-Exporte
// geschrieben werden.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"study-hand/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ExportClient kapselt Bucket und Endpoint des Export-Ziels, so dass Aufrufer
// nur noch mit Objektschlüsseln arbeiten.
type ExportClient struct {
	api     *s3.Client
	bucket  string
	baseURL string
}

// NewExportClient baut den Client aus der Export-Konfiguration. Der Endpoint
// ist frei konfigurierbar, damit auch S3-kompatible Anbieter funktionieren.
func NewExportClient(cfg *config.Config) (*ExportClient, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.ExportS3URL,
				SigningRegion:     cfg.ExportS3Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.ExportS3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.ExportS3Key, cfg.ExportS3Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	return &ExportClient{
		api:     s3.NewFromConfig(awsCfg),
		bucket:  cfg.ExportS3Bucket,
		baseURL: cfg.ExportS3URL,
	}, nil
}

// Upload schreibt ein Export-Objekt und gibt dessen Link zurück.
func (c *ExportClient) Upload(ctx context.Context, key string, data []byte) (string, error) {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.bucket, key), nil
}

// Prune behält die keep neuesten Objekte im Bucket und löscht den Rest.
// Gibt die gelöschten Schlüssel zurück.
func (c *ExportClient) Prune(ctx context.Context, keep int) ([]string, error) {
	output, err := c.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return nil, err
	}
	if len(output.Contents) <= keep {
		return nil, nil
	}

	sort.Slice(output.Contents, func(i, j int) bool {
		return output.Contents[i].LastModified.After(*output.Contents[j].LastModified)
	})

	var deleted []string
	for _, obj := range output.Contents[keep:] {
		_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    obj.Key,
		})
		if err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", *obj.Key, err)
		}
		deleted = append(deleted, *obj.Key)
	}
	return deleted, nil
}
