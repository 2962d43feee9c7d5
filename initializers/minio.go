package initializers

import (
	"context"
	"fmt"
	"strings"

	"feed-api/pkg/config"
	"feed-api/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioClients pairs the client used inside the network with the one whose
// host appears in presigned URLs handed to browsers.
type MinioClients struct {
	Internal *minio.Client
	External *minio.Client
}

// InitMinio connects to the avatar bucket, creating it when missing.
func InitMinio(ctx context.Context, cfg config.AvatarConfig) (*MinioClients, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	clients := &MinioClients{Internal: client, External: client}
	ext := externalHost(cfg.ExternalEndpoint)
	if ext != "" && ext != cfg.Endpoint {
		// Presigning is local, but the signature covers the host, so the
		// external client must be built for the public endpoint.
		external, err := minio.New(ext, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.ExternalUseSSL,
			Region: "us-east-1",
		})
		if err != nil {
			return nil, fmt.Errorf("minio external client: %w", err)
		}
		clients.External = external
	}

	logger.Info("minio bucket ready", zap.String("bucket", cfg.Bucket))
	return clients, nil
}

func externalHost(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	return strings.TrimRight(endpoint, "/")
}
