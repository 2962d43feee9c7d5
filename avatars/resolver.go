package avatars

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// TemplateResolver formats the user id into a fixed URL template, e.g.
// "https://cdn.example.com/avatars/%d.png".
type TemplateResolver struct {
	Template string
}

func (r TemplateResolver) AvatarURL(_ context.Context, userID int) (string, error) {
	return fmt.Sprintf(r.Template, userID), nil
}

// Presigner is the part of the MinIO client used for avatar links.
type Presigner interface {
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error)
}

var _ Presigner = (*minio.Client)(nil)

// MinioResolver hands out presigned GET URLs for avatar objects stored under
// ObjectPattern (formatted with the user id).
type MinioResolver struct {
	Client        Presigner
	Bucket        string
	ObjectPattern string
	Expiry        time.Duration
}

func (r MinioResolver) AvatarURL(ctx context.Context, userID int) (string, error) {
	object := fmt.Sprintf(r.ObjectPattern, userID)
	u, err := r.Client.PresignedGetObject(ctx, r.Bucket, object, r.Expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign avatar %s: %w", object, err)
	}
	return u.String(), nil
}
