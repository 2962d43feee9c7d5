package avatars

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	bucket, object string
	expiry         time.Duration
	err            error
}

func (f *fakePresigner) PresignedGetObject(_ context.Context, bucket, object string, expiry time.Duration, _ url.Values) (*url.URL, error) {
	f.bucket, f.object, f.expiry = bucket, object, expiry
	if f.err != nil {
		return nil, f.err
	}
	return url.Parse("https://files.example.com/" + bucket + "/" + object + "?X-Amz-Signature=abc")
}

func TestTemplateResolver(t *testing.T) {
	u, err := TemplateResolver{Template: "https://cdn.example.com/a/%d.png"}.AvatarURL(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a/12.png", u)
}

func TestMinioResolver(t *testing.T) {
	p := &fakePresigner{}
	r := MinioResolver{Client: p, Bucket: "avatars", ObjectPattern: "users/%d.png", Expiry: time.Hour}
	u, err := r.AvatarURL(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/avatars/users/3.png?X-Amz-Signature=abc", u)
	assert.Equal(t, "users/3.png", p.object)
	assert.Equal(t, time.Hour, p.expiry)
}

func TestMinioResolverError(t *testing.T) {
	boom := errors.New("no credentials")
	r := MinioResolver{Client: &fakePresigner{err: boom}, Bucket: "b", ObjectPattern: "%d"}
	_, err := r.AvatarURL(context.Background(), 3)
	assert.ErrorIs(t, err, boom)
}
