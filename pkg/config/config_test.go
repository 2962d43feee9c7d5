package config

import (
	"os"
	"path/filepath"
	"testing"

	"feed-api/pkg/appenv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalogsOverridesDefaults(t *testing.T) {
	c, err := ParseCatalogs([]byte(`
components: [activity, groups]
type_labels:
  activity_update: Update
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"activity", "groups"}, c.Components)
	assert.Equal(t, DefaultCatalogs().Visibility, c.Visibility)
	assert.Equal(t, "Update", c.TypeLabels["activity_update"])
	assert.True(t, c.HasComponent("groups"))
	assert.False(t, c.HasComponent("blogs"))
}

func TestParseCatalogsRejectsBadYAML(t *testing.T) {
	_, err := ParseCatalogs([]byte("components: [unterminated"))
	assert.Error(t, err)
}

func TestLoadCatalogsMissingFile(t *testing.T) {
	c, err := LoadCatalogs(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalogs(), c)
}

func TestLoadCatalogsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("visibility: [public, onlyme]\n"), 0o600))
	c, err := LoadCatalogs(path)
	require.NoError(t, err)
	assert.True(t, c.HasVisibility("onlyme"))
	assert.False(t, c.HasVisibility("friends"))
}

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DATABASE_URL", "postgres://localhost/feed?sslmode=disable")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("PUBLIC_BASE_URL", "https://feed.example.com/")
	t.Setenv("MODERATOR_USER_IDS", "1, 7")
	t.Setenv("ACTIVITY_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, appenv.Test, cfg.Env)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "https://feed.example.com", cfg.API.PublicBaseURL)
	assert.Equal(t, "https://feed.example.com/v1/users", cfg.API.UsersResourceURL)
	assert.Equal(t, []int{1, 7}, cfg.ModeratorUserIDs)
	assert.False(t, cfg.Avatars.MinioEnabled())
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/feed")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("ACTIVITY_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET must be set and at least 32 characters")
}

func TestLoadRejectsBadModeratorIDs(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/feed")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("MODERATOR_USER_IDS", "1,abc")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsAvatarFormatsWithoutUserID(t *testing.T) {
	cases := map[string]string{
		"AVATAR_URL_TEMPLATE":   "https://cdn.example.com/avatar.png",
		"AVATAR_OBJECT_PATTERN": "avatars/%d/%d.png",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/feed")
			t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
			t.Setenv("ACTIVITY_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
			t.Setenv(key, value)
			_, err := Load()
			assert.EqualError(t, err, key+" must contain exactly one %d for the user id")
		})
	}
}

func TestCheckUserIDFormat(t *testing.T) {
	assert.NoError(t, checkUserIDFormat("K", "https://www.gravatar.com/avatar/?d=mp&u=%d"))
	assert.NoError(t, checkUserIDFormat("K", "avatars/%d.png"))
	assert.Error(t, checkUserIDFormat("K", "avatars/%s.png"))
	assert.Error(t, checkUserIDFormat("K", "avatars/%d-%v.png"))
}
