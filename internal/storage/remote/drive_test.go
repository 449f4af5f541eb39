package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/passync/internal/common"
	"github.com/dmitrijs2005/passync/internal/config"
)

func TestDirPrefixAndObjectKey(t *testing.T) {
	assert.Equal(t, "", dirPrefix(""))
	assert.Equal(t, "", dirPrefix("/"))
	assert.Equal(t, "Passwords/", dirPrefix("Passwords"))
	assert.Equal(t, "a/b/", dirPrefix("/a/b/"))
	assert.Equal(t, "Passwords/x.csv", objectKey("Passwords/", "x.csv"))
	assert.Equal(t, "x.csv", objectKey("", "x.csv"))
}

func TestChildName(t *testing.T) {
	tests := []struct {
		key    string
		name   string
		wantOK bool
	}{
		{key: "P/a.csv", name: "a.csv", wantOK: true},
		{key: "P/", wantOK: false},
		{key: "P/sub/a.csv", wantOK: false},
		{key: "P/.keep", wantOK: false},
		{key: "Q/a.csv", wantOK: false},
	}
	for _, tt := range tests {
		name, ok := childName("P/", tt.key)
		assert.Equal(t, tt.wantOK, ok, tt.key)
		assert.Equal(t, tt.name, name, tt.key)
	}
}

func TestUploadMetadata_RoundTrip(t *testing.T) {
	meta := uploadMetadata("abc")

	upper := map[string]string{}
	for k, v := range meta {
		upper[strings.ToUpper(k[:1])+k[1:]] = v
	}

	var info ObjectInfo
	applyMetadata(&info, upper)
	assert.Equal(t, "abc", info.Digest)
}

func TestUploadMetadata_Empty(t *testing.T) {
	assert.Empty(t, uploadMetadata(""))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(fmt.Errorf("x: %w", common.ErrNotFound)))
	assert.False(t, IsRetryable(fmt.Errorf("x: %w", common.ErrAuthFailed)))
	assert.False(t, IsRetryable(context.Canceled))
	assert.True(t, IsRetryable(errors.New("connection reset by peer")))
}

func TestNew_SelectsProvider(t *testing.T) {
	cfg := &config.Config{Username: "u", Password: "p"}
	cfg.LoadDefaults()
	cfg.Drive.Bucket = "vault"

	cfg.Drive.Provider = config.ProviderMinio
	cfg.Drive.Endpoint = "http://127.0.0.1:9000"
	d, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &MinioDrive{}, d)

	cfg.Drive.Provider = "icloud"
	_, err = New(context.Background(), cfg)
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestAuthError(t *testing.T) {
	err := authError("vault", fmt.Errorf("%w: denied", common.ErrAuthFailed))
	assert.ErrorIs(t, err, common.ErrAuthFailed)

	err = authError("vault", fmt.Errorf("%w: no bucket", common.ErrNotFound))
	assert.ErrorIs(t, err, common.ErrAuthFailed)
	assert.NotErrorIs(t, err, common.ErrNotFound)

	err = authError("vault", errors.New("dial tcp: timeout"))
	assert.NotErrorIs(t, err, common.ErrAuthFailed)
	assert.True(t, IsRetryable(err))
}
