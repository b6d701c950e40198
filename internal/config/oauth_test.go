package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOAuth(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "oauthClient.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadOAuthClientFromPath_Installed(t *testing.T) {
	path := writeOAuth(t, `{
  "installed": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "project_id": "test-project",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "test-secret",
    "redirect_uris": ["http://localhost"]
  }
}`)

	cfg, err := LoadOAuthClientFromPath(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Installed)
	assert.Nil(t, cfg.Web)
	assert.Equal(t, "test-client-id.apps.googleusercontent.com", cfg.Secrets().ClientID)
	assert.Equal(t, "test-secret", cfg.Secrets().ClientSecret)
}

func TestLoadOAuthClientFromPath_Web(t *testing.T) {
	path := writeOAuth(t, `{
  "web": {
    "client_id": "web-client",
    "project_id": "test-project",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "web-secret"
  }
}`)

	cfg, err := LoadOAuthClientFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "web-client", cfg.Secrets().ClientID)
}

func TestLoadOAuthClientFromPath_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "malformed json",
			content:  `{"installed": {"client_id": "test" "project_id": "x"}}`,
			expected: "failed to parse oauth client file",
		},
		{
			name:     "no client section",
			content:  `{}`,
			expected: "validation failed",
		},
		{
			name: "missing secret",
			content: `{"installed": {
  "client_id": "test-client-id",
  "project_id": "test-project",
  "auth_uri": "https://accounts.google.com/o/oauth2/auth",
  "token_uri": "https://oauth2.googleapis.com/token"
}}`,
			expected: "validation failed",
		},
		{
			name: "bad token uri",
			content: `{"installed": {
  "client_id": "test-client-id",
  "project_id": "test-project",
  "auth_uri": "https://accounts.google.com/o/oauth2/auth",
  "token_uri": "not a url",
  "client_secret": "s"
}}`,
			expected: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOAuthClientFromPath(writeOAuth(t, tt.content))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestLoadOAuthClientFromPath_FileNotFound(t *testing.T) {
	_, err := LoadOAuthClientFromPath("/nonexistent/path/oauthClient.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read oauth client file")
}
