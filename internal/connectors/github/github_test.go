package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{Owner: "octocat", Repo: "hello-world"}},
		{name: "valid with branch", cfg: Config{Owner: "octocat", Repo: "docs", Branch: "main"}},
		{name: "missing owner", cfg: Config{Repo: "docs"}, wantErr: true},
		{name: "missing repo", cfg: Config{Owner: "octocat"}, wantErr: true},
		{name: "whitespace owner", cfg: Config{Owner: "   ", Repo: "docs"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidateTrims(t *testing.T) {
	cfg := Config{Owner: " octocat ", Repo: " docs ", Branch: " main "}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "octocat", cfg.Owner)
	assert.Equal(t, "docs", cfg.Repo)
	assert.Equal(t, "main", cfg.Branch)
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"README.md", "text/markdown"},
		{"notes.txt", "text/plain"},
		{"main.go", "text/plain"},
		{"config.yaml", "text/plain"},
		{"data.csv", "text/csv"},
		{"report.pdf", "application/pdf"},
		{"report.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"binary.bin", "application/octet-stream"},
		{"Makefile", "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, contentType(tt.name), "file %s", tt.name)
	}
}
