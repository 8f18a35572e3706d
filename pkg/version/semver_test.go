package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	original := Version
	resetParsedVersion()
	Version = v
	t.Cleanup(func() {
		Version = original
		resetParsedVersion()
	})
}

func TestParsed(t *testing.T) {
	tests := []struct {
		version string
		valid   bool
	}{
		{"v1.2.3", true},
		{"1.0.0", true},
		{"v1.0.0-beta.1", true},
		{"dev", false},
		{"", false},
		{"v1.0.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			withVersion(t, tt.version)
			if tt.valid {
				assert.NotNil(t, Parsed())
				assert.False(t, IsDevBuild())
			} else {
				assert.Nil(t, Parsed())
				assert.True(t, IsDevBuild())
			}
		})
	}
}

func TestIsPrerelease(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"v1.0.0", false},
		{"v1.0.0-rc.2", true},
		{"v1.0.0+build123", false},
		{"dev", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			withVersion(t, tt.version)
			assert.Equal(t, tt.want, IsPrerelease())
		})
	}
}

func TestIsOlderThan(t *testing.T) {
	withVersion(t, "v1.2.0")

	assert.True(t, IsOlderThan("v1.3.0"))
	assert.False(t, IsOlderThan("v1.2.0"))
	assert.False(t, IsOlderThan("v1.1.9"))
	assert.False(t, IsOlderThan("garbage"))
}

func TestIsOlderThan_DevBuild(t *testing.T) {
	withVersion(t, "dev")
	assert.False(t, IsOlderThan("v9.9.9"))
}

func TestInfoMentionsVersion(t *testing.T) {
	withVersion(t, "v0.4.0")
	assert.Contains(t, Info(), "studydeck v0.4.0")
	assert.Contains(t, Full(), "Version: v0.4.0")
}
