package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/venvcache/internal/core/domain"
)

func TestExpandVars(t *testing.T) {
	t.Setenv("VENVCACHE_TEST_HOME", "/home/tester")
	t.Setenv("VENVCACHE_TEST_EMPTY", "")

	tests := []struct {
		in   string
		want string
	}{
		{in: "plain/path", want: "plain/path"},
		{in: "${VENVCACHE_TEST_HOME}/.cache", want: "/home/tester/.cache"},
		{in: "$VENVCACHE_TEST_HOME/.cache", want: "/home/tester/.cache"},
		{in: "${VENVCACHE_TEST_UNSET}/x", want: "${VENVCACHE_TEST_UNSET}/x"},
		{in: "$VENVCACHE_TEST_UNSET/x", want: "$VENVCACHE_TEST_UNSET/x"},
		{in: "a${VENVCACHE_TEST_EMPTY}b", want: "ab"},
		{in: "cost$", want: "cost$"},
		{in: "$/x", want: "$/x"},
		{in: "${unterminated", want: "${unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ExpandVars(tt.in))
		})
	}
}

func TestConfig_ExpandedPaths(t *testing.T) {
	t.Setenv("VENVCACHE_TEST_ROOT", "/var/cache")

	cfg := domain.Config{
		CachePath: "${VENVCACHE_TEST_ROOT}/project",
		EnvPath:   ".venv",
		WorkDir:   "/src/project",
	}

	assert.Equal(t, "/var/cache/project", cfg.ExpandedCachePath())
	assert.Equal(t, filepath.Join("/src/project", ".venv"), cfg.ExpandedEnvPath())

	cfg.EnvPath = "/opt/venv"
	assert.Equal(t, "/opt/venv", cfg.ExpandedEnvPath())
}

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig("/src/my-project")

	assert.Equal(t, 20, cfg.CacheSize)
	assert.Equal(t, "${HOME}/.virtualenv_cache/caches/my-project", cfg.CachePath)
	assert.Equal(t, ".venv", cfg.EnvPath)
	assert.Empty(t, cfg.Manifests)
}

func TestCacheKey(t *testing.T) {
	key := domain.CacheKey("44136fa355b3678a1146ad16f7e8649e94fb4fc21fe77e8310c060f61caaff8a")

	assert.True(t, key.IsValid())
	assert.Equal(t, "44136fa355b3", key.Short())
	assert.False(t, domain.CacheKey("not-a-key").IsValid())
	assert.Equal(t, filepath.Join("/cache", key.String(), "venv"), domain.PayloadDir("/cache", key))
	assert.Equal(t, "/cache.lock", domain.LockFile("/cache/"))
}
