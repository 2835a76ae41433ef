package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestCacheSettingsFor(t *testing.T) {
	redisCfg := &config.Config{Cache: config.Cache{Backend: config.BackendRedis, RedisURL: "redis://cfg:6379", Prefix: "team:"}}
	fileCfg := &config.Config{Cache: config.Cache{Backend: config.BackendFile}}
	noneCfg := &config.Config{Cache: config.Cache{Backend: config.BackendNone}}

	tests := []struct {
		name    string
		env     string
		noCache bool
		flagURL string
		cfg     *config.Config
		want    cacheSettings
	}{
		{"defaults", "", false, "", nil, cacheSettings{prefix: config.DefaultPrefix}},
		{"env", "redis://env:6379", false, "", nil, cacheSettings{redisURL: "redis://env:6379", prefix: config.DefaultPrefix}},
		{"config over env", "redis://env:6379", false, "", redisCfg, cacheSettings{redisURL: "redis://cfg:6379", prefix: "team:"}},
		{"file backend ignores env", "redis://env:6379", false, "", fileCfg, cacheSettings{prefix: config.DefaultPrefix}},
		{"flag over config", "", false, "redis://flag:6379", redisCfg, cacheSettings{redisURL: "redis://flag:6379", prefix: "team:"}},
		{"no-cache flag", "", true, "", nil, cacheSettings{disabled: true, prefix: config.DefaultPrefix}},
		{"none backend", "", false, "", noneCfg, cacheSettings{disabled: true, prefix: config.DefaultPrefix}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(envRedisURL, tt.env)
			if got := cacheSettingsFor(tt.noCache, tt.flagURL, tt.cfg); got != tt.want {
				t.Errorf("cacheSettingsFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
