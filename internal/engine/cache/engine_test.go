package cache_test

import (
	"context"
	_ "crypto/sha256"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/venvcache/internal/adapters/cas"
	"go.trai.ch/venvcache/internal/adapters/fs"
	"go.trai.ch/venvcache/internal/adapters/lock"
	"go.trai.ch/venvcache/internal/core/domain"
	"go.trai.ch/venvcache/internal/core/ports/mocks"
	"go.trai.ch/venvcache/internal/engine/cache"
	"go.uber.org/mock/gomock"
)

const testHost = "build-host"

var epoch = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	engine *cache.Engine
	store  *cas.Store
	clock  clockwork.FakeClock
	cfg    domain.Config
}

// newFixture wires the engine to real adapters on a temporary directory:
//
//	<tmp>/project/requirements.txt
//	<tmp>/project/.venv/
//	<tmp>/cache/
func newFixture(t *testing.T) *fixture {
	t.Helper()

	tmp := t.TempDir()
	work := filepath.Join(tmp, "project")
	require.NoError(t, os.MkdirAll(work, 0o750))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	fsys := fs.NewFilesystem()
	walker := fs.NewWalker(fsys)
	store := cas.NewStore(fsys, walker, log)
	clock := clockwork.NewFakeClockAt(epoch)

	engine := cache.New(
		fs.NewKeyDeriver(fsys, log),
		store,
		lock.NewFileLocker(),
		fs.NewTreeInspector(fsys, walker),
		log,
		cache.WithClock(clock),
		cache.WithHostname(func() (string, error) { return testHost, nil }),
	)

	return &fixture{
		engine: engine,
		store:  store,
		clock:  clock,
		cfg: domain.Config{
			CacheSize: domain.DefaultCacheSize,
			CachePath: filepath.Join(tmp, "cache"),
			EnvPath:   domain.DefaultEnvPath,
			Manifests: []string{"requirements.txt"},
			WorkDir:   work,
		},
	}
}

func (f *fixture) writeManifest(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.WorkDir, "requirements.txt"), []byte(content), 0o600))
}

func (f *fixture) writeEnv(t *testing.T, files map[string]string) {
	t.Helper()
	env := f.cfg.ExpandedEnvPath()
	require.NoError(t, os.RemoveAll(env))
	for name, content := range files {
		path := filepath.Join(env, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	require.NoError(t, os.MkdirAll(env, 0o750))
}

func (f *fixture) readEnv(t *testing.T) map[string]string {
	t.Helper()
	env := f.cfg.ExpandedEnvPath()
	files := map[string]string{}
	err := filepath.WalkDir(env, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path) //nolint:gosec // Test fixture
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(env, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

// storeVersion stores an environment for a manifest with the given content at the current clock time.
func (f *fixture) storeVersion(t *testing.T, manifest string) domain.CacheKey {
	t.Helper()
	f.writeManifest(t, manifest)
	f.writeEnv(t, map[string]string{"pyvenv.cfg": manifest})
	key, err := f.engine.Store(context.Background(), f.cfg)
	require.NoError(t, err)
	return key
}

func expectedKey(t *testing.T, manifests map[string]string) domain.CacheKey {
	t.Helper()
	digests := make(map[string]string, len(manifests))
	for path, content := range manifests {
		digests[path] = digest.SHA256.FromString(content).Encoded()
	}
	return domain.CacheKey(digest.SHA256.FromBytes(domain.CanonicalJSON(digests)).Encoded())
}

func TestEngine_StoreIntoEmptyCache(t *testing.T) {
	f := newFixture(t)
	f.writeManifest(t, "requests>=1.0.0\n")
	f.writeEnv(t, map[string]string{"pyvenv.cfg": "home = /usr/bin", "bin/python": "#!"})

	key, err := f.engine.Store(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.Equal(t, expectedKey(t, map[string]string{"requirements.txt": "requests>=1.0.0\n"}), key)

	dirs, err := os.ReadDir(f.cfg.ExpandedCachePath())
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	assert.Equal(t, key.String(), dirs[0].Name())

	usage, err := f.store.ReadUsage(f.cfg.ExpandedCachePath(), key)
	require.NoError(t, err)
	assert.Equal(t, testHost, usage.Hostname)
	assert.True(t, epoch.Equal(usage.Timestamp))
}

func TestEngine_StoreThenRestore(t *testing.T) {
	f := newFixture(t)
	f.writeManifest(t, "requests>=1.0.0\n")
	files := map[string]string{
		"pyvenv.cfg":                        "home = /usr/bin",
		"bin/python":                        "#!",
		"lib/python3.12/site-packages/a.py": "a = 1",
	}
	f.writeEnv(t, files)

	stored, err := f.engine.Store(context.Background(), f.cfg)
	require.NoError(t, err)

	f.writeEnv(t, map[string]string{"garbage.txt": "x"})
	f.clock.Advance(time.Hour)

	restored, err := f.engine.Restore(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.Equal(t, stored, restored)
	assert.Equal(t, files, f.readEnv(t))

	usage, err := f.store.ReadUsage(f.cfg.ExpandedCachePath(), restored)
	require.NoError(t, err)
	assert.True(t, epoch.Add(time.Hour).Equal(usage.Timestamp), "restore refreshes the usage record")
}

func TestEngine_RestoreMissHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	f.writeManifest(t, "requests>=1.0.0\n")
	f.writeEnv(t, map[string]string{"pyvenv.cfg": "mine"})

	_, err := f.engine.Restore(context.Background(), f.cfg)
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	assert.NoDirExists(t, f.cfg.ExpandedCachePath())
	assert.NoFileExists(t, domain.LockFile(f.cfg.ExpandedCachePath()))
	assert.Equal(t, map[string]string{"pyvenv.cfg": "mine"}, f.readEnv(t))

	f.storeVersion(t, "requests>=1.0.0\n")
	f.writeManifest(t, "requests>=1.1.0\n")

	before, err := f.engine.List(context.Background(), f.cfg)
	require.NoError(t, err)

	_, err = f.engine.Restore(context.Background(), f.cfg)
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	after, err := f.engine.List(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEngine_StoreMissingEnvironment(t *testing.T) {
	f := newFixture(t)
	f.writeManifest(t, "requests>=1.0.0\n")

	_, err := f.engine.Store(context.Background(), f.cfg)
	require.ErrorIs(t, err, domain.ErrEnvironmentNotFound)
	assert.NoDirExists(t, f.cfg.ExpandedCachePath())
}

func TestEngine_MissingManifest(t *testing.T) {
	f := newFixture(t)
	f.writeEnv(t, map[string]string{"pyvenv.cfg": "x"})

	_, err := f.engine.Store(context.Background(), f.cfg)
	require.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = f.engine.Restore(context.Background(), f.cfg)
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestEngine_StoreTrimsToCacheSize(t *testing.T) {
	f := newFixture(t)
	f.cfg.CacheSize = 2

	var keys []domain.CacheKey
	for _, version := range []string{"a==1\n", "a==2\n", "a==3\n", "a==4\n"} {
		keys = append(keys, f.storeVersion(t, version))
		f.clock.Advance(time.Minute)
	}

	entries, err := f.engine.List(context.Background(), f.cfg)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, keys[3], entries[0].ID)
	assert.Equal(t, keys[2], entries[1].ID)
	assert.True(t, entries[0].Timestamp.After(entries[1].Timestamp))
}

func TestEngine_StoreWithSizeOneKeepsMostRecent(t *testing.T) {
	f := newFixture(t)

	for _, version := range []string{"a==1\n", "a==2\n", "a==3\n"} {
		f.storeVersion(t, version)
		f.clock.Advance(time.Minute)
	}
	entries, err := f.engine.List(context.Background(), f.cfg)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	f.cfg.CacheSize = 1
	latest := f.storeVersion(t, "a==4\n")

	entries, err = f.engine.List(context.Background(), f.cfg)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, latest, entries[0].ID)
}

func TestEngine_RestoreProtectsFromEviction(t *testing.T) {
	f := newFixture(t)
	f.cfg.CacheSize = 2

	first := f.storeVersion(t, "a==1\n")
	f.clock.Advance(time.Minute)
	second := f.storeVersion(t, "a==2\n")
	f.clock.Advance(time.Minute)

	f.writeManifest(t, "a==1\n")
	_, err := f.engine.Restore(context.Background(), f.cfg)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)

	third := f.storeVersion(t, "a==3\n")

	entries, err := f.engine.List(context.Background(), f.cfg)
	require.NoError(t, err)
	ids := []domain.CacheKey{entries[0].ID, entries[1].ID}
	assert.Equal(t, []domain.CacheKey{third, first}, ids)
	assert.NotContains(t, ids, second)
}

func TestEngine_Trim(t *testing.T) {
	f := newFixture(t)

	var keys []domain.CacheKey
	for _, version := range []string{"a==1\n", "a==2\n", "a==3\n"} {
		keys = append(keys, f.storeVersion(t, version))
		f.clock.Advance(time.Minute)
	}

	f.cfg.CacheSize = 1
	evicted, err := f.engine.Trim(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.Equal(t, []domain.CacheKey{keys[0], keys[1]}, evicted, "oldest first")

	evicted, err = f.engine.Trim(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.Empty(t, evicted)
}

func TestEngine_TrimEvictsInvalidUsageFirst(t *testing.T) {
	f := newFixture(t)

	old := f.storeVersion(t, "a==1\n")
	f.clock.Advance(time.Minute)
	broken := f.storeVersion(t, "a==2\n")
	f.clock.Advance(time.Minute)
	require.NoError(t, os.WriteFile(domain.UsageFile(f.cfg.ExpandedCachePath(), broken), []byte("{}"), 0o600))

	f.cfg.CacheSize = 1
	evicted, err := f.engine.Trim(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.Equal(t, []domain.CacheKey{broken}, evicted)

	entries, err := f.engine.List(context.Background(), f.cfg)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, old, entries[0].ID)
}

func TestEngine_ListSkipsInvalidUsage(t *testing.T) {
	f := newFixture(t)

	good := f.storeVersion(t, "a==1\n")
	f.clock.Advance(time.Minute)
	broken := f.storeVersion(t, "a==2\n")
	require.NoError(t, os.Remove(domain.UsageFile(f.cfg.ExpandedCachePath(), broken)))

	entries, err := f.engine.List(context.Background(), f.cfg)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, good, entries[0].ID)
	assert.Equal(t, testHost, entries[0].Hostname)

	f.writeManifest(t, "a==2\n")
	_, err = f.engine.Restore(context.Background(), f.cfg)
	require.NoError(t, err, "restore repairs an entry without usage record")

	entries, err = f.engine.List(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestEngine_ListNeverUsedCache(t *testing.T) {
	f := newFixture(t)

	entries, err := f.engine.List(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.NoDirExists(t, f.cfg.ExpandedCachePath())
}

func TestEngine_Erase(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.engine.Erase(context.Background(), f.cfg), "erasing an absent cache succeeds")

	f.storeVersion(t, "a==1\n")
	require.DirExists(t, f.cfg.ExpandedCachePath())

	require.NoError(t, f.engine.Erase(context.Background(), f.cfg))
	assert.NoDirExists(t, f.cfg.ExpandedCachePath())

	require.NoError(t, f.engine.Erase(context.Background(), f.cfg))
}

func TestEngine_Status(t *testing.T) {
	f := newFixture(t)
	f.writeManifest(t, "a==1\n")

	status, err := f.engine.Status(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.False(t, status.Cached)
	assert.False(t, status.EnvPresent)

	key := f.storeVersion(t, "a==1\n")

	status, err = f.engine.Status(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.Equal(t, key, status.Key)
	assert.True(t, status.Cached)
	assert.True(t, status.EnvPresent)
	assert.True(t, status.InSync)
	require.NotNil(t, status.Usage)
	assert.Equal(t, testHost, status.Usage.Hostname)

	f.writeEnv(t, map[string]string{"pyvenv.cfg": "a==1\n", "extra.py": "x"})

	status, err = f.engine.Status(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.True(t, status.Cached)
	assert.False(t, status.InSync)
}
