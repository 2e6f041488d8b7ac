package commands_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/venvcache/cmd/venvcache/commands"
	"go.trai.ch/venvcache/internal/app"
	"go.trai.ch/venvcache/internal/build"
	"go.trai.ch/venvcache/internal/core/domain"
)

type mockApp struct {
	opts      app.Options
	verbose   bool
	logFormat string

	entries []domain.Entry
	evicted []domain.CacheKey
	status  domain.Status
	err     error
	called  string
}

func (m *mockApp) Init(opts app.Options) (string, domain.Config, error) {
	m.opts, m.called = opts, "init"
	return "/work/.virtualenv_cache.toml", domain.DefaultConfig("/work"), m.err
}

func (m *mockApp) Restore(_ context.Context, opts app.Options) (domain.CacheKey, error) {
	m.opts, m.called = opts, "restore"
	return "", m.err
}

func (m *mockApp) Store(_ context.Context, opts app.Options) (domain.CacheKey, error) {
	m.opts, m.called = opts, "store"
	return "", m.err
}

func (m *mockApp) List(_ context.Context, opts app.Options) ([]domain.Entry, error) {
	m.opts, m.called = opts, "list"
	return m.entries, m.err
}

func (m *mockApp) Trim(_ context.Context, opts app.Options) ([]domain.CacheKey, error) {
	m.opts, m.called = opts, "trim"
	return m.evicted, m.err
}

func (m *mockApp) Erase(_ context.Context, opts app.Options) error {
	m.opts, m.called = opts, "erase"
	return m.err
}

func (m *mockApp) Status(_ context.Context, opts app.Options) (domain.Status, error) {
	m.opts, m.called = opts, "status"
	return m.status, m.err
}

func (m *mockApp) SetVerbose(enable bool) {
	m.verbose = enable
}

func (m *mockApp) SetLogFormat(format string) error {
	m.logFormat = format
	return nil
}

const (
	keyA = domain.CacheKey("d459b7602fee6ffdb9e12821e772201f5c1697356d75297769945f3269135774")
	keyB = domain.CacheKey("e2cda17a18b8b6fcb922c757e4b5585f6e0fd741748e75c32a3fc562c51e8cb6")
)

func sampleEntries() []domain.Entry {
	return []domain.Entry{
		{ID: keyB, Hostname: "ci-runner-2", Timestamp: time.Date(2024, 5, 2, 8, 0, 0, 123456000, time.UTC)},
		{ID: keyA, Hostname: "ci-runner-1", Timestamp: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)},
	}
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	cli := commands.New(m)
	out := new(bytes.Buffer)
	cli.SetOutput(out, new(bytes.Buffer))
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCommands_DispatchAndFlags(t *testing.T) {
	for _, name := range []string{"init", "restore", "store", "list", "trim", "erase", "status"} {
		t.Run(name, func(t *testing.T) {
			m := &mockApp{}
			_, err := execute(t, m, name, "--config-path", "ci.toml", "-w", "/work", "-v", "--log-format", "json")
			require.NoError(t, err)

			assert.Equal(t, name, m.called)
			assert.Equal(t, app.Options{ConfigPath: "ci.toml", WorkDir: "/work"}, m.opts)
			assert.True(t, m.verbose)
			assert.Equal(t, "json", m.logFormat)
		})
	}
}

func TestCommands_EnvironmentOptions(t *testing.T) {
	t.Setenv("VIRTUALENV_CACHE_CONFIG_PATH", "/etc/venvcache.toml")
	t.Setenv("VIRTUALENV_CACHE_WORK_DIR", "/srv/project")

	m := &mockApp{}
	_, err := execute(t, m, "restore")
	require.NoError(t, err)
	assert.Equal(t, app.Options{ConfigPath: "/etc/venvcache.toml", WorkDir: "/srv/project"}, m.opts)
	assert.Equal(t, app.LogFormatPretty, m.logFormat)

	_, err = execute(t, m, "restore", "-c", "local.toml")
	require.NoError(t, err)
	assert.Equal(t, "local.toml", m.opts.ConfigPath, "flags win over the environment")
}

func TestCommands_ErrorsPropagate(t *testing.T) {
	m := &mockApp{err: domain.ErrCacheMiss}
	_, err := execute(t, m, "restore")
	require.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCommands_Init(t *testing.T) {
	out, err := execute(t, &mockApp{}, "init")
	require.NoError(t, err)
	assert.Equal(t, "/work/.virtualenv_cache.toml\n", out)
}

func TestCommands_Trim(t *testing.T) {
	out, err := execute(t, &mockApp{evicted: []domain.CacheKey{keyA, keyB}}, "trim")
	require.NoError(t, err)
	assert.Equal(t, keyA.String()+"\n"+keyB.String()+"\n", out)
}

func TestCommands_ListFormats(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		entries    []domain.Entry
		goldenName string
	}{
		{name: "json", format: "json", entries: sampleEntries(), goldenName: "list_json"},
		{name: "json empty", format: "json", entries: []domain.Entry{}, goldenName: "list_json_empty"},
		{name: "yaml", format: "yaml", entries: sampleEntries(), goldenName: "list_yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, &mockApp{entries: tt.entries}, "list", "--format", tt.format)
			require.NoError(t, err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, []byte(out))
		})
	}
}

func TestCommands_ListTable(t *testing.T) {
	out, err := execute(t, &mockApp{entries: sampleEntries()}, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Cached Python environments")
	assert.Contains(t, out, "Hostname")
	assert.Contains(t, out, "Last used")
	assert.Contains(t, out, keyA.String())
	assert.Contains(t, out, "ci-runner-2")
	assert.Contains(t, out, "2024-05-01 09:30:00")
	assert.Less(t, bytes.Index([]byte(out), []byte(keyB)), bytes.Index([]byte(out), []byte(keyA)), "keeps the given order")
}

func TestCommands_ListTableEmpty(t *testing.T) {
	out, err := execute(t, &mockApp{entries: []domain.Entry{}}, "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCommands_ListUnknownFormat(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "list", "--format", "xml")
	require.Error(t, err)
	assert.Empty(t, m.called, "the cache is not read for an invalid format")
}

func TestCommands_Status(t *testing.T) {
	usage := domain.Usage{Hostname: "ci-runner-1", Timestamp: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)}

	tests := []struct {
		name   string
		status domain.Status
		want   []string
	}{
		{
			name:   "in sync",
			status: domain.Status{Key: keyA, Cached: true, Usage: &usage, EnvPresent: true, InSync: true},
			want:   []string{keyA.String(), "● cached", "2024-05-01 09:30:00 on ci-runner-1", "✓ matches cache"},
		},
		{
			name:   "modified",
			status: domain.Status{Key: keyA, Cached: true, EnvPresent: true},
			want:   []string{"! differs from cache"},
		},
		{
			name:   "nothing cached",
			status: domain.Status{Key: keyA},
			want:   []string{"○ not cached", "○ missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, &mockApp{status: tt.status}, "status")
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "venvcache version "+build.Version)
}

func TestCommands_VerboseShorthand(t *testing.T) {
	m := &mockApp{entries: []domain.Entry{}}
	_, err := execute(t, m, "-v", "list")
	require.NoError(t, err)
	assert.Equal(t, "list", m.called)
	assert.True(t, m.verbose, "-v enables verbose output")

	out, err := execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "venvcache version "+build.Version)
}
