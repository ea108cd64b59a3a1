package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/winrtgen/errors"
)

// isolate points HOME at an empty directory so user config never leaks in.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultStyle, cfg.Render.Style)
	assert.Equal(t, DefaultFormat, cfg.Output.Format)
	assert.Equal(t, 0, cfg.Generate.Workers)
	assert.Empty(t, cfg.Metadata.Paths)
	assert.Empty(t, cfg.Source)
}

func TestLoadFindsProjectConfig(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
[metadata]
paths = ["winmd/*.yaml"]

[generate]
namespaces = ["Windows.Foundation"]
workers = 2

[render]
style = "cpp"
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := LoadFrom(nested)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, FileName), cfg.Source)
	assert.Equal(t, []string{"winmd/*.yaml"}, cfg.Metadata.Paths)
	assert.Equal(t, []string{"Windows.Foundation"}, cfg.Generate.Namespaces)
	assert.Equal(t, 2, cfg.Generate.Workers)
	assert.Equal(t, "cpp", cfg.Render.Style)
	assert.Equal(t, DefaultFormat, cfg.Output.Format, "unset keys keep defaults")
}

func TestLoadPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, UserDir, FileName), `
[output]
format = "json"

[generate]
workers = 1
`)

	project := t.TempDir()
	writeFile(t, filepath.Join(project, FileName), `
[generate]
workers = 3
`)
	t.Setenv("WINRTGEN_RENDER_STYLE", "cpp")

	cfg, err := LoadFrom(project)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output.Format, "user config applies")
	assert.Equal(t, 3, cfg.Generate.Workers, "project config beats user config")
	assert.Equal(t, "cpp", cfg.Render.Style, "environment beats files")

	t.Setenv("WINRTGEN_GENERATE_WORKERS", "5")
	cfg, err = LoadFrom(project)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Generate.Workers)
}

func TestLoadFromFileIgnoresEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[render]\nstyle = \"python\"\n")
	t.Setenv("WINRTGEN_RENDER_STYLE", "cpp")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "python", cfg.Render.Style)
	assert.Equal(t, path, cfg.Source)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "[render]\nstyle = \"cobol\"\n")

	_, err := LoadFrom(root)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero workers is valid", func(c *Config) { c.Generate.Workers = 0 }, false},
		{"negative workers", func(c *Config) { c.Generate.Workers = -1 }, true},
		{"unknown style", func(c *Config) { c.Render.Style = "rust" }, true},
		{"json format", func(c *Config) { c.Output.Format = "JSON" }, false},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, true},
		{"empty namespace", func(c *Config) { c.Generate.Namespaces = []string{""} }, true},
		{"trailing dot", func(c *Config) { c.Generate.Namespaces = []string{"Windows."} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlanOptions(t *testing.T) {
	cfg := Default()
	cfg.Render.Style = "cpp"
	cfg.Generate.Workers = 4
	cfg.Generate.ExcludeExclusive = true

	opts, err := cfg.PlanOptions()
	require.NoError(t, err)
	assert.Equal(t, "cpp", opts.Style.Name)
	assert.Equal(t, 4, opts.Workers)
	assert.True(t, opts.ExcludeExclusive)
}

func TestMetadataFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "winmd", "a.yaml"), "")
	writeFile(t, filepath.Join(root, "winmd", "b.toml"), "")
	writeFile(t, filepath.Join(root, "winmd", "notes.txt"), "")
	writeFile(t, filepath.Join(root, "extra", "c.yml"), "")

	cfg := Default()
	cfg.Source = filepath.Join(root, FileName)
	cfg.Metadata.Paths = []string{"winmd", "extra/*.yml", "winmd/a.yaml"}

	files, err := cfg.MetadataFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "extra", "c.yml"),
		filepath.Join(root, "winmd", "a.yaml"),
		filepath.Join(root, "winmd", "b.toml"),
	}, files)

	cfg.Metadata.Paths = []string{"nothing/*.yaml"}
	_, err = cfg.MetadataFiles()
	assert.True(t, errors.IsInvalidInput(err))

	cfg.Metadata.Paths = nil
	_, err = cfg.MetadataFiles()
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestSaveRotatesBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", FileName)

	for workers := 1; workers <= 5; workers++ {
		cfg := Default()
		cfg.Generate.Workers = workers
		require.NoError(t, Save(path, cfg))
	}

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Generate.Workers)

	for n, want := range map[int]int{1: 4, 2: 3, 3: 2} {
		backup, err := LoadFromFile(BackupPath(path, n))
		require.NoError(t, err)
		assert.Equal(t, want, backup.Generate.Workers, "backup %d", n)
	}
	_, err = os.Stat(BackupPath(path, 4))
	assert.True(t, os.IsNotExist(err))

	bad := Default()
	bad.Generate.Workers = -2
	assert.Error(t, Save(path, bad))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	path, err := Init(dir, []string{"metadata"}, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"metadata"}, cfg.Metadata.Paths)

	_, err = Init(dir, nil, false)
	assert.True(t, errors.IsInvalidInput(err))

	_, err = Init(dir, nil, true)
	assert.NoError(t, err)
	assert.FileExists(t, BackupPath(path, 1))
}

func TestWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "foundation.yaml")
	other := filepath.Join(dir, "other.yaml")
	writeFile(t, watched, "a")
	writeFile(t, other, "a")

	w, err := NewWatcher(200*time.Millisecond, watched)
	require.NoError(t, err)

	changes := make(chan []string, 4)
	w.OnChange(func(changed []string) error {
		changes <- changed
		return nil
	})
	w.Start()
	defer func() { assert.NoError(t, w.Stop()) }()

	writeFile(t, other, "b")
	writeFile(t, watched+".back1", "b")
	for i := 0; i < 3; i++ {
		writeFile(t, watched, "b")
	}

	abs, err := filepath.Abs(watched)
	require.NoError(t, err)

	select {
	case changed := <-changes:
		assert.Equal(t, []string{abs}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	select {
	case changed := <-changes:
		t.Fatalf("unexpected second notification: %v", changed)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherStopWaitsForCallbacks(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "widgets.toml")
	writeFile(t, watched, "a")

	w, err := NewWatcher(50*time.Millisecond, watched)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	w.OnChange(func([]string) error {
		once.Do(func() { close(entered) })
		<-release
		return nil
	})
	w.Start()

	writeFile(t, watched, "b")
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		_ = w.Stop()
		t.Fatal("callback never ran")
	}

	stopped := make(chan error, 1)
	go func() { stopped <- w.Stop() }()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a callback was running")
	case <-time.After(200 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the callback finished")
	}
}

func TestNewWatcherRequiresFiles(t *testing.T) {
	_, err := NewWatcher(0)
	assert.True(t, errors.IsInvalidInput(err))
}
