package profiles_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kadirbelkuyu/tabledef/internal/config"
	"github.com/kadirbelkuyu/tabledef/internal/profiles"
)

func TestManagerSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	manager := profiles.NewManager(dir)

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Host:     "db.internal",
			Port:     5432,
			Database: "erp",
		},
		Export: config.ExportConfig{Style: "generic"},
	}
	cfg.ApplyDefaults()

	profile, err := manager.Save("Prod DB", cfg)
	require.NoError(t, err)
	require.Equal(t, "Prod_DB", profile.Name)
	require.Equal(t, "postgres", profile.Driver)
	require.Equal(t, "erp@db.internal:5432", profile.Target)
	require.FileExists(t, profile.Path)

	loaded, err := manager.Load(profile.Name)
	require.NoError(t, err)
	require.Equal(t, cfg.Database.Host, loaded.Database.Host)
	require.Equal(t, "generic", loaded.Export.Style)

	byPath, err := manager.Load(profile.Path)
	require.NoError(t, err)
	require.Equal(t, loaded, byPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestManagerListSkipsInvalidProfiles(t *testing.T) {
	dir := t.TempDir()
	manager := profiles.NewManager(dir)

	writeConfig(t, dir, "beta.yaml", "postgres")
	writeConfig(t, dir, "alpha.yml", "postgres")
	writeConfig(t, dir, "legacy-mongo.yaml", "mongo")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644))

	list, err := manager.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "alpha", list[0].Name)
	require.Equal(t, "beta", list[1].Name)
	require.False(t, list[0].Modified.IsZero())
}

func TestManagerListMissingDirectory(t *testing.T) {
	list, err := profiles.NewManager(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestManagerDelete(t *testing.T) {
	dir := t.TempDir()
	manager := profiles.NewManager(dir)
	writeConfig(t, dir, "scratch.yaml", "postgres")

	require.NoError(t, manager.Delete("scratch"))
	require.NoFileExists(t, filepath.Join(dir, "scratch.yaml"))
	require.Error(t, manager.Delete("scratch"))
	require.Error(t, manager.Delete(" "))
}

func writeConfig(t *testing.T, dir, name, dbType string) {
	t.Helper()

	cfg := config.Config{
		Database: config.DatabaseConfig{
			Type:     dbType,
			Host:     "localhost",
			Port:     5432,
			Database: "postgres",
		},
	}

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
