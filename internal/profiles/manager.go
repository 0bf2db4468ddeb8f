package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/kadirbelkuyu/tabledef/internal/config"
	"gopkg.in/yaml.v3"
)

const defaultDir = "configs"

var fileNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9-_]`)

// Profile is a saved data source a report can be exported from.
type Profile struct {
	Name     string
	Path     string
	Driver   string
	Target   string
	Modified time.Time
}

// Manager keeps connection profiles as YAML files in one directory.
type Manager struct {
	dir string
	now func() time.Time
}

func NewManager(dir string) *Manager {
	if strings.TrimSpace(dir) == "" {
		dir = defaultDir
	}
	return &Manager{dir: dir, now: time.Now}
}

func (m *Manager) Directory() string {
	return m.dir
}

// List returns the loadable profiles sorted by name. Files that are not
// valid configurations are skipped.
func (m *Manager) List() ([]Profile, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var profiles []Profile
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}

		path := filepath.Join(m.dir, entry.Name())
		cfg, err := config.LoadConfig(path)
		if err != nil {
			continue
		}

		profile := describe(entry.Name(), path, cfg)
		if info, err := entry.Info(); err == nil {
			profile.Modified = info.ModTime()
		}
		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// Save writes cfg under alias; an empty alias is derived from the database
// name and the current time.
func (m *Manager) Save(alias string, cfg *config.Config) (Profile, error) {
	if cfg == nil {
		return Profile{}, fmt.Errorf("config cannot be nil")
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return Profile{}, err
	}

	base := strings.TrimSpace(alias)
	if base == "" {
		base = fmt.Sprintf("%s-%s", cfg.Database.Database, m.now().Format("20060102_150405"))
	}
	if isYAML(base) {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = sanitizeName(base) + ".yaml"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return Profile{}, err
	}

	path := filepath.Join(m.dir, base)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return Profile{}, err
	}

	profile := describe(base, path, cfg)
	profile.Modified = m.now()
	return profile, nil
}

// Load reads a profile by alias or by file path.
func (m *Manager) Load(alias string) (*config.Config, error) {
	path, err := m.resolve(alias)
	if err != nil {
		return nil, err
	}
	return config.LoadConfig(path)
}

func (m *Manager) Delete(alias string) error {
	path, err := m.resolve(alias)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("profile not found: %s", alias)
	}

	return os.Remove(path)
}

func (m *Manager) resolve(alias string) (string, error) {
	if strings.TrimSpace(alias) == "" {
		return "", fmt.Errorf("profile alias cannot be empty")
	}
	if strings.ContainsRune(alias, os.PathSeparator) {
		return alias, nil
	}
	return filepath.Join(m.dir, ensureYAMLExt(alias)), nil
}

func describe(fileName, path string, cfg *config.Config) Profile {
	target := cfg.Database.Database
	if cfg.Database.URI != "" {
		target = "uri"
	} else if cfg.Database.Host != "" {
		target = fmt.Sprintf("%s@%s:%d", cfg.Database.Database, cfg.Database.Host, cfg.Database.Port)
	}

	return Profile{
		Name:   strings.TrimSuffix(fileName, filepath.Ext(fileName)),
		Path:   path,
		Driver: cfg.Database.Driver,
		Target: target,
	}
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func ensureYAMLExt(name string) string {
	if isYAML(name) {
		return name
	}
	return name + ".yaml"
}

func sanitizeName(input string) string {
	cleaned := fileNameSanitizer.ReplaceAllString(input, "_")
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return "profile"
	}
	return cleaned
}
