package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"projio/internal/fsutil"
	"projio/internal/logger"
)

// Ensure loads the config at path, writing the defaults first when the file
// does not exist yet.
func Ensure(path string) (Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	cfg = DefaultConfig()
	if err := Save(path, cfg); err != nil {
		return Config{}, err
	}
	logger.Logger.Infow("wrote default config", "path", path)
	return cfg, nil
}

// Load reads path on top of DefaultConfig, so keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "CFG_PARSE: %s", path)
	}
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := fsutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	blob, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "CFG_ENCODE")
	}
	return fsutil.AtomicWrite(path, blob, fsutil.FilePerm)
}

// Discover finds the project that contains startDir and loads its config.
// Outside any project it returns the defaults anchored at startDir.
func Discover(startDir string) (Config, string, error) {
	root, found := FindProjectRoot(startDir)
	if !found {
		abs, err := filepath.Abs(startDir)
		if err != nil {
			return Config{}, "", errors.Wrap(err, "CFG_DISCOVER")
		}
		return DefaultConfig(), abs, nil
	}
	cfg, err := Load(ConfigPath(root))
	if err != nil {
		return Config{}, "", err
	}
	logger.Logger.Debugw("loaded project config", "root", root)
	return cfg, root, nil
}

// Init writes a default config under dir/.projio. It refuses to overwrite an
// existing one.
func Init(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "CFG_INIT")
	}
	path := ConfigPath(abs)
	if _, err := os.Stat(path); err == nil {
		return "", errors.Newf("CFG_INIT: project already initialized at %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", errors.Wrap(err, "CFG_INIT")
	}
	if err := Save(path, DefaultConfig()); err != nil {
		return "", err
	}
	return path, nil
}
