package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/vex/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// searchPathVar names the environment variable listing additional
// directories searched for relative binding files.
const searchPathVar = "VEX_PATH"

var defaultDirMode os.FileMode = 0o700

var (
	configDir = pkg.ConfigDir
	cacheDir  = pkg.CacheDir
)

// configPath joins elem onto the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// searchPath returns the directories searched for relative binding files:
// the working directory and the configuration directory followed by each
// entry of $VEX_PATH. Directories that do not exist are omitted.
func searchPath() []string {
	prefix := []string{configDir()}
	if wd, err := os.Getwd(); err == nil {
		prefix = append([]string{wd}, prefix...)
	}

	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(searchPathVar)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()

	return slices.DeleteFunc(filepath.SplitList(list), func(dir string) bool {
		return !isDir(dir)
	})
}

// findFile resolves name against [searchPath]. Absolute names and names
// with an explicit directory are returned unchanged, as are names found in
// no search directory.
func findFile(name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}

	for _, dir := range searchPath() {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}

	return name
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
