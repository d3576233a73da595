package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	cachekey "github.com/always-cache/go2web/pkg/cache-key"
	serializer "github.com/always-cache/go2web/pkg/response-serializer"
)

// DefaultDirName is the cache directory created under the user's home.
const DefaultDirName = ".go2web_cache"

// FileCache keeps one file per key in a directory. Files are replaced
// atomically, the last writer wins.
type FileCache struct {
	dir string
}

// DefaultDir returns ~/.go2web_cache, or a directory under the system temp
// dir when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), DefaultDirName)
	}
	return filepath.Join(home, DefaultDirName)
}

func NewFileCache(dir string) (FileCache, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return FileCache{}, err
	}
	return FileCache{dir: dir}, nil
}

func (f FileCache) Dir() string {
	return f.dir
}

func (f FileCache) Get(key string) ([]byte, bool, error) {
	bytes, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return bytes, true, nil
}

// Put writes the bytes to a temporary file and renames it over the entry.
// The expiry is read back from the record itself when sweeping.
func (f FileCache) Put(key string, expires time.Time, bytes []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(bytes); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (f FileCache) Purge(key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Keys lists entries in the directory. Files that are not cache keys are skipped.
func (f FileCache) Keys(cb func(string)) error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() && cachekey.Valid(entry.Name()) {
			cb(entry.Name())
		}
	}
	return nil
}

// Expired reports entries expiring before t. Unreadable records count as
// expired so that sweeping removes them.
func (f FileCache) Expired(t time.Time, cb func(string)) error {
	var expired []string
	err := f.Keys(func(key string) {
		bytes, ok, err := f.Get(key)
		if err != nil || !ok {
			return
		}
		sRes, err := serializer.BytesToStoredResponse(bytes)
		if err != nil || sRes.Expires.Before(t) {
			expired = append(expired, key)
		}
	})
	if err != nil {
		return err
	}
	for _, key := range expired {
		cb(key)
	}
	return nil
}

func (f FileCache) path(key string) string {
	return filepath.Join(f.dir, key)
}
