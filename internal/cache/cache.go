// Package cache provides localized filesystem-based caching for transient item metadata.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/jellysan-cli/jellysan/filesystem"
	"github.com/jellysan-cli/jellysan/key"
	"github.com/jellysan-cli/jellysan/where"
	"github.com/spf13/viper"
)

// TTL returns the configured cache entry lifetime.
func TTL() time.Duration {
	hours := viper.GetInt(key.CacheTTLHours)
	if hours <= 0 {
		hours = 168
	}
	return time.Duration(hours) * time.Hour
}

// GenerateKey generates a deterministic SHA-256 hash from a lookup and server pair for use as a cache identifier.
func GenerateKey(lookup, server string) string {
	sanitized := strings.ToLower(strings.ReplaceAll(lookup, " ", "")) + server
	hash := sha256.Sum256([]byte(sanitized))
	return hex.EncodeToString(hash[:])
}

// Read attempts to retrieve and deserialize a cached object if it exists and has not exceeded its TTL.
func Read(key string, target interface{}) bool {
	fs := filesystem.API()
	path := filepath.Join(where.Cache(), key)

	info, err := fs.Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL() {
		return false
	}

	f, err := fs.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	decoder := json.NewDecoder(f)
	return decoder.Decode(target) == nil
}

// Write persists a serializable object to the cache using an atomic file swap to ensure data integrity.
func Write(key string, data interface{}) error {
	fs := filesystem.API()
	path := filepath.Join(where.Cache(), key)
	tmpPath := path + ".tmp"

	f, err := fs.Create(tmpPath)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(f)
	if err := encoder.Encode(data); err != nil {
		f.Close()
		return err
	}
	f.Close()

	return fs.Rename(tmpPath, path)
}

// CollectGarbage initializes an asynchronous background task to prune expired cache entries from the filesystem.
func CollectGarbage() {
	go func() {
		fs := filesystem.API()
		dir := where.Cache()
		entries, err := fs.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if time.Since(entry.ModTime()) > TTL() {
				_ = fs.Remove(filepath.Join(dir, entry.Name()))
			}
		}
	}()
}
