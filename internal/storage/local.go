package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// LocalStore writes objects below a directory that the HTTP server exposes
// under publicPath.
type LocalStore struct {
	root       string
	publicPath string
}

// NewLocalStore returns a store rooted at root.
func NewLocalStore(root, publicPath string) *LocalStore {
	if publicPath == "" {
		publicPath = "/media"
	}
	return &LocalStore{root: root, publicPath: publicPath}
}

// Root is the directory objects are written under.
func (s *LocalStore) Root() string { return s.root }

// PublicPath is the URL prefix objects are served from.
func (s *LocalStore) PublicPath() string { return s.publicPath }

func (s *LocalStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := writeBytesToFile(filepath.Join(s.root, filepath.FromSlash(key)), data); err != nil {
		return "", err
	}
	return joinURL(s.publicPath, key), nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) KeyFor(url string) (string, bool) {
	return keyFromURL(s.publicPath, url)
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
