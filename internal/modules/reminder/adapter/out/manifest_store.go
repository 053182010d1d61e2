package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ttrack/internal/modules/reminder/domain"
)

// FileManifestStore reads notifier plugin manifests from
// <dataDir>/notifiers/notifiers.json. Relative binary paths resolve
// against the data dir.
type FileManifestStore struct {
	baseDir string
	path    string
}

func NewFileManifestStore(dataDir string) *FileManifestStore {
	return &FileManifestStore{baseDir: dataDir, path: filepath.Join(dataDir, "notifiers", "notifiers.json")}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.NotifierManifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.NotifierManifest{}, nil
		}
		return nil, fmt.Errorf("read notifier manifests: %w", err)
	}
	var manifests []domain.NotifierManifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode notifier manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.baseDir, manifests[i].Binary))
		}
	}
	return manifests, nil
}
