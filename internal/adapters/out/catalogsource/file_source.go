package catalogsource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"orderhub/internal/core/domain/model/catalog"

	"gopkg.in/yaml.v3"
)

// FileSource reads a JSON or YAML catalog document. The format follows the extension;
// .yaml and .yml are YAML, everything else is JSON.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

func (s *FileSource) Fetch(ctx context.Context) (catalog.Payload, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Payload{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return catalog.Payload{}, fmt.Errorf("read catalog file: %w", err)
	}

	var payload catalog.Payload
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &payload)
	default:
		err = json.Unmarshal(data, &payload)
	}
	if err != nil {
		return catalog.Payload{}, fmt.Errorf("decode catalog file: %w", err)
	}
	return payload, nil
}
