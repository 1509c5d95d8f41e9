package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// yamlLoaderBackendImpl is the implementation of yamlLoaderBackend.
type yamlLoaderBackendImpl struct{}

// yamlLoaderBackend is a loaderBackend implementation for YAML model documents.
type yamlLoaderBackend interface {
	loaderBackend
}

var _ yamlLoaderBackend = &yamlLoaderBackendImpl{}

// newYAMLLoaderBackend creates a new YAML loader backend.
//
// Returns:
//   - yamlLoaderBackend: the loader backend for .yaml/.yml files
func newYAMLLoaderBackend() yamlLoaderBackend {
	return &yamlLoaderBackendImpl{}
}

func (b *yamlLoaderBackendImpl) Load(path string) (model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return b.LoadReader(bytes.NewReader(data), assetName(path))
}

func (b *yamlLoaderBackendImpl) LoadReader(r io.Reader, name string) (model.Model, error) {
	doc, err := DecodeModelDocument(r)
	if err != nil {
		return nil, err
	}
	return doc.Build(name)
}
