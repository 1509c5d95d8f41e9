package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// LoaderBackendType identifies the asset file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeYAML selects the YAML model document backend.
	BackendTypeYAML LoaderBackendType = iota

	// BackendTypeGLTF selects the glTF/GLB import backend.
	BackendTypeGLTF
)

// String returns a readable name for the backend type.
func (t LoaderBackendType) String() string {
	switch t {
	case BackendTypeYAML:
		return "yaml"
	case BackendTypeGLTF:
		return "gltf"
	default:
		return fmt.Sprintf("LoaderBackendType(%d)", int(t))
	}
}

// BackendTypeForPath selects a backend from a file extension.
//
// Parameters:
//   - path: the asset file path
//
// Returns:
//   - LoaderBackendType: the backend handling the extension
//   - error: ErrUnsupportedFormat if no backend handles it
func BackendTypeForPath(path string) (LoaderBackendType, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return BackendTypeYAML, nil
	case ".gltf", ".glb":
		return BackendTypeGLTF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// loaderBackend defines the generic interface for building models from files or streams.
// Concrete implementations (yamlLoaderBackend, gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load builds a model from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - model.Model: the loaded model, named after the file when the asset carries no name
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadReader builds a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing asset data
	//   - name: the model name to use when the asset carries no name
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(r io.Reader, name string) (model.Model, error)
}

// assetName derives a fallback model name from a file path: the base name without extension.
func assetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
