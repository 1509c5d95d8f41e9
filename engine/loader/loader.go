package loader

import (
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	rootDir    string
	clipPolicy model.LoopPolicy

	modelCache map[string]model.Model
	pathIndex  map[string]string

	backends map[LoaderBackendType]loaderBackend
}

// Loader defines the public-facing interface for loading and caching animation assets.
// It abstracts the file format (YAML documents, glTF, GLB) behind per-format backends and
// manages a cache of loaded models keyed by model name. Cached models are immutable and may be
// shared by any number of controllers; a reload replaces the cache entry, never the model.
type Loader interface {
	// Load imports an asset file and caches the result.
	// If the file was already loaded, the cached model is returned.
	// The backend is selected based on the file extension (.yaml/.yml → YAML, .gltf/.glb → glTF).
	//
	// Parameters:
	//   - path: the file path to the asset, relative paths resolve against the root directory
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadReader imports an asset from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing asset data
	//   - backendType: the format of the data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, backendType LoaderBackendType) (model.Model, error)

	// LoadDir loads every supported asset file directly inside a directory.
	// Files in unsupported formats are skipped. Loading stops at the first failing file.
	//
	// Parameters:
	//   - dir: the directory to scan, relative paths resolve against the root directory
	//
	// Returns:
	//   - []model.Model: the loaded models in file name order
	//   - error: error if the directory cannot be read or an asset fails to load
	LoadDir(dir string) ([]model.Model, error)

	// Reload re-imports a previously loaded file and replaces its cache entry.
	// On failure the previously cached model is kept.
	//
	// Parameters:
	//   - path: the file path passed to Load
	//
	// Returns:
	//   - model.Model: the freshly loaded model
	//   - error: ErrNotLoaded if the path was never loaded, or the load error
	Reload(path string) (model.Model, error)

	// Forget drops a model from the cache by name.
	//
	// Parameters:
	//   - name: the cache key to drop
	//
	// Returns:
	//   - bool: true if a model was dropped
	Forget(name string) bool

	// ForgetPath drops the model loaded from a file path.
	//
	// Parameters:
	//   - path: the file path passed to Load
	//
	// Returns:
	//   - bool: true if a model was dropped
	ForgetPath(path string) bool

	// Loaded reports whether a file path has been loaded and is still cached.
	//
	// Parameters:
	//   - path: the file path passed to Load
	//
	// Returns:
	//   - bool: true if the path is cached
	Loaded(path string) bool

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the provided options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		clipPolicy: model.LoopRepeat,
		modelCache: make(map[string]model.Model),
		pathIndex:  make(map[string]string),
	}

	for _, option := range options {
		option(l)
	}

	l.backends = map[LoaderBackendType]loaderBackend{
		BackendTypeYAML: newYAMLLoaderBackend(),
		BackendTypeGLTF: newGLTFLoaderBackend(l.clipPolicy),
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	key := l.resolve(path)

	l.mu.RLock()
	if name, ok := l.pathIndex[key]; ok {
		if cached, ok := l.modelCache[name]; ok {
			l.mu.RUnlock()
			return cached, nil
		}
	}
	l.mu.RUnlock()

	return l.loadPath(key)
}

func (l *loader) LoadReader(name string, r io.Reader, backendType LoaderBackendType) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, ok := l.backends[backendType]
	if !ok {
		return nil, fmt.Errorf("%w: backend %s", ErrUnsupportedFormat, backendType)
	}

	m, err := backend.LoadReader(r, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadDir(dir string) ([]model.Model, error) {
	dir = l.resolve(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var models []model.Model
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, err := BackendTypeForPath(path); err != nil {
			continue
		}
		m, err := l.Load(path)
		if err != nil {
			return models, err
		}
		models = append(models, m)
	}
	return models, nil
}

func (l *loader) Reload(path string) (model.Model, error) {
	key := l.resolve(path)

	l.mu.RLock()
	_, ok := l.pathIndex[key]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotLoaded)
	}

	return l.loadPath(key)
}

func (l *loader) Forget(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.modelCache[name]; !ok {
		return false
	}
	delete(l.modelCache, name)
	maps.DeleteFunc(l.pathIndex, func(_, n string) bool { return n == name })
	return true
}

func (l *loader) ForgetPath(path string) bool {
	key := l.resolve(path)

	l.mu.Lock()
	defer l.mu.Unlock()

	name, ok := l.pathIndex[key]
	if !ok {
		return false
	}
	delete(l.pathIndex, key)
	delete(l.modelCache, name)
	return true
}

func (l *loader) Loaded(path string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.pathIndex[l.resolve(path)]
	return ok
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.modelCache)
}

// loadPath imports a resolved path through its backend and replaces the path's cache entry.
// A model renamed by the reload drops its old name.
func (l *loader) loadPath(key string) (model.Model, error) {
	backendType, err := BackendTypeForPath(key)
	if err != nil {
		return nil, err
	}

	m, err := l.backends[backendType].Load(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	l.mu.Lock()
	if old, ok := l.pathIndex[key]; ok && old != m.Name() {
		delete(l.modelCache, old)
	}
	if other := l.pathOf(m.Name()); other != "" && other != key {
		log.Printf("[Loader] model %q from %s replaces the one loaded from %s", m.Name(), key, other)
		delete(l.pathIndex, other)
	}
	l.modelCache[m.Name()] = m
	l.pathIndex[key] = m.Name()
	l.mu.Unlock()

	return m, nil
}

// pathOf returns the path a cached model name was loaded from, or "". Callers hold mu.
func (l *loader) pathOf(name string) string {
	paths := slices.Sorted(maps.Keys(l.pathIndex))
	for _, p := range paths {
		if l.pathIndex[p] == name {
			return p
		}
	}
	return ""
}

// resolve makes a path absolute against the root directory so every spelling of one file
// shares a cache entry.
func (l *loader) resolve(path string) string {
	if !filepath.IsAbs(path) && l.rootDir != "" {
		path = filepath.Join(l.rootDir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
