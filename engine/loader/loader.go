package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"

	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for paths that are not .gltf or .glb, optionally followed by .zst.
var ErrUnsupportedFormat = errors.New("unsupported scene format")

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	sceneCache map[string]scene.Scene

	logger *zap.Logger
}

// Loader defines the public-facing interface for loading and caching glTF scenes.
// A loaded scene keeps the document's node hierarchy, so each glTF node is addressable by name.
type Loader interface {
	// Load imports a scene file and caches the result by path.
	// If the scene is already cached, the cached instance is returned.
	// Accepted extensions are .gltf and .glb, each optionally compressed with zstd as .gltf.zst or .glb.zst.
	//
	// Parameters:
	//   - path: the file path to the scene file
	//
	// Returns:
	//   - scene.Scene: the loaded and cached scene
	//   - error: error if loading fails
	Load(path string) (scene.Scene, error)

	// LoadReader imports a scene from a reader stream and caches it by the given name.
	// External buffer files cannot be resolved from a stream; use data URIs or GLB.
	//
	// Parameters:
	//   - name: the cache key and scene name
	//   - r: the reader providing scene data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - scene.Scene: the loaded scene
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (scene.Scene, error)

	// Decode is Load shaped for the asset server, which runs it on a worker goroutine.
	//
	// Parameters:
	//   - path: the file path to the scene file
	//
	// Returns:
	//   - any: the loaded scene.Scene
	//   - error: error if loading fails
	Decode(path string) (any, error)

	// Get retrieves a cached scene by name. Returns nil if not found.
	Get(name string) scene.Scene
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader instance
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		sceneCache: make(map[string]scene.Scene),
		logger:     zap.NewNop(),
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (scene.Scene, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	if err := checkFormat(path); err != nil {
		return nil, err
	}

	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	sc, err := buildScene(sceneName(path), parser, l.logger.With(zap.String("path", path)))
	if err != nil {
		return nil, fmt.Errorf("failed to build scene from %s: %w", path, err)
	}
	l.logger.Debug("scene loaded", zap.String("path", path), zap.Int("nodes", sc.Len()))

	return l.store(path, sc), nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (scene.Scene, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	sc, err := buildScene(name, parser, l.logger.With(zap.String("name", name)))
	if err != nil {
		return nil, fmt.Errorf("failed to build scene %q: %w", name, err)
	}

	return l.store(name, sc), nil
}

func (l *loader) Decode(path string) (any, error) {
	sc, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func (l *loader) Get(name string) scene.Scene {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sceneCache[name]
}

// store caches sc under key unless a concurrent load got there first, and returns the cached scene.
func (l *loader) store(key string, sc scene.Scene) scene.Scene {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.sceneCache[key]; ok {
		return existing
	}
	l.sceneCache[key] = sc
	return sc
}

// checkFormat validates the extension of a scene path.
func checkFormat(path string) error {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(strings.ToLower(path), compressedExt)))
	switch ext {
	case ".gltf", ".glb":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// sceneName derives a scene name from a file path, e.g. "assets/dungeon.glb.zst" becomes "dungeon".
func sceneName(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(base), compressedExt) {
		base = base[:len(base)-len(compressedExt)]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
