package asset_server

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"
)

// Errors recorded against a handle when its load cannot run.
var (
	ErrNoDecoder   = errors.New("no decoder for asset")
	ErrClosed      = errors.New("asset server is closed")
	ErrDecodePanic = errors.New("asset decoder panicked")
	ErrUnknown     = errors.New("unknown asset handle")
)

// LoadStatus is the resolution state of one handle or of a set of handles.
type LoadStatus int

const (
	// StatusPending means the load has not resolved yet.
	StatusPending LoadStatus = iota

	// StatusLoaded means the load resolved successfully.
	StatusLoaded

	// StatusFailed means the load resolved with an error.
	StatusFailed
)

// String returns the lowercase name of the status.
func (s LoadStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Handle identifies one asset load. The zero Handle is never returned by Load.
type Handle struct {
	id   uint64
	path string
}

// ID returns the handle's numeric identifier.
func (h Handle) ID() uint64 { return h.id }

// Path returns the path the asset was requested from.
func (h Handle) Path() string { return h.path }

// DecodeFunc reads and decodes the asset at path. It runs on a worker goroutine.
type DecodeFunc func(path string) (any, error)

// StatusQuery reports the status of a single handle without blocking.
type StatusQuery interface {
	Status(h Handle) LoadStatus
}

// AssetServer loads assets in the background and answers non-blocking status queries.
// Loads are decoded on a worker pool; the simulation thread only polls.
// Thread-safe for concurrent access.
type AssetServer interface {
	StatusQuery

	// Load queues an asset for decoding and returns immediately.
	// Requesting a path that was already requested returns the existing handle.
	// Blocks only when the worker queue is full.
	//
	// Parameters:
	//   - path: the asset path
	//   - decode: the decoder run on a worker goroutine
	//
	// Returns:
	//   - Handle: the handle to poll
	Load(path string, decode DecodeFunc) Handle

	// Value returns the decoded asset for a resolved handle.
	//
	// Parameters:
	//   - h: the handle
	//
	// Returns:
	//   - any: the decoded value, or nil while pending or failed
	//   - error: the load error for a failed handle, or ErrUnknown
	Value(h Handle) (any, error)

	// Close stops the worker pool. Loads still queued are dropped and remain pending.
	Close()
}

type entry struct {
	status LoadStatus
	value  any
	err    error
}

type assetServer struct {
	mu *sync.Mutex

	logger    *zap.Logger
	workers   int
	queueSize int
	pool      worker.DynamicWorkerPool

	nextID  uint64
	entries map[uint64]*entry
	byPath  map[string]Handle
	closed  bool
}

var _ AssetServer = &assetServer{}

// NewAssetServer creates an AssetServer and starts its worker pool.
// The pool defaults to one worker fewer than the CPU count and a queue of 64 loads.
//
// Parameters:
//   - options: variadic list of AssetServerBuilderOption functions to configure the server
//
// Returns:
//   - AssetServer: the running server
func NewAssetServer(options ...AssetServerBuilderOption) AssetServer {
	s := &assetServer{
		mu:        &sync.Mutex{},
		logger:    zap.NewNop(),
		workers:   max(runtime.NumCPU()-1, 1),
		queueSize: 64,
		nextID:    1,
		entries:   make(map[uint64]*entry),
		byPath:    make(map[string]Handle),
	}
	for _, opt := range options {
		opt(s)
	}
	s.pool = worker.NewDynamicWorkerPool(s.workers, s.queueSize, 1*time.Second)
	return s
}

func (s *assetServer) Load(path string, decode DecodeFunc) Handle {
	s.mu.Lock()
	if h, ok := s.byPath[path]; ok {
		s.mu.Unlock()
		return h
	}
	h := Handle{id: s.nextID, path: path}
	s.nextID++
	s.entries[h.id] = &entry{status: StatusPending}
	s.byPath[path] = h
	closed := s.closed
	s.mu.Unlock()

	switch {
	case closed:
		s.finish(h, nil, ErrClosed)
		return h
	case decode == nil:
		s.finish(h, nil, ErrNoDecoder)
		return h
	}

	s.logger.Debug("asset queued", zap.String("path", path), zap.Uint64("handle", h.id))
	s.pool.SubmitTask(worker.Task{
		ID:      int(h.id),
		Payload: path,
		Do: func() (any, error) {
			v, err := runDecode(path, decode)
			s.finish(h, v, err)
			return v, err
		},
	})
	return h
}

func (s *assetServer) Status(h Handle) LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[h.id]
	if !ok {
		return StatusFailed
	}
	return e.status
}

func (s *assetServer) Value(h Handle) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[h.id]
	if !ok {
		return nil, ErrUnknown
	}
	return e.value, e.err
}

func (s *assetServer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.pool.Stop()
}

func (s *assetServer) finish(h Handle, v any, err error) {
	s.mu.Lock()
	e := s.entries[h.id]
	if err != nil {
		e.status = StatusFailed
		e.err = fmt.Errorf("load %s: %w", h.path, err)
	} else {
		e.status = StatusLoaded
		e.value = v
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("asset failed", zap.String("path", h.path), zap.Error(err))
		return
	}
	s.logger.Info("asset loaded", zap.String("path", h.path))
}

// runDecode keeps a panicking decoder from taking down the worker goroutine.
func runDecode(path string, decode DecodeFunc) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrDecodePanic, r)
		}
	}()
	return decode(path)
}
