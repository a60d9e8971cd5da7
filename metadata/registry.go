package metadata

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/syssam/magicdao/schema"
)

// Registry caches extracted entity metadata by entity type. Each type is
// extracted on first use and read-only afterwards. A Registry is safe for
// concurrent use.
type Registry struct {
	mu       sync.Mutex
	entities map[reflect.Type]any
	logger   *slog.Logger
}

// NewRegistry returns an empty registry. A nil logger uses slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entities: make(map[reflect.Type]any),
		logger:   logger,
	}
}

// Load returns the metadata of E, extracting it from def on first use.
// Later calls return the cached entity and ignore def.
func Load[E any](r *Registry, def *schema.Definition[E]) (*Entity[E], error) {
	t := reflect.TypeFor[E]()
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.entities[t]; ok {
		return m.(*Entity[E]), nil
	}
	m, err := extract(def, r.logger)
	if err != nil {
		return nil, err
	}
	r.entities[t] = m
	r.logger.Debug("metadata: entity registered",
		slog.String("entity", m.name),
		slog.String("table", m.table.Name()),
		slog.Any("keys", m.keys),
		slog.Int("columns", len(m.columns)),
	)
	return m, nil
}

// Len returns the number of registered entity types.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entities)
}
