package lambda

import (
	"context"
	"sync"
	"time"

	"expense-categorizer-api/internal/config"
	"expense-categorizer-api/pkg/server"
)

// ConnectionManager keeps the service container alive across warm Lambda invocations
type ConnectionManager struct {
	container   *server.Container
	lastUsed    time.Time
	mu          sync.RWMutex
	initialized bool
	config      *config.Config
	loadConfig  func() (*config.Config, error)
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = NewConnectionManager(config.GetOptimizedConfig)
	})
	return globalConnectionManager
}

// NewConnectionManager creates a connection manager that loads configuration lazily
func NewConnectionManager(loadConfig func() (*config.Config, error)) *ConnectionManager {
	return &ConnectionManager{loadConfig: loadConfig}
}

// Initialize initializes the connection manager with configuration
func (cm *ConnectionManager) Initialize(cfg *config.Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.initializeLocked(cfg)
}

func (cm *ConnectionManager) initializeLocked(cfg *config.Config) error {
	if cm.initialized {
		return nil
	}

	container, err := server.NewContainer(cfg)
	if err != nil {
		return err
	}

	cm.config = cfg
	cm.container = container
	cm.lastUsed = time.Now()
	cm.initialized = true
	return nil
}

// GetContainer returns the service container, initializing it on first use.
// A failed initialization is retried on the next invocation.
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.RLock()
	if cm.initialized {
		container := cm.container
		cm.mu.RUnlock()
		cm.UpdateLastUsed()
		return container, nil
	}
	cm.mu.RUnlock()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	cfg := cm.config
	if cfg == nil {
		var err error
		cfg, err = cm.loadConfig()
		if err != nil {
			return nil, err
		}
	}
	if err := cm.initializeLocked(cfg); err != nil {
		return nil, err
	}
	return cm.container, nil
}

// IsHealthy checks if the connection manager holds an initialized container
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.initialized && cm.container != nil
}

// IdleFor returns how long the container has gone without an invocation
func (cm *ConnectionManager) IdleFor() time.Duration {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	if !cm.initialized {
		return 0
	}
	return time.Since(cm.lastUsed)
}

// Cleanup performs cleanup operations
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	cm.initialized = false
	return nil
}

// UpdateLastUsed updates the last used timestamp
func (cm *ConnectionManager) UpdateLastUsed() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.lastUsed = time.Now()
}
