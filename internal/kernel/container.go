// Package kernel provides dependency management for the AnimeChat backend.
// It consolidates services and provides type-safe access to dependencies.
package kernel

import (
	"context"
	"sync"

	"github.com/animechat/backend/internal/auth"
	"github.com/animechat/backend/internal/cache"
	"github.com/animechat/backend/internal/chat"
	"github.com/animechat/backend/internal/jikan"
	"github.com/animechat/backend/internal/logger"
	"github.com/animechat/backend/internal/recommend"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Kernel holds all application dependencies and provides type-safe access
type Kernel struct {
	db     *gorm.DB
	logger *zap.Logger
	cache  *cache.RedisClient

	catalog     jikan.API
	authService *auth.Service
	resolver    *chat.Resolver
	recommender *recommend.Service

	cleanupFuncs []func(context.Context) error
	mu           sync.RWMutex
}

// New creates a new empty kernel
func New() *Kernel {
	return &Kernel{
		cleanupFuncs: make([]func(context.Context) error, 0),
	}
}

// SetDB registers the database connection
func (k *Kernel) SetDB(db *gorm.DB) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.db = db
	return k
}

// DB returns the database connection
func (k *Kernel) DB() *gorm.DB {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.db
}

// SetLogger registers the logger
func (k *Kernel) SetLogger(l *zap.Logger) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.logger = l
	return k
}

// Logger returns the logger instance
func (k *Kernel) Logger() *zap.Logger {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.logger == nil {
		return logger.Log
	}
	return k.logger
}

// SetCache registers the Redis cache client
func (k *Kernel) SetCache(client *cache.RedisClient) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cache = client
	return k
}

// Cache returns the Redis cache client, nil when Redis is not configured
func (k *Kernel) Cache() *cache.RedisClient {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.cache
}

// SetCatalog registers the catalog client
func (k *Kernel) SetCatalog(client jikan.API) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.catalog = client
	return k
}

// Catalog returns the catalog client
func (k *Kernel) Catalog() jikan.API {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.catalog
}

// SetAuthService registers the authentication service
func (k *Kernel) SetAuthService(service *auth.Service) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.authService = service
	return k
}

// Auth returns the authentication service
func (k *Kernel) Auth() *auth.Service {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.authService
}

// SetResolver registers the title resolver
func (k *Kernel) SetResolver(resolver *chat.Resolver) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.resolver = resolver
	return k
}

// Resolver returns the title resolver
func (k *Kernel) Resolver() *chat.Resolver {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.resolver
}

// SetRecommender registers the recommendation service
func (k *Kernel) SetRecommender(service *recommend.Service) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.recommender = service
	return k
}

// Recommender returns the recommendation service
func (k *Kernel) Recommender() *recommend.Service {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.recommender
}

// OnCleanup registers a cleanup function to be called during shutdown.
// Cleanup functions are called in LIFO order.
func (k *Kernel) OnCleanup(fn func(context.Context) error) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cleanupFuncs = append(k.cleanupFuncs, fn)
	return k
}

// Cleanup performs graceful shutdown of all registered services
func (k *Kernel) Cleanup(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	for i := len(k.cleanupFuncs) - 1; i >= 0; i-- {
		if err := k.cleanupFuncs[i](ctx); err != nil {
			k.Logger().Error("Cleanup function failed",
				zap.Int("index", i),
				zap.Error(err),
			)
		}
	}

	return nil
}
