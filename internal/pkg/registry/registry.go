package registry

import (
	"context"
	"sort"

	"github.com/jjhbk/Devrang/internal/pkg/config"
	"github.com/jjhbk/Devrang/internal/pkg/worker"
	"github.com/jjhbk/Devrang/pkg/cache"
	"github.com/jjhbk/Devrang/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ModuleContext is what every module gets at Init. Exactly one of DB and
// Mongo is set, depending on database.driver.
type ModuleContext struct {
	Config   *config.Config
	DB       *gorm.DB
	Mongo    *mongo.Database
	Redis    *redis.Client
	Cache    cache.CacheService
	Metrics  *metrics.MetricsCollector
	Notifier *worker.WorkerPool
	Router   *gin.Engine

	// Background jobs started by modules; cmd/server runs them until shutdown
	Jobs []Job
}

// Job is a long running loop owned by a module
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Module is a self-registering feature package
type Module interface {
	Name() string

	// Init wires repositories, services and routes
	Init(ctx *ModuleContext) error

	// Priority lower runs first
	Priority() int
}

var moduleRegistry = make(map[string]Module)

// Register is called from each module's init()
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

func GetModules() map[string]Module {
	return moduleRegistry
}

// InitModules runs Init on every registered module ordered by priority
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() == modules[j].Priority() {
			return modules[i].Name() < modules[j].Name()
		}
		return modules[i].Priority() < modules[j].Priority()
	})

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
	}

	return nil
}
