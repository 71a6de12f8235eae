package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ncst-capstone/evaluation-service/internal/events"
	"github.com/ncst-capstone/evaluation-service/internal/repositories"
	"github.com/ncst-capstone/evaluation-service/internal/utils"
	"github.com/ncst-capstone/evaluation-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager.
type ServiceManagerConfig struct {
	RatingScale RatingScale
}

// serviceManager implements ServiceManager.
type serviceManager struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *utils.TokenManager
	publisher events.EventPublisher
	config    ServiceManagerConfig

	evaluationService   EvaluationService
	reportService       ReportService
	rosterService       RosterService
	accountService      AccountService
	notificationService NotificationEventService
	exportService       ExportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
// The publisher may be nil; notification delivery then degrades to a
// no-op and every triggering operation still succeeds.
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, tokens *utils.TokenManager, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: v,
		tokens:    tokens,
		publisher: publisher,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with the default
// rating scale.
func NewDefaultServiceManager(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, tokens *utils.TokenManager, publisher events.EventPublisher) ServiceManager {
	return NewServiceManager(repo, logger, v, tokens, publisher, ServiceManagerConfig{
		RatingScale: DefaultRatingScale,
	})
}

// Initialize wires all services and verifies the storage layer is
// reachable.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	scale := sm.config.RatingScale
	if scale.Min >= scale.Max {
		return fmt.Errorf("invalid rating scale: min %d must be below max %d", scale.Min, scale.Max)
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.notificationService = NewNotificationEventService(sm.publisher, sm.logger)
	sm.evaluationService = NewEvaluationService(sm.repo, sm.logger, sm.validator, scale, sm.notificationService)
	sm.reportService = NewReportService(sm.repo, sm.logger)
	sm.rosterService = NewRosterService(sm.repo, sm.logger, sm.validator)
	sm.accountService = NewAccountService(sm.repo, sm.logger, sm.validator, sm.tokens, sm.notificationService)
	sm.exportService = NewExportService(sm.reportService, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized", "rating_min", scale.Min, "rating_max", scale.Max)

	return nil
}

func (sm *serviceManager) Evaluation() EvaluationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.evaluationService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.reportService
}

func (sm *serviceManager) Roster() RosterService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.rosterService
}

func (sm *serviceManager) Account() AccountService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.accountService
}

func (sm *serviceManager) Notification() NotificationEventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.notificationService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down")

	return nil
}
