package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ncst-capstone/evaluation-service/internal/cache"
	"github.com/ncst-capstone/evaluation-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface.
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	student    repositories.StudentRepository
	teacher    repositories.TeacherRepository
	admin      repositories.AdminRepository
	question   repositories.QuestionRepository
	evaluation repositories.EvaluationRepository
	report     repositories.ReportRepository
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a repository backed by the given gorm
// handle. The redis client is optional; repositories degrade to direct
// queries when it is nil.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	return &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
		student:      NewStudentPostgreSQL(config.DB),
		teacher:      NewTeacherPostgreSQL(config.DB),
		admin:        NewAdminPostgreSQL(config.DB),
		question:     NewQuestionPostgreSQL(config.DB, cacheManager),
		evaluation:   NewEvaluationPostgreSQL(config.DB),
		report:       NewReportPostgreSQL(config.DB),
	}
}

func (r *PostgreSQLRepository) Student() repositories.StudentRepository       { return r.student }
func (r *PostgreSQLRepository) Teacher() repositories.TeacherRepository       { return r.teacher }
func (r *PostgreSQLRepository) Admin() repositories.AdminRepository           { return r.admin }
func (r *PostgreSQLRepository) Question() repositories.QuestionRepository     { return r.question }
func (r *PostgreSQLRepository) Evaluation() repositories.EvaluationRepository { return r.evaluation }
func (r *PostgreSQLRepository) Report() repositories.ReportRepository         { return r.report }

// WithTransaction runs fn against a transaction-scoped repository set.
// Any error from fn rolls back every statement issued through it.
// Transaction-scoped reads bypass the cache so uncommitted rows are
// never stored; affected keys are dropped once the commit lands.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	txCache := cache.NewCacheManager(nil)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: txCache,
			student:      NewStudentPostgreSQL(tx),
			teacher:      NewTeacherPostgreSQL(tx),
			admin:        NewAdminPostgreSQL(tx),
			question:     NewQuestionPostgreSQL(tx, txCache),
			evaluation:   NewEvaluationPostgreSQL(tx),
			report:       NewReportPostgreSQL(tx),
		}
		return fn(txRepo)
	})
	if err != nil {
		return err
	}

	cache.SafeDelete(ctx, r.cacheManager.Question, rosterCacheKey)
	return nil
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

// repositoryManager implements repositories.RepositoryManager.
type repositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

func (m *repositoryManager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("repository manager requires a database connection")
	}
	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *repositoryManager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repository manager not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *repositoryManager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
