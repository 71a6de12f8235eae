package repositories

import "context"

// Repository aggregates the per-entity repositories.
type Repository interface {
	Student() StudentRepository
	Teacher() TeacherRepository
	Admin() AdminRepository
	Question() QuestionRepository
	Evaluation() EvaluationRepository
	Report() ReportRepository

	// WithTransaction runs fn against a transaction-scoped Repository.
	// fn returning an error rolls the whole transaction back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns the repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
