package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jobify/cv-scorer/internal/models"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id uint) (*models.Job, error)
	FindRequirement(ctx context.Context, id uint) (*models.JobRequirement, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create implements JobRepository.
func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// FindByID implements JobRepository.
func (r *jobRepository) FindByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job %d: %w", id, ErrJobNotFound)
		}

		return nil, fmt.Errorf("failed to find job: %w", err)
	}

	return &job, nil
}

// FindRequirement implements JobRepository.
func (r *jobRepository) FindRequirement(ctx context.Context, id uint) (*models.JobRequirement, error) {
	job, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return job.Requirement(), nil
}

// StaticJobCatalog serves a fixed set of jobs. The CLI uses it when the job is
// given on the command line instead of read from the database.
type StaticJobCatalog map[uint]*models.JobRequirement

func (c StaticJobCatalog) FindRequirement(_ context.Context, id uint) (*models.JobRequirement, error) {
	job, ok := c[id]
	if !ok {
		return nil, fmt.Errorf("job %d: %w", id, ErrJobNotFound)
	}
	return job, nil
}
