package repositories

import (
	"context"
	"errors"
	"testing"

	"jobify/cv-scorer/internal/models"
)

func TestStaticJobCatalog(t *testing.T) {
	catalog := StaticJobCatalog{
		1: {ID: 1, Title: "Backend Developer"},
	}

	job, err := catalog.FindRequirement(context.Background(), 1)
	if err != nil || job.Title != "Backend Developer" {
		t.Fatalf("unexpected job %+v, %v", job, err)
	}

	_, err = catalog.FindRequirement(context.Background(), 2)
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestStaticJobCatalogSatisfiesRepositoryLookup(t *testing.T) {
	var lookup interface {
		FindRequirement(ctx context.Context, id uint) (*models.JobRequirement, error)
	} = StaticJobCatalog{}

	if _, err := lookup.FindRequirement(context.Background(), 1); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
