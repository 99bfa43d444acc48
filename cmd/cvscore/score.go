package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobify/cv-scorer/internal/app"
	"jobify/cv-scorer/internal/config"
	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
	"jobify/cv-scorer/internal/render"
	"jobify/cv-scorer/internal/repositories"
	"jobify/cv-scorer/internal/services"
)

type scoreOptions struct {
	file         string
	jobID        uint
	demo         bool
	lang         string
	title        string
	company      string
	requirements string
	description  string
	experience   string
	education    string
}

var scoreOpts scoreOptions

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a CV file against a job",
	Long: `Score a CV file against a job.

The job is read from the database by --job. Pass --title and --requirements to
describe the job on the command line instead.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runScore(cmd.Context(), scoreOpts)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	f := scoreCmd.Flags()
	f.StringVarP(&scoreOpts.file, "file", "f", "", "CV file (pdf, docx, jpg, jpeg, png)")
	f.UintVar(&scoreOpts.jobID, "job", 1, "job id")
	f.BoolVar(&scoreOpts.demo, "demo", false, "score in demo mode without a file")
	f.StringVar(&scoreOpts.lang, "lang", "", "message language: en or vi (default DEFAULT_LOCALE)")
	f.StringVar(&scoreOpts.title, "title", "", "job title, skips the database")
	f.StringVar(&scoreOpts.company, "company", "", "company name")
	f.StringVar(&scoreOpts.requirements, "requirements", "", "job requirements")
	f.StringVar(&scoreOpts.description, "description", "", "job description")
	f.StringVar(&scoreOpts.experience, "experience", "", "required experience")
	f.StringVar(&scoreOpts.education, "education", "", "required education")
}

func runScore(ctx context.Context, opts scoreOptions) error {
	if opts.file == "" && !opts.demo {
		return fmt.Errorf("--file is required unless --demo is set")
	}

	cfg, zl, err := setup()
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer zl.Sync()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	catalog, err := jobCatalog(cfg, opts, zl)
	if err != nil {
		return err
	}

	components, err := app.Build(ctx, cfg, zl)
	if err != nil {
		return err
	}
	scoring := services.NewCVScoringService(catalog, components.Parser, components.Orchestrator, zl)

	loc := locale.Parse(opts.lang, locale.Parse(cfg.Server.DefaultLocale, locale.Vietnamese))
	renderer := render.NewTerminalRenderer(os.Stdout, loc)
	tracker := services.NewProgressTracker(services.ProgressFunc(renderer.Progress), loc, cfg.Scoring.ProgressInterval)
	defer tracker.StopClock()

	var (
		report   *models.ScoreReport
		analysis *models.AnalysisRecord
	)
	if opts.demo {
		report, err = scoring.ScoreDemo(ctx, opts.jobID, tracker)
	} else {
		var doc *models.RawDocument
		doc, err = openDocument(opts.file)
		if err != nil {
			return err
		}
		report, analysis, err = scoring.ScoreDocument(ctx, doc, opts.jobID, tracker)
	}
	if err != nil {
		renderer.Error(services.UserMessage(err, loc))
		return err
	}

	renderer.Report(report, analysis)
	return nil
}

// openDocument wraps a local file. It has no release hook so the user's file
// is never deleted.
func openDocument(path string) (*models.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CV file: %w", err)
	}
	return models.NewRawDocument(path, filepath.Base(path), "", info.Size(), nil), nil
}

func jobCatalog(cfg *config.Config, opts scoreOptions, zl *zap.Logger) (services.JobCatalog, error) {
	if opts.title != "" {
		return repositories.StaticJobCatalog{
			opts.jobID: {
				ID:              opts.jobID,
				Title:           opts.title,
				CompanyName:     opts.company,
				RequirementText: opts.requirements,
				Description:     opts.description,
				ExperienceLevel: opts.experience,
				EducationLevel:  opts.education,
			},
		}, nil
	}

	db, err := config.InitDatabase(cfg, zl)
	if err != nil {
		return nil, fmt.Errorf("job catalog unavailable (use --title to skip the database): %w", err)
	}
	return repositories.NewJobRepository(db), nil
}
