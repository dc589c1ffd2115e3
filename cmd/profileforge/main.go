package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"profileforge/internal/config"
	"profileforge/internal/document"
	"profileforge/internal/llm"
	"profileforge/internal/logging"
	"profileforge/internal/refine"
	"profileforge/internal/runner"
	"profileforge/internal/section"
)

var (
	rootCmd = &cobra.Command{
		Use:   "profileforge",
		Short: "AI-powered company profile generator",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML configuration file")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(sectionsCmd)
}

var (
	docsDir     string
	companyName string
	catalogPath string
	maxWorkers  int
	refineFlag  bool
	questions   int
	resumeFlag  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a company profile from a directory of PDF documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("workers") {
			cfg.Run.MaxWorkers = maxWorkers
		}
		if cmd.Flags().Changed("refine") {
			cfg.Run.RefinementIterations = 0
			if refineFlag {
				cfg.Run.RefinementIterations = 1
			}
		}
		if cmd.Flags().Changed("questions") {
			cfg.Run.QNumber = questions
		}
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("AI API key not configured (set PROFILEFORGE_API_KEY or ai.api_key)")
		}

		log, err := logging.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		defer log.Sync()

		ctx := context.Background()
		return generateProfile(ctx, cfg, log)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&docsDir, "docs", "d", "", "Directory containing the source PDF documents")
	generateCmd.Flags().StringVar(&companyName, "company", "", "Company name (derived from filenames when empty)")
	generateCmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML topic catalog (built-in catalog when empty)")
	generateCmd.Flags().IntVarP(&maxWorkers, "workers", "w", 2, "Number of sections processed in parallel")
	generateCmd.Flags().BoolVar(&refineFlag, "refine", false, "Run fact, insight and question refinement passes")
	generateCmd.Flags().IntVarP(&questions, "questions", "q", 5, "Follow-up questions per section during refinement")
	generateCmd.Flags().BoolVar(&resumeFlag, "resume", false, "Resume the latest run for this company")
	_ = generateCmd.MarkFlagRequired("docs")
}

func generateProfile(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	start := time.Now()

	docs, err := document.Load(docsDir, log)
	if err != nil {
		return err
	}
	company := companyName
	if company == "" {
		company = document.CompanyName(docs.Filenames)
	}

	topics := section.DefaultCatalog
	if catalogPath != "" {
		topics, err = section.LoadCatalog(catalogPath)
		if err != nil {
			return err
		}
	}

	runDir, meta, err := prepareRun(cfg, log, company, docs.Count(), len(topics))
	if err != nil {
		return err
	}
	log.Infow("starting profile run",
		"company", company, "documents", docs.Count(), "sections", len(topics),
		"workers", cfg.Run.MaxWorkers, "refine", cfg.Run.RefinementIterations > 0, "folder", runDir)

	client, err := llm.NewGeminiClient(ctx, cfg.AI.APIKey)
	if err != nil {
		return err
	}
	cache := llm.NewCache(cfg.Cache.Path, log)
	invoker := llm.NewInvoker(client, cache, log)

	baseModel := llm.ModelConfig{
		Name:            cfg.AI.Model,
		Temperature:     cfg.AI.Temperature,
		TopP:            cfg.AI.TopP,
		TopK:            cfg.AI.TopK,
		MaxOutputTokens: cfg.AI.MaxOutputTokens,
	}

	var stages []refine.Stage
	if cfg.Run.RefinementIterations > 0 {
		stages = []refine.Stage{
			refine.NewFactStage(invoker, baseModel),
			refine.NewInsightStage(invoker, baseModel),
			refine.NewQuestionStage(invoker, baseModel, cfg.Run.QNumber),
		}
	}

	pipeline := section.NewPipeline(invoker, section.NewStore(runDir), stages, log, section.Config{
		Model:        baseModel,
		ScoreResults: cfg.Run.ScoreResults,
	})
	controller := runner.NewController(pipeline, log, cfg.Run.MaxWorkers)

	results := controller.Run(ctx, topics, docs.Parts, meta)
	cache.Flush()

	profile := runner.Assemble(company, topics, results)
	outPath := filepath.Join(runDir, fmt.Sprintf("%s_Company_Profile.html", company))
	if err := os.WriteFile(outPath, []byte(profile), 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	log.Infow("profile run finished",
		"elapsed", logging.Elapsed(start), "sections", len(results), "output", outPath)
	fmt.Printf("Profile written to %s\n", outPath)
	return nil
}

func prepareRun(cfg *config.Config, log *logging.Logger, company string, docCount, sectionsTotal int) (string, *runner.MetadataFile, error) {
	if resumeFlag {
		if dir, ok := runner.FindLatestRun(cfg.Run.OutputDir, company); ok {
			meta, err := runner.OpenMetadataFile(dir, sectionsTotal)
			if err == nil {
				log.Infow("resuming previous run", "folder", dir)
				return dir, meta, nil
			}
			log.Warnw("could not reuse previous run, starting fresh", "folder", dir, "error", err)
		}
	}
	dir, err := runner.CreateRunFolder(cfg.Run.OutputDir, company)
	if err != nil {
		return "", nil, err
	}
	meta, err := runner.NewMetadataFile(dir, company, docCount, sectionsTotal)
	if err != nil {
		return "", nil, err
	}
	return dir, meta, nil
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the topic catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		topics := section.DefaultCatalog
		if catalogPath != "" {
			loaded, err := section.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			topics = loaded
		}
		for _, t := range topics {
			fmt.Printf("%2d. %s\n", t.ID, t.Title)
		}
		return nil
	},
}

func init() {
	sectionsCmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML topic catalog (built-in catalog when empty)")
}
