// Command kiameta extracts text from documents and videos in object storage,
// derives fixed-schema metadata and compiles it into a CSV or XLSX artifact.
// Usage: kiameta [s3-uri-or-video-url] [--batch] [--video] [--verbose]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"kiameta/internal/config"
	"kiameta/internal/csvexport"
	"kiameta/internal/docai"
	"kiameta/internal/domain"
	"kiameta/internal/extractor"
	"kiameta/internal/logging"
	"kiameta/internal/metadata"
	"kiameta/internal/metadata/gemini"
	"kiameta/internal/pipeline"
	"kiameta/internal/port"
	s3storage "kiameta/internal/storage/s3"
	"kiameta/internal/video"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	batch   bool
	video   bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "kiameta [source]",
		Short: "Generate fixed-schema metadata for documents and videos",
		Long: "kiameta ingests documents from object storage or videos from YouTube,\n" +
			"extracts their text, derives metadata and writes a CSV or XLSX artifact.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) > 0 {
				source = args[0]
			}
			return run(cmd.Context(), source, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.batch, "batch", false, "process every supported object under the configured input")
	cmd.Flags().BoolVar(&opts.video, "video", false, "treat the source argument as a YouTube URL")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	return cmd
}

func run(ctx context.Context, source string, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if source != "" && !opts.video {
		cfg.Input.Path = source
	}
	if opts.verbose {
		cfg.Log.Verbose = true
	}
	// Progress, failure and audit lines always log; verbose only adds the
	// detail lines (routing decisions, job prefixes, per-document stats).
	logging.SetVerbose(cfg.Log.Verbose)

	if opts.video {
		return runVideo(ctx, cfg, source)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	storage, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("creating storage client: %w", err)
	}

	driver := newDriver(cfg, storage)
	compiler := csvexport.NewCompiler(storage)

	if opts.batch {
		return runBatch(ctx, cfg, storage, driver, compiler)
	}
	return runSingle(ctx, cfg, storage, driver, compiler)
}

// newDriver wires the extraction router and the configured metadata
// extractor variant into a pipeline driver.
func newDriver(cfg *config.Config, storage port.ObjectStorage) *pipeline.Driver {
	processor := docai.NewClient(&cfg.DocAI)
	sync := extractor.NewSyncExtractor(processor)
	async := extractor.NewAsyncExtractor(processor, storage, extractor.AsyncConfig{
		OutputBucket: cfg.Output.Bucket,
		OutputPrefix: cfg.Output.Prefix,
		PollInterval: time.Duration(cfg.DocAI.PollIntervalSecs) * time.Second,
		PollTimeout:  time.Duration(cfg.DocAI.PollTimeoutSecs) * time.Second,
	})
	router := extractor.NewRouter(storage, cfg.DocAI.SyncMaxBytes, sync, async)

	return pipeline.NewDriver(router, newMetadataExtractor(cfg))
}

func newMetadataExtractor(cfg *config.Config) port.MetadataExtractor {
	if cfg.Metadata.Extractor == "gemini" {
		return metadata.NewAIExtractor(gemini.NewClient(&cfg.Gemini))
	}
	return metadata.NewRuleExtractor()
}

func runSingle(ctx context.Context, cfg *config.Config, storage port.ObjectStorage, driver *pipeline.Driver, compiler *csvexport.Compiler) error {
	sources, err := pipeline.ResolveSources(ctx, storage, &cfg.Input)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no supported sources found under the configured input")
	}
	loc := sources[0]

	record, err := driver.RunSingle(ctx, loc)
	if err != nil {
		return err
	}
	return compile(ctx, cfg, compiler,
		[]domain.DocumentMetadata{record},
		csvexport.BuildSingleFilename(loc.FileStem()))
}

func runBatch(ctx context.Context, cfg *config.Config, storage port.ObjectStorage, driver *pipeline.Driver, compiler *csvexport.Compiler) error {
	sources, err := pipeline.ResolveSources(ctx, storage, &cfg.Input)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no supported sources found under the configured input")
	}

	records, err := driver.RunBatch(ctx, sources)
	if err != nil {
		return err
	}
	return compile(ctx, cfg, compiler, records,
		csvexport.BuildBatchFilename(time.Now()))
}

func runVideo(ctx context.Context, cfg *config.Config, videoURL string) error {
	if videoURL == "" {
		return fmt.Errorf("%w: a video URL argument is required with --video", domain.ErrConfigInvalid)
	}
	if cfg.Video.APIKey == "" {
		return fmt.Errorf("%w: KIAMETA_VIDEO_API_KEY is required with --video", domain.ErrConfigInvalid)
	}
	if cfg.Output.Bucket == "" {
		return fmt.Errorf("%w: missing required environment variables: KIAMETA_OUTPUT_BUCKET", domain.ErrConfigInvalid)
	}

	storage, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("creating storage client: %w", err)
	}
	source, err := video.NewYouTubeSource(ctx, cfg.Video.APIKey)
	if err != nil {
		return err
	}
	processor := video.NewProcessor(source, newMetadataExtractor(cfg), storage)

	record, err := processor.Process(ctx, videoURL, cfg.Output.Bucket, cfg.Video.TranscriptSaveKey)
	if err != nil {
		return err
	}

	videoID, _ := video.ExtractVideoID(videoURL)
	return compile(ctx, cfg, csvexport.NewCompiler(storage),
		[]domain.DocumentMetadata{record},
		csvexport.BuildSingleFilename(videoID))
}

// compile writes the artifact and prints the distribution report to stdout.
func compile(ctx context.Context, cfg *config.Config, compiler *csvexport.Compiler, records []domain.DocumentMetadata, filename string) error {
	key := cfg.Output.Prefix + filename
	appendExisting := false
	if cfg.Output.AppendKey != "" {
		key = cfg.Output.AppendKey
		appendExisting = true
	}

	total, err := compiler.Compile(ctx, records, cfg.Output.Bucket, key, appendExisting)
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, csvexport.Report(csvexport.FromRecords(records), time.Now()))
	fmt.Printf("\nWrote %d rows to s3://%s/%s\n", total, cfg.Output.Bucket, key)
	return nil
}
