package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"doc-translator/internal/config"
	"doc-translator/internal/pipeline"
	"doc-translator/internal/translation"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var toFile string

	cmd := &cobra.Command{
		Use:   "doc-translator <input-file> <source-lang> <target-lang>",
		Short: "Translate Word and PowerPoint documents between languages",
		Long: `Translates .docx and .pptx files with an LLM while preserving the
document's structure and formatting. Text is batched into size-bounded
chunks and translated concurrently; chunks that fail to translate keep
their original text, so the output is always a complete document.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(args[0], args[1], args[2], toFile)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&toFile, "to-file", "", "output path (default: input path with the target language appended)")

	return cmd
}

// runTranslate handles one document translation run.
func runTranslate(inputPath, sourceLang, targetLang, outputPath string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, targetLang)
	}

	backend := translation.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.TranslationModel)
	translator := pipeline.NewTranslator(
		backend,
		cfg.ChunkTokenBudget,
		cfg.MaxConcurrentRequests,
		time.Duration(cfg.RequestTimeoutSeconds)*time.Second,
	)

	log.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Str("source", sourceLang).
		Str("target", targetLang).
		Str("model", cfg.TranslationModel).
		Msg("Starting document translation")

	stats, err := translator.TranslateFile(ctx, inputPath, outputPath, sourceLang, targetLang)
	if err != nil {
		// Translation work that finished before a write failure is
		// still worth reporting.
		if stats.Blocks > 0 && !errors.Is(err, context.Canceled) {
			log.Error().
				Err(err).
				Int("blocks", stats.Blocks).
				Int("chunks", stats.Chunks).
				Int("degraded_chunks", stats.DegradedChunks).
				Msg("Translation finished but the output could not be written")
		}
		return err
	}

	if stats.DegradedChunks > 0 {
		log.Warn().
			Int("degraded_chunks", stats.DegradedChunks).
			Int("chunks", stats.Chunks).
			Msg("Some chunks kept their original text")
	}

	log.Info().
		Int("blocks", stats.Blocks).
		Int("chunks", stats.Chunks).
		Int("degraded_chunks", stats.DegradedChunks).
		Str("output", outputPath).
		Msg("Document translation complete")

	return nil
}

// defaultOutputPath appends the target language to the file name:
// report.docx translated to en becomes report_en.docx.
func defaultOutputPath(inputPath, targetLang string) string {
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(inputPath, ext)
	return stem + "_" + targetLang + ext
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
