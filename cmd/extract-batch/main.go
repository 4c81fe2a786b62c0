package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/freightdocs/invoice-extractor/constants"
	"github.com/freightdocs/invoice-extractor/internal/common"
	"github.com/freightdocs/invoice-extractor/internal/document"
	"github.com/freightdocs/invoice-extractor/internal/entity"
	"github.com/freightdocs/invoice-extractor/internal/export"
	"github.com/freightdocs/invoice-extractor/internal/llm/gemini"
	"github.com/freightdocs/invoice-extractor/internal/pipeline"
)

// batchConfig mirrors the optional YAML config file; flags override it.
type batchConfig struct {
	Dir        string        `yaml:"dir"`
	Out        string        `yaml:"out"`
	Model      string        `yaml:"model"`
	Pause      time.Duration `yaml:"pause"`
	PromptFile string        `yaml:"prompt_file"`
}

func main() {
	var (
		cfgPath    = flag.String("config", "", "optional YAML config file")
		dir        = flag.String("dir", "", "directory of PDF invoices to process")
		out        = flag.String("out", "", "output XLSX path (default: <dir parent>/extraction_results.xlsx)")
		model      = flag.String("model", "", "Gemini model override")
		pause      = flag.Duration("pause", time.Second, "pause between upstream calls")
		promptFile = flag.String("prompt-file", "", "file holding a custom instruction template")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := batchConfig{Pause: time.Second}
	if *cfgPath != "" {
		data, err := os.ReadFile(*cfgPath)
		if err != nil {
			logger.Error("read config", "path", *cfgPath, "error", err)
			os.Exit(1)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logger.Error("parse config", "path", *cfgPath, "error", err)
			os.Exit(1)
		}
	}
	if *dir != "" {
		cfg.Dir = *dir
	}
	if *out != "" {
		cfg.Out = *out
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *pause != time.Second || cfg.Pause <= 0 {
		cfg.Pause = *pause
	}
	if *promptFile != "" {
		cfg.PromptFile = *promptFile
	}
	if cfg.Dir == "" {
		logger.Error("a directory is required (flag -dir or config 'dir')")
		os.Exit(1)
	}
	if cfg.Out == "" {
		cfg.Out = filepath.Join(filepath.Dir(cfg.Dir), "extraction_results.xlsx")
	}

	promptTemplate := ""
	if cfg.PromptFile != "" {
		data, err := os.ReadFile(cfg.PromptFile)
		if err != nil {
			logger.Error("read prompt file", "path", cfg.PromptFile, "error", err)
			os.Exit(1)
		}
		promptTemplate = string(data)
	}

	appCfg := common.LoadConfig()
	loader := document.NewLoader(appCfg.Upload.MaxBytes, logger)
	extractor := gemini.NewClient(gemini.Config{
		APIKey:      appCfg.LLM.APIKey,
		BaseURL:     appCfg.LLM.BaseURL,
		Model:       firstNonEmpty(cfg.Model, appCfg.LLM.Model),
		Temperature: appCfg.LLM.Temperature,
		Timeout:     appCfg.LLM.Timeout,
	}, logger)
	processor := pipeline.NewProcessor(loader, extractor, appCfg.LLM.Timeout, logger)
	writer := export.NewWriter(logger)

	ctx := context.Background()

	// Resume: rows already in the output workbook are kept, and their source
	// files are skipped on this run.
	var rows []entity.ExportRow
	processed := map[string]struct{}{}
	if f, err := os.Open(cfg.Out); err == nil {
		existing, rerr := export.ReadRows(f)
		_ = f.Close()
		if rerr != nil {
			logger.Error("could not read existing output, starting fresh", "path", cfg.Out, "error", rerr)
		} else {
			rows = existing
			for _, r := range existing {
				processed[r.FileName] = struct{}{}
			}
			logger.Info("resuming", "path", cfg.Out, "existing_rows", len(existing), "processed_files", len(processed))
		}
	}

	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		logger.Error("read dir", "dir", cfg.Dir, "error", err)
		os.Exit(1)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := constants.AllowedExtensions[constants.NormalizeExt(filepath.Ext(e.Name()))]; ok {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	logger.Info("batch start", "dir", cfg.Dir, "files", len(files), "already_processed", len(processed))

	var ok, failed, skipped int
	for _, name := range files {
		if _, done := processed[name]; done {
			skipped++
			continue
		}

		f, err := os.Open(filepath.Join(cfg.Dir, name))
		if err != nil {
			logger.Error("open file", "file", name, "error", err)
			failed++
			continue
		}
		outcome, err := processor.Run(ctx, pipeline.RunInput{
			Upload:         f,
			Filename:       name,
			DeclaredType:   constants.MediaTypePDF,
			PromptTemplate: promptTemplate,
		})
		_ = f.Close()
		if err != nil {
			// Per-file failures don't stop the batch, but a rejected key
			// would fail every remaining file the same way.
			logger.Error("extract failed", "file", name, "error", err)
			failed++
			if common.IsKind(err, common.KindInvalidCredential) {
				break
			}
			continue
		}

		rows = append(rows, outcome.Rows...)
		ok++

		// Incremental save so an interrupted run loses at most one file.
		data, werr := writer.WriteRows(rows)
		if werr != nil {
			logger.Error("write workbook", "path", cfg.Out, "error", werr)
			os.Exit(1)
		}
		if werr := os.WriteFile(cfg.Out, data, 0o644); werr != nil {
			logger.Error("save workbook", "path", cfg.Out, "error", werr)
			os.Exit(1)
		}
		logger.Info("file done", "file", name, "rows", len(outcome.Rows), "total_rows", len(rows))

		time.Sleep(cfg.Pause) // respect upstream rate limits
	}

	logger.Info("batch done", "ok", ok, "failed", failed, "skipped", skipped, "out", cfg.Out)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
