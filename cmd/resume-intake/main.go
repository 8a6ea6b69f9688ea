package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/resume-intake/constants"
	"github.com/joseph-ayodele/resume-intake/internal/common"
	"github.com/joseph-ayodele/resume-intake/internal/entity"
	"github.com/joseph-ayodele/resume-intake/internal/export"
	"github.com/joseph-ayodele/resume-intake/internal/extract"
	"github.com/joseph-ayodele/resume-intake/internal/extract/gemini"
	"github.com/joseph-ayodele/resume-intake/internal/ingest"
	"github.com/joseph-ayodele/resume-intake/internal/queue"
	"github.com/joseph-ayodele/resume-intake/internal/settings"
	"github.com/joseph-ayodele/resume-intake/internal/store"
	"github.com/joseph-ayodele/resume-intake/internal/upload"
)

func main() {
	var (
		dir      = flag.String("dir", "", "ingest every resume under this directory")
		watch    = flag.Bool("watch", false, "keep watching -dir for new files until interrupted")
		out      = flag.String("out", "", "CSV output path (default <label>_<date>.csv)")
		xlsxOut  = flag.String("xlsx", "", "also write an XLSX workbook to this path")
		setURL   = flag.String("set-url", "", "save the cloud upload endpoint URL and exit")
		clearURL = flag.Bool("clear-url", false, "remove the saved upload endpoint URL and exit")
		probe    = flag.Bool("test", false, "probe the configured upload endpoint and exit")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := settings.Open(cfg.Settings.DBPath, logger)
	if err != nil {
		logger.Error("open settings store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("close settings store", "error", err)
		}
	}()

	switch {
	case *setURL != "":
		if err := st.Set(ctx, settings.ScriptURLKey, *setURL); err != nil {
			logger.Error("save upload endpoint", "error", err)
			os.Exit(1)
		}
		fmt.Println("upload endpoint saved")
		return
	case *clearURL:
		if err := st.Delete(ctx, settings.ScriptURLKey); err != nil {
			logger.Error("clear upload endpoint", "error", err)
			os.Exit(1)
		}
		fmt.Println("upload endpoint cleared; running in local-only mode")
		return
	}

	scriptURL, err := st.ScriptURL(ctx)
	if err != nil {
		logger.Error("read upload endpoint", "error", err)
		os.Exit(1)
	}

	if *probe {
		if scriptURL == "" {
			fmt.Fprintln(os.Stderr, "no upload endpoint configured; use -set-url first")
			os.Exit(1)
		}
		client := upload.NewClient(scriptURL, cfg.Upload.Timeout, logger)
		if err := client.Probe(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "connection test failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("connection test ok")
		return
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	extractor, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		logger.Error("create extraction client", "error", err)
		os.Exit(1)
	}

	opts := []queue.Option{
		queue.WithLocalPreviewDelay(cfg.Queue.LocalPreviewDelay),
		queue.WithWarningFunc(func(fileName string, err error) {
			fmt.Fprintf(os.Stderr, "警告：檔案「%s」解析成功，但上傳雲端失敗：%v\n檔案連結將改用本機路徑。\n", fileName, err)
		}),
	}
	if scriptURL != "" {
		opts = append(opts, queue.WithUploader(upload.NewClient(scriptURL, cfg.Upload.Timeout, logger)))
	} else {
		logger.Info("no upload endpoint configured; file links will be local-only")
	}

	pipe := newPipeline(extractor, logger, opts)

	switch {
	case *watch && *dir != "":
		runWatch(ctx, *dir, pipe, logger)
	case *dir != "":
		records, _, err := ingest.FromDirectory(*dir, time.Now(), logger)
		if err != nil {
			logger.Error("ingest directory", "dir", *dir, "error", err)
			os.Exit(1)
		}
		pipe.proc.Enqueue(ctx, records)
	case flag.NArg() > 0:
		pipe.proc.Enqueue(ctx, ingest.FromPaths(flag.Args(), time.Now(), logger))
	default:
		fmt.Fprintln(os.Stderr, "nothing to do: pass resume files, or -dir (optionally with -watch)")
		flag.Usage()
		os.Exit(2)
	}

	pipe.proc.Wait()

	snapshot := pipe.store.Snapshot()
	for _, r := range snapshot {
		switch r.Status {
		case constants.StatusSuccess:
			fmt.Printf("✔ %s  %s  %s\n", r.FileName, r.Fields.Name, r.FileLink)
		case constants.StatusError:
			fmt.Printf("✘ %s  %s\n", r.FileName, r.ErrorMessage)
		}
	}

	succeeded := pipe.store.CountByStatus(constants.StatusSuccess)
	fmt.Printf("已處理 %d / %d 份履歷\n", succeeded, pipe.store.Len())

	exporter := export.NewService(logger)
	csvPath := *out
	if csvPath == "" {
		csvPath = export.CSVFileName(cfg.Export.Label)
	}
	if err := exporter.WriteCSVFile(csvPath, snapshot); err != nil {
		logger.Error("export csv", "error", err)
		os.Exit(1)
	}
	fmt.Printf("CSV written to %s\n", csvPath)

	if *xlsxOut != "" {
		if err := exporter.WriteXLSXFile(*xlsxOut, snapshot); err != nil {
			logger.Error("export xlsx", "error", err)
			os.Exit(1)
		}
		fmt.Printf("XLSX written to %s\n", *xlsxOut)
	}
}

type pipeline struct {
	store *store.RecordStore
	proc  *queue.Processor
}

func newPipeline(extractor extract.FieldExtractor, logger *slog.Logger, opts []queue.Option) *pipeline {
	st := store.NewRecordStore()
	return &pipeline{
		store: st,
		proc:  queue.NewProcessor(st, extractor, logger, opts...),
	}
}

// runWatch ingests files as they land in dir until the context is canceled.
// Records dropped while a batch is running join the active run.
func runWatch(ctx context.Context, dir string, p *pipeline, logger *slog.Logger) {
	evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
	}, logger)
	if err != nil {
		logger.Error("start watcher", "dir", dir, "error", err)
		os.Exit(1)
	}
	logger.Info("watching for resumes", "dir", dir)
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-evCh:
			if !ok {
				return
			}
			p.proc.Enqueue(ctx, []entity.ResumeRecord{ingest.NewRecord(path, time.Now())})
		case err, ok := <-errCh:
			if ok && err != nil {
				logger.Warn("watcher error", "error", err)
			}
		}
	}
}
