// Package main is the Wakeru CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/hyperjump/wakeru/internal/cli"
	"github.com/hyperjump/wakeru/internal/config"
	"github.com/hyperjump/wakeru/internal/export"
	"github.com/hyperjump/wakeru/internal/extract"
	"github.com/hyperjump/wakeru/internal/janitor"
	"github.com/hyperjump/wakeru/internal/models"
	"github.com/hyperjump/wakeru/internal/pipeline"
	"github.com/hyperjump/wakeru/internal/server"
	"github.com/hyperjump/wakeru/internal/store"
	"github.com/hyperjump/wakeru/internal/watcher"
	"github.com/hyperjump/wakeru/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/wakeru/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "wakeru server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "process":
		runProcess()
	case "show":
		runShow()
	case "list":
		runList()
	case "export":
		runExport()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("wakeru version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (directory changes, chunk boundaries, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewFileLogger(debugMode, utils.FileLogConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	pipe := components.Pipeline
	exts := cfg.Watch.Extensions
	procOpts := pipeline.Options{ChunkSize: cfg.Chunking.ChunkSize, Encoding: cfg.Chunking.Encoding}
	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directories,
		exts,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			if _, err := pipe.ProcessFile(context.Background(), path, exts, procOpts); err != nil {
				logger.Warn("watch process file failed", zap.String("path", path), zap.Error(err))
			}
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.ScanExisting()

	maxAge, err := cfg.Retention.MaxAgeDuration()
	if err != nil {
		logger.Fatal("Invalid retention config", zap.Error(err))
	}
	jan := janitor.New(components.Store, maxAge, cfg.Retention.Schedule, logger)
	if err := jan.Start(); err != nil {
		logger.Fatal("Failed to start janitor", zap.Error(err))
	}

	srv := server.NewServer(pipe, components.Store, cfg, logger, watchSvc, resolvedConfigPath)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	jan.Stop()
	watchCancel()
	watchSvc.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printProcessUsage prints process subcommand usage and chunking hints.
func printProcessUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: wakeru process [flags] <file-or-directory>\n\n")
	fmt.Fprintf(fs.Output(), "Splits the document into fixed-size token chunks and stores the result.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Re-processing identical bytes with identical options returns the stored
result instead of running again.
  • Use --chunk-size to override the configured window (tokens per chunk).
  • Use --server "" to process directly when the server is not running.
  • Directories are walked recursively in direct mode; only files matching
    the configured watch extensions are processed.

Examples:
  wakeru process paper.pdf
  wakeru process --chunk-size 4096 paper.pdf
  wakeru process --output json paper.pdf
  wakeru process --server "" ~/papers/inbox
`)
}

// argsReorder moves any flags (and their values) that appear after the
// positional argument to the front of the slice so that flag.Parse() sees
// them. Go's flag package stops at the first non-flag argument, so
// "wakeru process paper.pdf -chunk-size 4096" would otherwise leave
// -chunk-size unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// processOptions merges flag overrides over the configured chunking defaults.
// A zero chunk size or empty encoding means "use the config value".
func processOptions(cfg *config.Config, chunkSize int, encoding string) pipeline.Options {
	opts := pipeline.Options{ChunkSize: cfg.Chunking.ChunkSize, Encoding: cfg.Chunking.Encoding}
	if chunkSize != 0 {
		opts.ChunkSize = chunkSize
	}
	if encoding != "" {
		opts.Encoding = encoding
	}
	return opts
}

func runProcess() {
	processArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = process directly when server is not running)")
	chunkSize := fs.Int("chunk-size", 0, "tokens per chunk (0 = config default)")
	encoding := fs.String("encoding", "", "tokenizer encoding (empty = config default)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	fs.Usage = func() { printProcessUsage(fs) }
	_ = fs.Parse(processArgs)

	if fs.NArg() < 1 {
		printProcessUsage(fs)
		os.Exit(1)
	}
	path := fs.Arg(0)

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stat path: %v\n", err)
		os.Exit(1)
	}

	if *serverURL != "" {
		// Use HTTP API when server is running (avoids SQLite lock conflict).
		if info.IsDir() {
			fmt.Fprintln(os.Stderr, `Directory processing requires direct mode; pass --server ""`)
			os.Exit(1)
		}
		result, err := processViaHTTP(*serverURL, path, *chunkSize, *encoding)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Process failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteProcessResult(os.Stdout, result, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct storage access (when server is not running).
	components, cfg := directComponents(*configPath)
	defer components.Close()

	ctx := context.Background()
	opts := processOptions(cfg, *chunkSize, *encoding)
	if info.IsDir() {
		n, err := components.Pipeline.ProcessDirectory(ctx, path, cfg.Watch.Extensions, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Processing directory failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Processed %d file(s) from %s\n", n, path)
		return
	}
	// Single file: no extension filter
	result, err := components.Pipeline.ProcessFile(ctx, path, nil, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Process failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteProcessResult(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// chunkSummaryResponse mirrors the chunk summaries the HTTP API returns
// alongside a document. Preview carries only the head of the chunk text.
type chunkSummaryResponse struct {
	Index      int    `json:"index"`
	TokenCount int    `json:"token_count"`
	WordCount  int    `json:"word_count"`
	Preview    string `json:"preview"`
}

func summaryChunks(docID string, summaries []chunkSummaryResponse) []*models.Chunk {
	out := make([]*models.Chunk, 0, len(summaries))
	for _, c := range summaries {
		out = append(out, &models.Chunk{
			DocumentID: docID,
			ChunkIndex: c.Index,
			TokenCount: c.TokenCount,
			WordCount:  c.WordCount,
			Content:    c.Preview,
		})
	}
	return out
}

func processViaHTTP(serverURL, path string, chunkSize int, encoding string) (*pipeline.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if chunkSize != 0 {
		_ = mw.WriteField("chunk_size", strconv.Itoa(chunkSize))
	}
	if encoding != "" {
		_ = mw.WriteField("encoding", encoding)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/documents", mw.FormDataContentType(), &body)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var pr struct {
		Document *models.Document       `json:"document"`
		Chunks   []chunkSummaryResponse `json:"chunks"`
		Cached   bool                   `json:"cached"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if pr.Document == nil {
		return nil, fmt.Errorf("malformed response: missing document")
	}
	return &pipeline.Result{
		Document: pr.Document,
		Chunks:   summaryChunks(pr.Document.ID, pr.Chunks),
		Cached:   pr.Cached,
	}, nil
}

func runShow() {
	showArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(showArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: wakeru show [flags] <document-id> [chunk-index]")
		os.Exit(1)
	}
	id := fs.Arg(0)
	chunkIndex := -1
	if fs.NArg() > 1 {
		n, convErr := strconv.Atoi(fs.Arg(1))
		if convErr != nil || n < 0 {
			fmt.Fprintf(os.Stderr, "Chunk index must be a non-negative integer, got %q\n", fs.Arg(1))
			os.Exit(1)
		}
		chunkIndex = n
	}

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *serverURL != "" {
		if chunkIndex >= 0 {
			if err := chunkTextViaHTTP(os.Stdout, *serverURL, id, chunkIndex); err != nil {
				fmt.Fprintf(os.Stderr, "Show failed: %v\n", err)
				os.Exit(1)
			}
			return
		}
		doc, chunks, err := showViaHTTP(*serverURL, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Show failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteDocument(os.Stdout, doc, chunks, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	components, _ := directComponents(*configPath)
	defer components.Close()

	ctx := context.Background()
	if chunkIndex >= 0 {
		ch, chErr := components.Store.GetChunk(ctx, id, chunkIndex)
		if chErr != nil {
			if errors.Is(chErr, store.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "Chunk not found: %s/%d\n", id, chunkIndex)
			} else {
				fmt.Fprintf(os.Stderr, "Show failed: %v\n", chErr)
			}
			os.Exit(1)
		}
		fmt.Print(ch.Content)
		return
	}
	doc, err := components.Store.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Document not found: %s\n", id)
		} else {
			fmt.Fprintf(os.Stderr, "Show failed: %v\n", err)
		}
		os.Exit(1)
	}
	chunks, err := components.Store.GetChunks(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Show failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteDocument(os.Stdout, doc, chunks, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// chunkTextViaHTTP streams one chunk's raw text so the output can be piped
// into a clipboard tool.
func chunkTextViaHTTP(w io.Writer, serverURL, id string, index int) error {
	resp, err := http.Get(serverURL + "/api/v1/documents/" + url.PathEscape(id) + "/chunks/" + strconv.Itoa(index) + "/text")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func showViaHTTP(serverURL, id string) (*models.Document, []*models.Chunk, error) {
	resp, err := http.Get(serverURL + "/api/v1/documents/" + url.PathEscape(id))
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Document *models.Document       `json:"document"`
		Chunks   []chunkSummaryResponse `json:"chunks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Document == nil {
		return nil, nil, fmt.Errorf("malformed response: missing document")
	}
	return out.Document, summaryChunks(id, out.Chunks), nil
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	limit := fs.Int("limit", 50, "number of documents")
	offset := fs.Int("offset", 0, "number of documents to skip")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	var docs []*models.Document
	if *serverURL != "" {
		docs, err = listViaHTTP(*serverURL, *offset, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, _ := directComponents(*configPath)
		defer components.Close()
		docs, err = components.Store.ListDocuments(context.Background(), *offset, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cli.WriteDocumentList(os.Stdout, docs, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func listViaHTTP(serverURL string, offset, limit int) ([]*models.Document, error) {
	resp, err := http.Get(fmt.Sprintf("%s/api/v1/documents?offset=%d&limit=%d", serverURL, offset, limit))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Documents []*models.Document `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Documents, nil
}

func runExport() {
	exportArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outPath := fs.String("out", "", `output file path ("-" = stdout; default: all_chunks_<name>.txt)`)
	_ = fs.Parse(exportArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: wakeru export [flags] <document-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	var body []byte
	var name string
	if *serverURL != "" {
		var err error
		body, name, err = exportViaHTTP(*serverURL, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, _ := directComponents(*configPath)
		defer components.Close()
		ctx := context.Background()
		doc, err := components.Store.GetDocument(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "Document not found: %s\n", id)
			} else {
				fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			}
			os.Exit(1)
		}
		chunks, err := components.Store.GetChunks(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		body = []byte(export.Render(chunks))
		name = export.Filename(doc.Filename)
	}

	if *outPath == "-" {
		_, _ = os.Stdout.Write(body)
		return
	}
	target := *outPath
	if target == "" {
		target = name
	}
	if target == "" {
		target = "all_chunks_document.txt"
	}
	if err := os.WriteFile(target, body, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %s to %s\n", id, target)
}

func exportViaHTTP(serverURL, id string) ([]byte, string, error) {
	resp, err := http.Get(serverURL + "/api/v1/documents/" + url.PathEscape(id) + "/export")
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	name := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return body, name, nil
}

func runDelete() {
	deleteArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	_ = fs.Parse(deleteArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: wakeru delete [flags] <document-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	if *serverURL != "" {
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/documents/"+url.PathEscape(id), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Delete failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Document deleted: %s\n", id)
		return
	}

	components, _ := directComponents(*configPath)
	defer components.Close()

	ctx := context.Background()
	if _, err := components.Store.GetDocument(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Document not found: %s\n", id)
		} else {
			fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
		}
		os.Exit(1)
	}
	if err := components.Store.DeleteDocument(ctx, id); err != nil {
		fmt.Fprintf(os.Stderr, "Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document deleted: %s\n", id)
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	ChunkSize    int    `json:"chunk_size,omitempty"`
	Encoding     string `json:"encoding,omitempty"`
	MaxUploadMB  int    `json:"max_upload_mb,omitempty"`
	DatabasePath string `json:"database_path,omitempty"`
}

// statusResponse is the shape of GET /api/v1/status response. The counter
// fields only exist when a server answered; direct mode leaves them nil.
type statusResponse struct {
	Documents         int64                 `json:"documents"`
	Chunks            int64                 `json:"chunks"`
	TotalTokens       int64                 `json:"total_tokens"`
	Processed         *int64                `json:"processed,omitempty"`
	Failed            *int64                `json:"failed,omitempty"`
	UptimeSeconds     *int64                `json:"uptime_seconds,omitempty"`
	DatabaseSizeBytes *int64                `json:"database_size_bytes,omitempty"`
	Config            *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		components, cfg := directComponents(*configPath)
		defer components.Close()
		ctx := context.Background()
		docCount, err := components.Store.CountDocuments(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
			os.Exit(1)
		}
		chunkCount, err := components.Store.CountChunks(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
			os.Exit(1)
		}
		tokenSum, err := components.Store.SumTokens(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Sum tokens failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Documents:   docCount,
			Chunks:      chunkCount,
			TotalTokens: tokenSum,
			Config: &statusConfigResponse{
				ChunkSize:    cfg.Chunking.ChunkSize,
				Encoding:     cfg.Chunking.Encoding,
				MaxUploadMB:  cfg.Server.MaxUploadMB,
				DatabasePath: cfg.Storage.DatabasePath,
			},
		}
		if n, err := components.Store.DatabaseSizeBytes(); err == nil {
			status.DatabaseSizeBytes = &n
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:            %d   # stored documents\n", status.Documents)
		fmt.Printf("chunks:               %d   # stored chunks\n", status.Chunks)
		fmt.Printf("total_tokens:         %d   # tokens across all documents\n", status.TotalTokens)
		if status.Processed != nil {
			fmt.Printf("processed:            %d   # uploads accepted since server start\n", *status.Processed)
		}
		if status.Failed != nil {
			fmt.Printf("failed:               %d   # uploads rejected since server start\n", *status.Failed)
		}
		if status.UptimeSeconds != nil {
			fmt.Printf("uptime_seconds:       %d\n", *status.UptimeSeconds)
		}
		if status.DatabaseSizeBytes != nil {
			fmt.Printf("database_size_bytes:  %d   # SQLite file size on disk\n", *status.DatabaseSizeBytes)
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			if status.Config.ChunkSize > 0 {
				fmt.Printf("chunk_size:           %d\n", status.Config.ChunkSize)
			}
			if status.Config.Encoding != "" {
				fmt.Printf("encoding:             %s\n", status.Config.Encoding)
			}
			if status.Config.MaxUploadMB > 0 {
				fmt.Printf("max_upload_mb:        %d\n", status.Config.MaxUploadMB)
			}
			if status.Config.DatabasePath != "" {
				fmt.Printf("database_path:        %s\n", status.Config.DatabasePath)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: wakeru watch <add|remove|list> [path]")
		fmt.Println("  wakeru watch add <path>     Add directory to watch")
		fmt.Println("  wakeru watch remove <path>  Remove directory from watch")
		fmt.Println("  wakeru watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: wakeru watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: wakeru watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Store    *store.SQLiteStore
	Pipeline *pipeline.Pipeline
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	st, err := store.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	pipeOpts := []pipeline.Option{}
	if debug && logger != nil {
		pipeOpts = append(pipeOpts, pipeline.WithLogger(logger))
	}
	pipe := pipeline.New(st, extract.NewExtractor(), pipeOpts...)
	return &Components{Store: st, Pipeline: pipe}, nil
}

// directComponents loads config and opens storage for commands that run
// without a server. Exits the process on failure.
func directComponents(configPath string) (*Components, *config.Config) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, cfg
}

func printUsage() {
	fmt.Println(`wakeru - Token chunker for documents too large to paste anywhere

Usage:
  wakeru server [flags]                 Start the HTTP server
  wakeru process [flags] <file-or-dir>  Split a document into token chunks
  wakeru show [flags] <id> [chunk]      Show a document, or print one chunk's raw text
  wakeru list [flags]                   List stored documents
  wakeru export [flags] <id>            Write all chunks of a document to one file
  wakeru delete [flags] <id>            Delete a stored document
  wakeru status [flags]                 Show storage/server status
  wakeru watch <add|remove|list>        Manage watched directories
  wakeru version                        Show version
  wakeru help                           Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/wakeru/config.yaml)
  --debug            Enable debug logging (directory changes, chunk boundaries, etc.)

Process Flags:
  --config string      Config file path (for direct mode; also supplies chunking defaults)
  --server string      Server URL (default: http://localhost:8080). Use empty (--server "") to process directly when the server is not running.
  --chunk-size int     Tokens per chunk (0 = config default, normally 8192)
  --encoding string    Tokenizer encoding (empty = config default, normally cl100k_base)
  --output string      Output format: text, compact, or json (default: text)

Show/List Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text, compact, or json (default: text)
  --limit int        List only: number of documents (default: 50)
  --offset int       List only: number of documents to skip

Export Flags:
  --out string       Output file path ("-" = stdout; default: all_chunks_<name>.txt)

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Watch Flags:
  --server string    Server URL (default: http://localhost:8080)

Examples:
  wakeru server
  wakeru process paper.pdf
  wakeru process --chunk-size 4096 paper.pdf
  wakeru process --output json paper.pdf   # structured JSON for other apps
  wakeru show doc_ab12cd34ef56ab12
  wakeru export doc_ab12cd34ef56ab12
  wakeru export --out - doc_ab12cd34ef56ab12 | pbcopy
  wakeru delete doc_ab12cd34ef56ab12
  wakeru status --output json
  wakeru watch add /path/to/papers
  wakeru watch list`)
}
