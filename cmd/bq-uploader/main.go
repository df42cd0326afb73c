// Command bq-uploader loads one newline-delimited JSON file into a BigQuery table,
// optionally creating the table from a schema file first
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"censusbq/internal/adapters/bigquery"
	"censusbq/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// uploader is the part of *bigquery.Client run drives
type uploader interface {
	CreateTable(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Close() error
}

var open = func(ctx context.Context, cfg bigquery.Config) (uploader, error) {
	return bigquery.New(ctx, cfg)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	var (
		cfg     bigquery.Config
		bqFile  string
		pollSec int
	)
	fs := flag.NewFlagSet("bq-uploader", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.ProjectID, "projectId", "", "BigQuery projectId (Required)")
	fs.StringVar(&cfg.DatasetID, "datasetId", "", "BigQuery datasetId (Required)")
	fs.StringVar(&cfg.TableID, "tableId", "", "BigQuery tableId (Required)")
	fs.StringVar(&bqFile, "bqFile", "", "BigQuery record file (JSON object separated by new line)")
	fs.StringVar(&cfg.CredentialFile, "credentialFile", "", "BigQuery JSON credential file")
	fs.StringVar(&cfg.SchemaFile, "schemaFile", "", "Create BigQuery table using provided schema (SCHEMA_JSON_FILE)")
	fs.StringVar(&cfg.TemplateSuffix, "templateSuffix", "", "Template suffix to be used with this upload (streaming upload only)")
	fs.StringVar(&cfg.InsertIDField, "insertIdField", "", "Top level JSON field to use for insertId (streaming upload only)")
	fs.BoolVar(&cfg.CreateTable, "createTable", false, "Create new table using the given -tableId and -schemaFile")
	fs.BoolVar(&cfg.Streaming, "streamingUpload", false, "Upload using streaming inserts instead of a load job")
	fs.IntVar(&pollSec, "pollingInterval", 1, "Submitted job polling interval (in seconds)")
	fs.StringVar(&cfg.WriteDisposition, "writeDisposition", bigquery.WriteAppend, "WRITE_APPEND, WRITE_EMPTY or WRITE_TRUNCATE")
	fs.StringVar(&cfg.UploadType, "uploadType", "census", "Kind of data being uploaded, recorded in the logs")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	cfg.PollInterval = time.Duration(pollSec) * time.Second

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err.Error())
		fs.Usage()
		return 1
	}
	if bqFile == "" && !cfg.CreateTable {
		fmt.Fprintln(stderr, "Nothing to do. must provide -bqFile option")
		fs.Usage()
		return 1
	}

	log := logger.Named("bq-uploader")
	start := time.Now()
	defer func() {
		took := time.Since(start)
		log.Info().
			Int64("elapsed_ms", took.Milliseconds()).
			Msg(fmt.Sprintf("Total time taken: %02d min, %02d sec", int(took.Minutes()), int(took.Seconds())%60))
	}()

	c, err := open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("could not open BigQuery client")
		return 1
	}
	defer c.Close()

	if cfg.CreateTable {
		if err := c.CreateTable(ctx); err != nil {
			log.Error().Err(err).Str("table", cfg.TableID).Msg("create table failed")
			return 1
		}
	}
	if bqFile != "" {
		if err := c.Upload(ctx, bqFile); err != nil {
			log.Error().Err(err).Str("file", bqFile).Msg("upload failed")
			return 1
		}
	}
	return 0
}
