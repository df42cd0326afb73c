package bigquery

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	perr "censusbq/internal/platform/errors"
	"censusbq/internal/platform/logger"

	bq "cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client uploads files into one configured table
type Client struct {
	cfg Config
	bq  *bq.Client
}

// ClientOptions resolves credentials: the key file, else inline GOOGLE_JSON_KEY, else
// application default credentials (no options)
func ClientOptions(cfg Config) []option.ClientOption {
	if cfg.CredentialFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialFile)}
	}
	if key := os.Getenv("GOOGLE_JSON_KEY"); key != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(key))}
	}
	return nil
}

// New validates cfg and opens a BigQuery client
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := bq.NewClient(ctx, cfg.ProjectID, append(ClientOptions(cfg), opts...)...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "bigquery: failed to authenticate")
	}
	return &Client{cfg: cfg, bq: c}, nil
}

// Close releases the client
func (c *Client) Close() error { return c.bq.Close() }

func (c *Client) table() *bq.Table {
	return c.bq.Dataset(c.cfg.DatasetID).Table(c.cfg.TableID)
}

// CreateTable creates the configured table from the schema file; a table that already
// exists is logged and not an error
func (c *Client) CreateTable(ctx context.Context) error {
	schema, err := LoadSchema(c.cfg.SchemaFile)
	if err != nil {
		return err
	}
	err = c.table().Create(ctx, &bq.TableMetadata{Schema: schema})
	switch {
	case isStatus(err, http.StatusConflict):
		logger.C(ctx).Warn().Str("table", c.cfg.TableID).Msg("table already exists")
		return nil
	case err != nil:
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "bigquery: create table %s", c.cfg.TableID)
	}
	logger.C(ctx).Info().Str("table", c.cfg.TableID).Msg("table created")
	return nil
}

// Upload loads path into the table, as a load job or through streaming inserts
func (c *Client) Upload(ctx context.Context, path string) error {
	start := time.Now()
	log := logger.C(ctx).With().
		Str("table", c.cfg.TableID).
		Str("file", path).
		Str("upload_type", c.cfg.UploadType).
		Bool("streaming", c.cfg.Streaming).
		Logger()
	log.Info().Msg("uploading")

	var err error
	if c.cfg.Streaming {
		err = c.stream(ctx, path)
	} else {
		err = c.load(ctx, path)
	}
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("upload failed")
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("upload finished")
	return nil
}

func (c *Client) load(ctx context.Context, path string) error {
	t := c.table()
	md, err := t.Metadata(ctx)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "bigquery: table %s", c.cfg.TableID)
	}

	f, err := os.Open(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "bigquery: open %s", path)
	}
	defer f.Close()

	src := bq.NewReaderSource(f)
	src.SourceFormat = bq.JSON
	src.Encoding = bq.UTF_8
	src.IgnoreUnknownValues = true
	src.Schema = md.Schema

	ld := t.LoaderFrom(src)
	ld.CreateDisposition = bq.CreateIfNeeded
	ld.WriteDisposition = bq.TableWriteDisposition(c.cfg.WriteDisposition)

	job, err := ld.Run(ctx)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "bigquery: submit load job")
	}
	logger.C(ctx).Debug().Str("job", job.ID()).Msg("load job submitted")
	return Poll(ctx, job.Status, c.cfg.PollInterval)
}

// Poll calls status every interval until the job is done and returns the job's error
func Poll(ctx context.Context, status func(context.Context) (*bq.JobStatus, error), every time.Duration) error {
	for {
		st, err := status(ctx)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "bigquery: job status")
		}
		if st.Done() {
			if jerr := st.Err(); jerr != nil {
				for _, e := range st.Errors {
					logger.C(ctx).Error().Str("reason", e.Reason).Str("location", e.Location).Msg(e.Message)
				}
				return perr.Wrap(jerr, perr.ErrorCodeExternalProcess, "bigquery: load job failed")
			}
			return nil
		}
		logger.C(ctx).Debug().Str("state", stateName(st.State)).Dur("wait", every).Msg("job not done")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(every):
		}
	}
}

func stateName(s bq.State) string {
	switch s {
	case bq.Pending:
		return "PENDING"
	case bq.Running:
		return "RUNNING"
	case bq.Done:
		return "DONE"
	}
	return "UNSPECIFIED"
}

func isStatus(err error, code int) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}
