package bigquery

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	perr "censusbq/internal/platform/errors"
	"censusbq/internal/platform/logger"

	bq "cloud.google.com/go/bigquery"
)

// Row is one streamed JSON record; InsertID deduplicates retried inserts
type Row struct {
	Values   map[string]bq.Value
	InsertID string
}

// Save implements bq.ValueSaver
func (r Row) Save() (map[string]bq.Value, string, error) { return r.Values, r.InsertID, nil }

// ParseRow decodes one JSON line; insertIDField names a top-level string field to use as
// the insert id
func ParseRow(line []byte, insertIDField string) (Row, error) {
	var m map[string]bq.Value
	if err := json.Unmarshal(line, &m); err != nil {
		return Row{}, perr.Wrap(err, perr.ErrorCodeJSON, "bigquery: row")
	}
	if m == nil {
		return Row{}, perr.JSONErrf("bigquery: row is not an object")
	}
	r := Row{Values: m}
	if insertIDField != "" {
		if id, ok := m[insertIDField].(string); ok {
			r.InsertID = id
		}
	}
	return r, nil
}

type putter interface {
	Put(ctx context.Context, src any) error
}

func (c *Client) stream(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "bigquery: open %s", path)
	}
	defer f.Close()

	ins := c.table().Inserter()
	ins.IgnoreUnknownValues = true
	ins.TableTemplateSuffix = c.cfg.TemplateSuffix

	n, bad, err := StreamRows(ctx, f, ins, c.cfg.InsertIDField)
	logger.C(ctx).Info().Int("rows", n).Int("rejected", bad).Str("table", c.cfg.TableID).Msg("streaming upload done")
	return err
}

// StreamRows puts every line of r as its own insert. Undecodable lines and rejected rows
// are logged and counted; only read and context errors stop the stream
func StreamRows(ctx context.Context, r io.Reader, ins putter, insertIDField string) (sent, rejected int, err error) {
	log := logger.C(ctx)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 32*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		row, decErr := ParseRow(line, insertIDField)
		if decErr != nil {
			log.Error().Err(decErr).Int("line", lineNo).Msg("skipping row")
			rejected++
			continue
		}
		if err := ins.Put(ctx, row); err != nil {
			var multi bq.PutMultiError
			if !errors.As(err, &multi) {
				if ctx.Err() != nil {
					return sent, rejected, ctx.Err()
				}
				log.Error().Err(err).Int("line", lineNo).Msg("insert failed")
				rejected++
				continue
			}
			for _, re := range multi {
				log.Error().Int("line", lineNo).Str("insert_id", re.InsertID).Msg(fmt.Sprint(re.Errors))
			}
			rejected++
			continue
		}
		sent++
	}
	if err := sc.Err(); err != nil {
		return sent, rejected, fmt.Errorf("bigquery: read rows: %w", err)
	}
	return sent, rejected, nil
}
