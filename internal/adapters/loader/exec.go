// Package loader provides the census pipeline's loaders: the external uploader process
// and an in-process BigQuery upload
package loader

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	perr "censusbq/internal/platform/errors"
	"censusbq/internal/platform/logger"
	"censusbq/internal/services/census/domain"
)

// DefaultCommand is the external uploader when none is configured
var DefaultCommand = []string{"bq-uploader"}

// Target is the warehouse table a loader writes to
type Target struct {
	ProjectID   string
	DatasetID   string
	TableID     string
	CreateTable bool
}

// Exec runs the external uploader once per file and waits for it
type Exec struct {
	// Command is the argv prefix, e.g. java -jar ./bigquery-uploader.jar
	Command []string
	Target  Target
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewExec builds an Exec loader; an empty command means DefaultCommand
func NewExec(command []string, t Target) *Exec {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &Exec{Command: command, Target: t, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Args renders the uploader flags for req
func (e *Exec) Args(req domain.LoadRequest) []string {
	args := []string{
		"-projectId", e.Target.ProjectID,
		"-datasetId", e.Target.DatasetID,
		"-tableId", e.Target.TableID,
		"-bqFile", req.File,
		"-schemaFile", req.Schema,
		"-credentialFile", req.Credentials,
		"-uploadType", req.UploadType,
	}
	if e.Target.CreateTable {
		args = append(args, "-createTable")
	}
	return args
}

// Load implements domain.Loader. A non-zero exit is an ExternalProcess error carrying
// the exit code (see ExitCode)
func (e *Exec) Load(ctx context.Context, req domain.LoadRequest) error {
	argv := append(append([]string{}, e.Command[1:]...), e.Args(req)...)
	cmd := exec.CommandContext(ctx, e.Command[0], argv...)
	cmd.Stdout, cmd.Stderr = e.Stdout, e.Stderr

	start := time.Now()
	logger.C(ctx).Debug().Str("cmd", e.Command[0]).Str("args", strings.Join(argv, " ")).Msg("invoking loader")
	err := cmd.Run()
	if err == nil {
		logger.C(ctx).Info().Str("file", req.File).Dur("elapsed", time.Since(start)).Msg("loader finished")
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return perr.Wrapf(err, perr.ErrorCodeExternalProcess, "loader: %s exited with status %d", e.Command[0], exitErr.ExitCode())
	}
	return perr.Wrapf(err, perr.ErrorCodeExternalProcess, "loader: run %s", e.Command[0])
}

// ExitCode returns the loader's exit status from a Load error, or -1 when the process
// never ran or did not exit normally
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

var _ domain.Loader = (*Exec)(nil)
