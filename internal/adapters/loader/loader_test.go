package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"censusbq/internal/adapters/bigquery"
	"censusbq/internal/platform/config"
	perr "censusbq/internal/platform/errors"
	"censusbq/internal/platform/testkit"
	"censusbq/internal/services/census/domain"

	"github.com/google/go-cmp/cmp"
)

var req = domain.LoadRequest{
	File:        "out/20140101",
	Schema:      "./schema/usage-schema.json",
	Credentials: "./gapipk.json",
	UploadType:  "census",
}

var target = Target{ProjectID: "jenkins-user-stats", DatasetID: "jenkinsstats", TableID: "jenkins_usage", CreateTable: true}

func TestExec_Args(t *testing.T) {
	t.Parallel()

	e := NewExec(nil, target)
	if diff := cmp.Diff(DefaultCommand, e.Command); diff != "" {
		t.Fatalf("default command (-want +got):\n%s", diff)
	}
	want := []string{
		"-projectId", "jenkins-user-stats",
		"-datasetId", "jenkinsstats",
		"-tableId", "jenkins_usage",
		"-bqFile", "out/20140101",
		"-schemaFile", "./schema/usage-schema.json",
		"-credentialFile", "./gapipk.json",
		"-uploadType", "census",
		"-createTable",
	}
	if diff := cmp.Diff(want, e.Args(req)); diff != "" {
		t.Fatalf("args (-want +got):\n%s", diff)
	}

	e.Target.CreateTable = false
	if got := e.Args(req); got[len(got)-1] == "-createTable" {
		t.Fatal("createTable flag must be omitted")
	}
}

func TestExec_Load(t *testing.T) {
	t.Parallel()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}

	argsFile := filepath.Join(t.TempDir(), "args")
	ok := NewExec([]string{"/bin/sh", "-c", `printf '%s\n' "$@" > "$0"`, argsFile}, target)
	ok.Stdout, ok.Stderr = &bytes.Buffer{}, &bytes.Buffer{}
	if err := ok.Load(context.Background(), req); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := strings.Fields(testkit.ReadFile(t, argsFile))
	if diff := cmp.Diff(ok.Args(req), got); diff != "" {
		t.Fatalf("argv seen by process (-want +got):\n%s", diff)
	}

	var stderr bytes.Buffer
	bad := NewExec([]string{"/bin/sh", "-c", "echo boom >&2; exit 3"}, target)
	bad.Stdout, bad.Stderr = &bytes.Buffer{}, &stderr
	err := bad.Load(context.Background(), req)
	if !perr.IsCode(err, perr.ErrorCodeExternalProcess) || ExitCode(err) != 3 {
		t.Fatalf("want external process error with code 3, got %v (code %d)", err, ExitCode(err))
	}
	testkit.MustContain(t, stderr.String(), "boom")

	missing := NewExec([]string{filepath.Join(t.TempDir(), "nope")}, target)
	err = missing.Load(context.Background(), req)
	if !perr.IsCode(err, perr.ErrorCodeExternalProcess) || ExitCode(err) != -1 {
		t.Fatalf("missing binary: %v", err)
	}
}

type fakeUploader struct {
	calls []string
	fail  string
}

func (f *fakeUploader) step(name string) error {
	f.calls = append(f.calls, name)
	if f.fail == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeUploader) CreateTable(context.Context) error        { return f.step("create") }
func (f *fakeUploader) Upload(_ context.Context, p string) error { return f.step("upload:" + p) }
func (f *fakeUploader) Close() error                             { return f.step("close") }

func TestBigQuery_Load(t *testing.T) {
	testkit.Serial(t)

	var seen bigquery.Config
	fake := &fakeUploader{}
	testkit.Swap(t, &openUploader, func(_ context.Context, cfg bigquery.Config) (uploader, error) {
		seen = cfg
		return fake, nil
	})

	b := NewBigQuery(target, bigquery.Config{Streaming: true})
	if err := b.Load(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"create", "upload:out/20140101", "close"}, fake.calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}
	if seen.SchemaFile != req.Schema || seen.CredentialFile != req.Credentials || !seen.Streaming || seen.TableID != "jenkins_usage" {
		t.Fatalf("config passed: %+v", seen)
	}

	fake.calls, fake.fail = nil, "create"
	if err := b.Load(context.Background(), req); err == nil {
		t.Fatal("create failure should surface")
	}
	if diff := cmp.Diff([]string{"create", "close"}, fake.calls); diff != "" {
		t.Fatalf("calls after create failure (-want +got):\n%s", diff)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("CORE_LOADER_KIND", "BigQuery")
	t.Setenv("CORE_LOADER_COMMAND", "java -jar ./target/uploader.jar")
	t.Setenv("CORE_LOADER_TABLE_ID", "t2")

	o := FromConfig(config.New())
	if o.Kind != KindBigQuery || o.Target.TableID != "t2" || o.Target.ProjectID != "jenkins-user-stats" || !o.Target.CreateTable {
		t.Fatalf("options %+v", o)
	}
	if diff := cmp.Diff([]string{"java", "-jar", "./target/uploader.jar"}, o.Command); diff != "" {
		t.Fatalf("command (-want +got):\n%s", diff)
	}
	if _, ok := New(o).(*BigQuery); !ok {
		t.Fatal("bigquery kind should build the in-process loader")
	}
	o.Kind = KindExec
	if _, ok := New(o).(*Exec); !ok {
		t.Fatal("exec kind should build the process loader")
	}
}
