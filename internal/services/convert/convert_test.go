package convert

import (
	"context"
	"path/filepath"
	"testing"

	perr "censusbq/internal/platform/errors"
	"censusbq/internal/platform/testkit"
)

const (
	usageIn  = `{"install":"i1","jobs":{"hudson-model-FreeStyleProject":3},"timestamp":"01/Jan/2014:10:00:00 +0000"}`
	usageOut = `{"install":"i1","jobs":[{"type":"hudson_model_FreeStyleProject","count":3}],"timestamp":"2014-01-01T10:00:00Z"}`
)

func TestUsage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cases := []struct {
		name string
		src  string
	}{
		{"plain", testkit.WriteFile(t, dir, "usage.json", usageIn+"\n"+`{"install":"i2"}`+"\n")},
		{"gzip", testkit.WriteGzip(t, dir, "usage.json.gz", usageIn+"\n"+`{"install":"i2"}`)},
		{"bom", testkit.WriteFile(t, dir, "bom.json", "\ufeff"+usageIn+"\n"+`{"install":"i2"}`+"\n")},
	}
	want := usageOut + "\n" + `{"install":"i2","jobs":[]}` + "\n"
	for _, tc := range cases {
		dst := filepath.Join(dir, tc.name+".out")
		n, err := Usage(context.Background(), tc.src, dst)
		if err != nil || n != 2 {
			t.Fatalf("%s: n=%d err=%v", tc.name, n, err)
		}
		if got := testkit.ReadFile(t, dst); got != want {
			t.Fatalf("%s: got\n%s", tc.name, got)
		}
	}
}

func TestUsage_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cases := []struct {
		name string
		src  string
		code perr.ErrorCode
	}{
		{"malformed", testkit.WriteFile(t, dir, "bad.json", usageIn+"\n[1,2]\n"), perr.ErrorCodeJSON},
		{"timestamp", testkit.WriteFile(t, dir, "ts.json", `{"timestamp":"yesterday"}`), perr.ErrorCodeTimestampFormat},
		{"not gzip", testkit.WriteFile(t, dir, "fake.gz", "plain"), perr.ErrorCodeDecompression},
		{"missing", filepath.Join(dir, "absent.json"), perr.ErrorCodeNotFound},
	}
	for _, tc := range cases {
		dst := filepath.Join(dir, tc.name+".out")
		if _, err := Usage(context.Background(), tc.src, dst); !perr.IsCode(err, tc.code) {
			t.Fatalf("%s: want %s, got %v", tc.name, tc.code, err)
		}
		testkit.MustNotExist(t, dst)
		testkit.MustNotExist(t, dst+".part")
	}
}

func TestExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cases := []struct {
		name string
		doc  string
		n    int
		want string
	}{
		{"artifacts", `{"artifacts":{"a":{"name":"foo-bar","gav":"org.x:my-plugin:1.0"},"b":{"name":"baz"}}}`, 2,
			`{"name":"foo_bar","gav":"org.x:my_plugin:1.0"}` + "\n" + `{"name":"baz"}` + "\n"},
		{"none", `{"other":{"a":1}}`, 0, ""},
		{"bom", "\ufeff" + `{"artifacts":{"a":{"name":"x-y"}}}`, 1, `{"name":"x_y"}` + "\n"},
	}
	for _, tc := range cases {
		src := testkit.WriteFile(t, dir, tc.name+".json", tc.doc)
		dst := filepath.Join(dir, tc.name+".out")
		n, err := Extensions(context.Background(), src, dst)
		if err != nil || n != tc.n {
			t.Fatalf("%s: n=%d err=%v", tc.name, n, err)
		}
		if got := testkit.ReadFile(t, dst); got != tc.want {
			t.Fatalf("%s: got %q", tc.name, got)
		}
	}

	src := testkit.WriteFile(t, dir, "broken.json", `{"artifacts":`)
	dst := filepath.Join(dir, "broken.out")
	if _, err := Extensions(context.Background(), src, dst); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("broken document: %v", err)
	}
	testkit.MustNotExist(t, dst)
}
