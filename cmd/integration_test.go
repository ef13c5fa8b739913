package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/tidyhar/internal/har"
	"github.com/KaramelBytes/tidyhar/internal/hartest"
)

// execCmd is a helper to execute the root command with args.
func execCmd(t *testing.T, args ...string) error {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	for _, c := range []*cobra.Command{runCmd, reportCmd} {
		c.Flags().VisitAll(func(fl *pflag.Flag) {
			if sv, ok := fl.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = fl.Value.Set(fl.DefValue)
			}
			fl.Changed = false
		})
	}
	cfg = nil
	loadConfig()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestCLI_RunWritesTables(t *testing.T) {
	isolateHome(t)
	data := hartest.Write(t, hartest.Small())
	out := filepath.Join(t.TempDir(), "out")

	if err := execCmd(t, "run", "--data-dir", data, "--out-dir", out, "--quiet", "summary.txt"); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"merged_data.txt", "melted_data.txt", "summary.txt"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestCLI_RunNoMeltedWithManifest(t *testing.T) {
	isolateHome(t)
	data := hartest.Write(t, hartest.Small())
	out := t.TempDir()

	err := execCmd(t, "run", "-d", data, "-o", out, "--quiet", "--no-melted", "--parallel", "--manifest", "run.yaml")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "melted_data.txt")); !os.IsNotExist(err) {
		t.Fatalf("melted table should not be written, stat err = %v", err)
	}
	b, err := os.ReadFile(filepath.Join(out, "run.yaml"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if !strings.Contains(string(b), "tidy_rows: 3") {
		t.Fatalf("manifest missing tidy_rows:\n%s", b)
	}
}

func TestCLI_RunMissingLabelsFails(t *testing.T) {
	isolateHome(t)
	ds := hartest.Small()
	ds.Activities = nil
	data := hartest.Write(t, ds)
	out := t.TempDir()

	err := execCmd(t, "run", "-d", data, "-o", out, "--quiet")
	if got := har.Kind(err); got != "MissingFileError" {
		t.Fatalf("kind = %q (err %v), want MissingFileError", got, err)
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 0 {
		t.Fatalf("expected no outputs, found %d", len(entries))
	}
}

func TestCLI_RequireFlag(t *testing.T) {
	isolateHome(t)
	data := hartest.Write(t, hartest.Small())

	err := execCmd(t, "run", "-d", data, "-o", t.TempDir(), "--quiet", "--require", "WALKING:9")
	if got := har.Kind(err); got != "EmptyGroupError" {
		t.Fatalf("kind = %q (err %v), want EmptyGroupError", got, err)
	}
	if err := execCmd(t, "run", "-d", data, "-o", t.TempDir(), "--quiet", "--require", "bogus"); err == nil {
		t.Fatalf("expected error for malformed --require")
	}
}

func TestCLI_ConfigDrivesRunAndReport(t *testing.T) {
	home := isolateHome(t)
	data := hartest.Write(t, hartest.Small())
	out := filepath.Join(home, "results")

	if err := execCmd(t, "config", "set", "data_dir", data); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if err := execCmd(t, "config", "set", "out_dir", out); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if err := execCmd(t, "config", "set", "parallel_load", "yes"); err == nil {
		t.Fatalf("expected invalid bool error")
	}
	if err := execCmd(t, "run", "--quiet"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "tidy.txt")); err != nil {
		t.Fatalf("tidy.txt not written to configured out_dir: %v", err)
	}

	reportPath := filepath.Join(home, "report.md")
	if err := execCmd(t, "report", "-o", reportPath, "--group-by", "ActivityName"); err != nil {
		t.Fatalf("report: %v", err)
	}
	b, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	for _, s := range []string{"File: tidy.txt", "Rows: 3", "tBodyAccMeanX: numeric", "ActivityName=WALKING (n=2)"} {
		if !strings.Contains(md, s) {
			t.Fatalf("report missing %q:\n%s", s, md)
		}
	}
}
