package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv writes a configuration rooted in a temp dir and copies the sample
// transcript into its input directory.
func testEnv(t *testing.T, extra string) (configPath, root string) {
	t.Helper()
	root = t.TempDir()

	cfg := fmt.Sprintf(`input_dir: %[1]s/input
output_dir: %[1]s/output
input_archive_dir: %[1]s/input_archive
output_archive_dir: %[1]s/output_archive
log_level: error
output_formats: [json, csv]
output_name_format: "{original}"
%[2]s`, filepath.ToSlash(root), extra)

	configPath = filepath.Join(root, "config.yaml")
	if err := os.WriteFile(configPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile("../testdata/sample_transcript.txt")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "input"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "input", "jane.txt"), data, 0644); err != nil {
		t.Fatal(err)
	}
	return configPath, root
}

// execute runs the CLI with fresh flag values and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	formats, outputDir, dryRun, toStdout, recursive = nil, "", false, false, false
	strict, views, schemaOutput = false, nil, ""
	cfgFile, verbose = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseCommand_Batch(t *testing.T) {
	configPath, root := testEnv(t, "")

	out, err := execute(t, "parse", "--config", configPath)
	if err != nil {
		t.Fatalf("parse failed: %v\n%s", err, out)
	}

	for _, name := range []string{"jane.json", "jane.csv", "jane_warnings.txt"} {
		if _, err := os.Stat(filepath.Join(root, "output", name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if !strings.Contains(out, "jane.txt: 2 terms, 4 courses, 2 warnings") {
		t.Errorf("summary line missing:\n%s", out)
	}
	if !strings.Contains(out, "With warnings:   1") {
		t.Errorf("totals missing:\n%s", out)
	}
}

func TestParseCommand_Stdout(t *testing.T) {
	configPath, root := testEnv(t, "")

	out, err := execute(t, "parse", "--config", configPath, "--stdout", filepath.Join(root, "input", "jane.txt"))
	if err != nil {
		t.Fatalf("parse --stdout failed: %v", err)
	}
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"student_id": "1234567"`) {
		t.Errorf("unexpected stdout:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "output", "jane.json")); !os.IsNotExist(err) {
		t.Error("--stdout wrote a file")
	}
}

func TestParseCommand_StdoutRejectsXLSX(t *testing.T) {
	configPath, root := testEnv(t, "")

	out, err := execute(t, "parse", "--config", configPath, "--stdout", "-f", "xlsx", filepath.Join(root, "input", "jane.txt"))
	if !errors.Is(err, errBinaryToStdout) {
		t.Errorf("err = %v, want errBinaryToStdout", err)
	}
	if out != "" {
		t.Errorf("binary data reached stdout: %d bytes", len(out))
	}
}

func TestParseCommand_StdoutRejectsConfiguredXLSX(t *testing.T) {
	configPath, root := testEnv(t, "")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	data = []byte(strings.Replace(string(data), "output_formats: [json, csv]", "output_formats: [xlsx, json]", 1))
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err = execute(t, "parse", "--config", configPath, "--stdout", filepath.Join(root, "input", "jane.txt"))
	if !errors.Is(err, errBinaryToStdout) {
		t.Errorf("err = %v, want errBinaryToStdout", err)
	}
}

func TestParseCommand_SameNamedInputs(t *testing.T) {
	configPath, root := testEnv(t, "")
	data, err := os.ReadFile(filepath.Join(root, "input", "jane.txt"))
	if err != nil {
		t.Fatal(err)
	}
	other := strings.Replace(string(data), "1234567", "7654321", 1)
	if err := os.MkdirAll(filepath.Join(root, "input", "transfer"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "input", "transfer", "jane.txt"), []byte(other), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "parse", "--config", configPath, "--recursive")
	if err != nil {
		t.Fatalf("parse failed: %v\n%s", err, out)
	}

	ids := map[string]bool{}
	for _, name := range []string{"jane.json", "jane_1.json"} {
		exported, err := os.ReadFile(filepath.Join(root, "output", name))
		if err != nil {
			t.Fatalf("%s not written: %v", name, err)
		}
		for _, id := range []string{"1234567", "7654321"} {
			if strings.Contains(string(exported), `"student_id": "`+id+`"`) {
				ids[id] = true
			}
		}
	}
	if len(ids) != 2 {
		t.Errorf("an export was overwritten, student ids found: %v", ids)
	}
}

func TestParseCommand_FailedFile(t *testing.T) {
	configPath, root := testEnv(t, "")
	bad := filepath.Join(root, "input", "notes.docx")
	if err := os.WriteFile(bad, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "parse", "--config", configPath, "--dry-run", bad)
	if !errors.Is(err, errFilesFailed) {
		t.Errorf("err = %v, want errFilesFailed", err)
	}
	if !strings.Contains(out, "✗ notes.docx") {
		t.Errorf("failure not reported:\n%s", out)
	}
}

func TestValidateCommand(t *testing.T) {
	configPath, root := testEnv(t, "")
	input := filepath.Join(root, "input", "jane.txt")

	out, err := execute(t, "validate", "--config", configPath, input)
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration OK") || !strings.Contains(out, "PHYS 201") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "output")); !os.IsNotExist(err) {
		t.Error("validate created the output directory")
	}

	_, err = execute(t, "validate", "--config", configPath, "--strict", input)
	if !errors.Is(err, errValidationFailed) {
		t.Errorf("strict err = %v, want errValidationFailed", err)
	}
}

func TestValidateCommand_BadConfig(t *testing.T) {
	configPath, _ := testEnv(t, "max_concurrency: -1\n")

	if _, err := execute(t, "validate", "--config", configPath); err == nil {
		t.Error("expected error for invalid configuration")
	}
}

func TestShowCommand(t *testing.T) {
	configPath, root := testEnv(t, "")

	out, err := execute(t, "show", "--config", configPath, "--view", "courses", filepath.Join(root, "input", "jane.txt"))
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "CHEM 101") || !strings.Contains(out, "World History & Culture") {
		t.Errorf("course table missing:\n%s", out)
	}
	for _, dir := range []string{"output", "input_archive", "output_archive"} {
		if _, err := os.Stat(filepath.Join(root, dir)); !os.IsNotExist(err) {
			t.Errorf("show created %s", dir)
		}
	}
}

func TestSchemaAndVersion(t *testing.T) {
	out, err := execute(t, "schema")
	if err != nil || !strings.Contains(out, "xs:schema") {
		t.Errorf("schema = %v\n%s", err, out)
	}

	out, err = execute(t, "version")
	if err != nil || !strings.Contains(out, "Transcript Parser") {
		t.Errorf("version = %v\n%s", err, out)
	}
}
