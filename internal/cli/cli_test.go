package cli

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/photomark/internal/config"
	"github.com/phambaophuc/photomark/internal/services/batch"
	"github.com/phambaophuc/photomark/internal/testutil"
	"github.com/spf13/cobra"
)

func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	if configPath == "" {
		configPath = filepath.Join(t.TempDir(), "config.yaml")
	}

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", configPath))

	err := cmd.Execute()
	return out.String(), err
}

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "photomark 1.2.3") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestVersion_UnknownLogLevel(t *testing.T) {
	t.Setenv("PHOTOMARK_LOG_LEVEL", "verbose")

	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("unknown log level should not abort: %v", err)
	}
	if !strings.HasPrefix(out, "photomark ") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestRootCommand(t *testing.T) {
	root := NewRootCmd()
	if root.Use != "photomark" {
		t.Errorf("expected Use 'photomark', got '%s'", root.Use)
	}

	for _, name := range []string{"date", "mark", "serve", "config", "version"} {
		sub, _, err := root.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("expected subcommand %s", name)
			continue
		}
		if sub.Short == "" {
			t.Errorf("expected Short description on %s", name)
		}
	}
}

func TestDateCommand_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "album")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	testutil.WriteJPEGWithCaptureDate(t, filepath.Join(dir, "dated.jpg"), 120, 80, "2024:01:01 09:00:00")
	testutil.WriteImage(t, filepath.Join(dir, "undated.png"), 60, 40, color.Black)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "", "date", "-i", dir, "--opacity", "999", "--color", "nope"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outDir := filepath.Join(dir, "album_watermark")
	img, err := imaging.Open(filepath.Join(outDir, "dated.jpg"))
	if err != nil {
		t.Fatalf("expected dated output: %v", err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 80 {
		t.Errorf("unexpected output size %v", img.Bounds())
	}
	if _, err := os.Stat(filepath.Join(outDir, "undated.png")); !os.IsNotExist(err) {
		t.Error("undated image should have been skipped")
	}
}

func TestDateCommand_CustomOutput(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
	}{
		{"new directory", ""},
		{"trailing separator", string(filepath.Separator)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := filepath.Join(dir, "photo.jpg")
			testutil.WriteJPEGWithCaptureDate(t, in, 50, 50, "2022:02:02 02:02:02")
			out := filepath.Join(dir, "stamped")

			if _, err := execute(t, "", "date", "-i", in, "--output", out+tt.suffix); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := os.Stat(filepath.Join(out, "photo.jpg")); err != nil {
				t.Errorf("expected output in custom dir: %v", err)
			}
		})
	}
}

func TestMarkCommand_TextSingleFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.jpg")
	testutil.WriteImage(t, in, 100, 60, color.White)
	out := filepath.Join(dir, "out.png")

	if _, err := execute(t, "", "mark", "-i", in, "-o", out, "--text", "hello", "--position", "center"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("expected output: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 60 {
		t.Errorf("unexpected output size %v", img.Bounds())
	}
}

func TestMarkCommand_ImageBatch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	if err := os.Mkdir(in, 0755); err != nil {
		t.Fatal(err)
	}
	testutil.WriteImage(t, filepath.Join(in, "a.png"), 200, 100, color.White)
	testutil.WriteImage(t, filepath.Join(in, "b.jpg"), 300, 200, color.White)
	logo := filepath.Join(dir, "logo.png")
	testutil.WriteImage(t, logo, 40, 20, color.Black)
	out := filepath.Join(dir, "out")

	if _, err := execute(t, "", "mark", "-i", in, "-o", out, "--watermark", logo, "--scale", "0.5", "--batch"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"a.png", "b.jpg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s in output: %v", name, err)
		}
	}
}

func TestMarkCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.png")
	testutil.WriteImage(t, file, 10, 10, color.White)
	out := filepath.Join(dir, "out.png")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"text and watermark", []string{"mark", "-i", file, "-o", out, "--text", "a", "--watermark", file}, nil},
		{"neither text nor watermark", []string{"mark", "-i", file, "-o", out}, nil},
		{"missing output", []string{"mark", "-i", file, "--text", "a"}, nil},
		{"empty text", []string{"mark", "-i", file, "-o", out, "--text", ""}, nil},
		{"unreadable watermark", []string{"mark", "-i", file, "-o", out, "--watermark", filepath.Join(dir, "none.png")}, nil},
		{"batch on a file", []string{"mark", "-i", file, "-o", dir, "--text", "a", "--batch"}, batch.ErrNotDirectory},
		{"missing input", []string{"mark", "-i", filepath.Join(dir, "nope"), "-o", out, "--text", "a"}, batch.ErrInputNotFound},
		{"date missing input", []string{"date", "-i", filepath.Join(dir, "nope")}, batch.ErrInputNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "photomark", "config.yaml")

	out, err := execute(t, cfgPath, "config", "path")
	if err != nil || strings.TrimSpace(out) != cfgPath {
		t.Fatalf("config path = %q, %v", out, err)
	}

	if _, err := execute(t, cfgPath, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := execute(t, cfgPath, "config", "init"); err == nil {
		t.Error("expected config init to refuse overwriting")
	}
	if _, err := execute(t, cfgPath, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force failed: %v", err)
	}

	if _, err := execute(t, cfgPath, "config", "set", "watermark.position", "top-left"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	loaded, err := config.NewLoaderWithPath(cfgPath).Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Watermark.Position != "top-left" {
		t.Errorf("expected saved position top-left, got %s", loaded.Watermark.Position)
	}

	out, err = execute(t, cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "position: top-left") || !strings.Contains(out, cfgPath) {
		t.Errorf("unexpected config show output:\n%s", out)
	}
}

func TestConfigCommands_BrokenConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("watermark: [unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, cfgPath, "version"); err == nil {
		t.Error("expected a parse error for commands that read the config")
	}

	out, err := execute(t, cfgPath, "config", "path")
	if err != nil || strings.TrimSpace(out) != cfgPath {
		t.Fatalf("config path = %q, %v", out, err)
	}

	if _, err := execute(t, cfgPath, "config", "init", "--force"); err != nil {
		t.Fatalf("config init --force failed: %v", err)
	}
	if _, err := config.NewLoaderWithPath(cfgPath).Load(); err != nil {
		t.Errorf("expected a valid config after init: %v", err)
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"watermark.font_size", "48", false},
		{"watermark.font_size", "0", true},
		{"watermark.opacity", "200", false},
		{"watermark.opacity", "256", true},
		{"watermark.color", "10,20,30", false},
		{"watermark.color", "10,20", true},
		{"watermark.position", "center", false},
		{"watermark.position", "middle", true},
		{"watermark.scale", "0.5", false},
		{"watermark.scale", "2", true},
		{"output.dir_suffix", "_stamped", false},
		{"output.jpeg_quality", "101", true},
		{"log.level", "DEBUG", false},
		{"log.level", "loud", true},
		{"nope", "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := setConfigValue(config.DefaultConfig(), tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("setConfigValue() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFlagOr(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var n int
	cmd.Flags().IntVar(&n, "opacity", 128, "")

	if got := flagOr(cmd, "opacity", n, 64); got != 64 {
		t.Errorf("unset flag should fall back, got %d", got)
	}

	if err := cmd.Flags().Set("opacity", "200"); err != nil {
		t.Fatal(err)
	}
	if got := flagOr(cmd, "opacity", n, 64); got != 200 {
		t.Errorf("set flag should win, got %d", got)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"short":            "****",
		"sk-1234567890abc": "sk-1****0abc",
	}
	for in, want := range tests {
		if got := maskSecret(in); got != want {
			t.Errorf("maskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}
