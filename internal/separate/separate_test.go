package separate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func stubCommand(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string{name}, args...)
		}
		helperArgs := append([]string{"-test.run=TestHelperProcess", "--"}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], helperArgs...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("STEMGATE_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func argAfter(args []string, flag string) string {
	if i := slices.Index(args, flag); i >= 0 && i+1 < len(args) {
		return args[i+1]
	}
	return ""
}

func TestFFmpegToWAVArgs(t *testing.T) {
	var captured []string
	stubCommand(t, "ffmpeg", &captured)

	dir := t.TempDir()
	src := filepath.Join(dir, "song.mp3")
	dest := filepath.Join(dir, "song.wav")

	ff := NewFFmpeg(WithFFmpegBinary("/opt/ffmpeg"), WithSampleRate(44100))
	if err := ff.ToWAV(context.Background(), src, dest); err != nil {
		t.Fatalf("ToWAV returned error: %v", err)
	}

	if captured[0] != "/opt/ffmpeg" {
		t.Fatalf("binary = %q, want /opt/ffmpeg", captured[0])
	}
	if got := argAfter(captured, "-i"); got != src {
		t.Fatalf("-i = %q, want %q", got, src)
	}
	if got := argAfter(captured, "-acodec"); got != "pcm_s16le" {
		t.Fatalf("-acodec = %q, want pcm_s16le", got)
	}
	if got := argAfter(captured, "-ar"); got != "44100" {
		t.Fatalf("-ar = %q, want 44100", got)
	}
	if captured[len(captured)-1] != dest {
		t.Fatalf("last arg = %q, want destination", captured[len(captured)-1])
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("destination not written: %v", err)
	}
}

func TestFFmpegKeepsSampleRateByDefault(t *testing.T) {
	var captured []string
	stubCommand(t, "ffmpeg", &captured)

	dir := t.TempDir()
	if err := NewFFmpeg().ToWAV(context.Background(), filepath.Join(dir, "a.mp3"), filepath.Join(dir, "a.wav")); err != nil {
		t.Fatal(err)
	}
	if slices.Contains(captured, "-ar") {
		t.Fatalf("unexpected -ar in %v", captured)
	}
	if captured[0] != "ffmpeg" {
		t.Fatalf("binary = %q, want ffmpeg", captured[0])
	}
}

func TestFFmpegFailureIncludesOutput(t *testing.T) {
	stubCommand(t, "fail", nil)

	dir := t.TempDir()
	err := NewFFmpeg().ToWAV(context.Background(), filepath.Join(dir, "a.mp3"), filepath.Join(dir, "a.wav"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "tool exploded") {
		t.Fatalf("error %q does not carry tool output", err)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v does not wrap *exec.ExitError", err)
	}
}

func TestFFmpegRequiresPaths(t *testing.T) {
	ff := NewFFmpeg()
	if err := ff.ToWAV(context.Background(), "", "out.wav"); err == nil {
		t.Fatal("expected error for empty source")
	}
	if err := ff.ToWAV(context.Background(), "in.mp3", " "); err == nil {
		t.Fatal("expected error for empty destination")
	}
}

func TestNeedsConversion(t *testing.T) {
	for path, want := range map[string]bool{
		"a.wav":       false,
		"b.WAV":       false,
		"c.mp3":       true,
		"d.flac":      true,
		"noextension": true,
	} {
		if got := NeedsConversion(path); got != want {
			t.Errorf("NeedsConversion(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestCLISeparate(t *testing.T) {
	var captured []string
	stubCommand(t, "separate", &captured)

	dir := t.TempDir()
	input := filepath.Join(dir, "My Song.wav")
	outDir := filepath.Join(dir, "stems")

	paths, err := NewCLI().Separate(context.Background(), input, outDir)
	if err != nil {
		t.Fatalf("Separate returned error: %v", err)
	}

	want := []string{"spleeter", "separate", "-p", DefaultModel, "-o", outDir, input}
	if !slices.Equal(captured, want) {
		t.Fatalf("args = %v, want %v", captured, want)
	}
	if len(paths) != len(DefaultStems) {
		t.Fatalf("got %d stems, want %d", len(paths), len(DefaultStems))
	}
	for _, name := range DefaultStems {
		if want := filepath.Join(outDir, "My Song", name+".wav"); paths[name] != want {
			t.Fatalf("paths[%s] = %q, want %q", name, paths[name], want)
		}
	}
}

func TestCLICustomTemplate(t *testing.T) {
	var captured []string
	stubCommand(t, "separate", &captured)

	dir := t.TempDir()
	input := filepath.Join(dir, "track.wav")
	outDir := filepath.Join(dir, "out")

	cli := NewCLI(
		WithBinary("demucs"),
		WithArgs([]string{"-n", "{model}", "--out={output}", "-o", "{output}", "{input}"}),
		WithModel("htdemucs"),
		WithStems([]string{"vocals", "drums"}),
	)
	paths, err := cli.Separate(context.Background(), input, outDir)
	if err != nil {
		t.Fatal(err)
	}
	if captured[0] != "demucs" || argAfter(captured, "-n") != "htdemucs" {
		t.Fatalf("args = %v", captured)
	}
	if !slices.Contains(captured, "--out="+outDir) {
		t.Fatalf("placeholder inside argument not expanded: %v", captured)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v, want 2 stems", paths)
	}
}

func TestCLIMissingStem(t *testing.T) {
	stubCommand(t, "partial", nil)

	dir := t.TempDir()
	_, err := NewCLI().Separate(context.Background(), filepath.Join(dir, "a.wav"), filepath.Join(dir, "out"))
	if !errors.Is(err, ErrStemMissing) {
		t.Fatalf("err = %v, want ErrStemMissing", err)
	}
}

func TestCLIFailure(t *testing.T) {
	stubCommand(t, "fail", nil)

	dir := t.TempDir()
	_, err := NewCLI().Separate(context.Background(), filepath.Join(dir, "a.wav"), filepath.Join(dir, "out"))
	if err == nil || !strings.Contains(err.Error(), "tool exploded") {
		t.Fatalf("err = %v, want failure carrying tool output", err)
	}
}

func TestBaseName(t *testing.T) {
	for in, want := range map[string]string{
		"/a/b/song.mp3":   "song",
		"song.tar.wav":    "song.tar",
		"/x/noext":        "noext",
		"/x/.hidden.wav":  ".hidden",
		"relative/My.Wav": "My",
	} {
		if got := BaseName(in); got != want {
			t.Errorf("BaseName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheckBinaries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX system")
	}
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	results := CheckBinaries([]Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Optional", Command: "also-not-present", Optional: true},
		{Name: "Blank", Command: "  "},
	})
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected present binary to be available: %+v", results[0])
	}
	if results[1].Available || results[3].Detail != "command not configured" {
		t.Fatalf("unexpected statuses: %+v", results)
	}
	if got := Missing(results); !slices.Equal(got, []string{"Missing", "Blank"}) {
		t.Fatalf("Missing() = %v", got)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	if i := slices.Index(args, "--"); i >= 0 {
		args = args[i+1:]
	}

	switch os.Getenv("STEMGATE_HELPER_MODE") {
	case "ffmpeg":
		if err := os.WriteFile(args[len(args)-1], []byte("RIFF"), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	case "separate", "partial":
		outDir := argAfter(args, "-o")
		dir := filepath.Join(outDir, BaseName(args[len(args)-1]))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		stems := DefaultStems
		if os.Getenv("STEMGATE_HELPER_MODE") == "partial" {
			stems = stems[:1]
		}
		for _, name := range stems {
			if err := os.WriteFile(filepath.Join(dir, name+".wav"), []byte("RIFF"), 0o644); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
		}
	case "fail":
		fmt.Fprintln(os.Stderr, "tool exploded")
		os.Exit(1)
	}
	os.Exit(0)
}
