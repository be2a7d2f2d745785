// Precompress creates the .gz/.br/.zst siblings the server negotiates
// against Accept-Encoding. Useful for the big immutable assets of a
// WebXR page (.wasm, .glb, textures) so the headset downloads less
// over the LAN. Originals are kept; outputs larger than the original
// are removed again.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/buildkite/shellwords"
)

type compressor struct {
	ext string
	cmd []string
}

var compressors = []compressor{
	{ext: ".gz", cmd: []string{"gzip", "-k9nf"}},
	{ext: ".br", cmd: []string{"brotli", "-k9nf"}},
	{ext: ".zst", cmd: []string{"zstd", "-k19f"}},
}

var compressedExts = map[string]bool{
	".gz": true, ".br": true, ".zst": true, ".deflate": true, ".Z": true,
}

func compressFile(dir, path string, info fs.FileInfo, dry bool) error {
	abs := filepath.Join(dir, path)
	for _, c := range compressors {
		out := abs + c.ext
		if st, err := os.Stat(out); err == nil && st.ModTime().After(info.ModTime()) {
			slog.Debug("up-to-date", "path", path, "ext", c.ext)
			continue
		}
		if dry {
			slog.Info("dry-run: would compress", "path", path, "cmd", c.cmd)
			continue
		}
		cmd := c.cmd[:]
		cmd = append(cmd, abs)
		if err := exec.Command(cmd[0], cmd[1:]...).Run(); err != nil {
			return fmt.Errorf("compress %s with %s: %w", path, cmd[0], err)
		}
		st, err := os.Stat(out)
		if err != nil {
			return fmt.Errorf("stat %s: %w", out, err)
		}
		if st.Size() >= info.Size() {
			slog.Info("compressed file is larger than original, removing", "path", path, "ext", c.ext, "original", info.Size(), "compressed", st.Size())
			if err := os.Remove(out); err != nil {
				return err
			}
		} else {
			slog.Info("compressed", "path", path, "ext", c.ext, "original", info.Size(), "compressed", st.Size())
		}
	}
	return nil
}

func cleanFile(dir, path string, dry bool) error {
	// the server negotiates more extensions than we can create;
	// clean them all
	for ext := range compressedExts {
		out := filepath.Join(dir, path+ext)
		if _, err := os.Stat(out); err != nil {
			continue
		}
		if dry {
			slog.Info("dry-run: would remove", "path", path+ext)
			continue
		}
		if err := os.Remove(out); err != nil {
			return err
		}
		slog.Info("removed", "path", path+ext)
	}
	return nil
}

func realMain() error {
	dir := flag.String("dir", ".", "directory to precompress")
	clean := flag.Bool("clean", false, "remove compressed siblings instead of creating them")
	dry := flag.Bool("dry-run", false, "dry run")
	minSize := flag.Int64("min-size", 128, "minimum file size to compress")
	maxSize := flag.Int64("max-size", 100*1024*1024, "maximum file size to compress")
	gzipCmd := flag.String("gzip-cmd", "", "gzip command override")
	brotliCmd := flag.String("brotli-cmd", "", "brotli command override")
	zstdCmd := flag.String("zstd-cmd", "", "zstd command override")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	flag.Parse()
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(level)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	for i, override := range []string{*gzipCmd, *brotliCmd, *zstdCmd} {
		if override == "" {
			continue
		}
		cmd, err := shellwords.Split(override)
		if err != nil {
			return fmt.Errorf("parse command %q: %w", override, err)
		}
		compressors[i].cmd = cmd
	}

	return fs.WalkDir(os.DirFS(*dir), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || compressedExts[filepath.Ext(d.Name())] {
			return nil
		}
		if *clean {
			return cleanFile(*dir, path, *dry)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() < *minSize || info.Size() > *maxSize {
			slog.Debug("skip, size out of range", "path", path, "size", info.Size())
			return nil
		}
		return compressFile(*dir, path, info, *dry)
	})
}

func main() {
	if err := realMain(); err != nil {
		slog.Error("precompress failed", "error", err)
		os.Exit(1)
	}
}
