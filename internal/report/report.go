// Package report persists and renders estimation reports.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/indirect/internal/estimation"
)

const compressedExt = ".zst"

// Write stores r as JSON at path, zstd compressed when path ends in .zst.
func Write(path string, r *estimation.Report) error {
	if r == nil {
		return fmt.Errorf("report is nil")
	}

	data, err := sonic.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if compressed(path) {
		var buf bytes.Buffer
		w, err := zstd.NewWriter(&buf)
		if err != nil {
			return fmt.Errorf("zstd: failed to create writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			_ = w.Close()
			return fmt.Errorf("zstd: failed to compress report: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("zstd: failed to flush report: %w", err)
		}
		data = buf.Bytes()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info().Str("path", path).Int("bytes", len(data)).Str("run_id", r.RunID).Msg("report written")
	return nil
}

// Read loads a report written by Write.
func Read(path string) (*estimation.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	if compressed(path) {
		r, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd: failed to create reader: %w", err)
		}
		defer r.Close()

		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: failed to decompress report: %w", err)
		}
		data = out
	}

	var rep estimation.Report
	if err := sonic.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &rep, nil
}

func compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), compressedExt)
}
