// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/tvsync/rlaxx-sync/internal/epg"
	xglog "github.com/tvsync/rlaxx-sync/internal/log"
	"github.com/tvsync/rlaxx-sync/internal/playlist"
)

// FileWriter replaces the file at path with whatever write produces.
type FileWriter interface {
	WriteAtomic(ctx context.Context, path string, write func(io.Writer) error) error
}

// atomicFileWriter writes through renameio: temp file, fsync, rename. A
// failed write leaves the previous file untouched.
type atomicFileWriter struct{}

func (atomicFileWriter) WriteAtomic(ctx context.Context, path string, write func(io.Writer) error) error {
	logger := xglog.FromContext(ctx)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		// no-op once committed
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str(xglog.FieldPath, path).Msg("cleanup pending file")
		}
	}()

	if err := write(pendingFile); err != nil {
		return err
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}

func writeM3U(ctx context.Context, fw FileWriter, path string, items []playlist.Item, xTvgURL string) error {
	return fw.WriteAtomic(ctx, path, func(w io.Writer) error {
		if err := playlist.WriteM3U(w, items, xTvgURL); err != nil {
			return fmt.Errorf("write M3U data: %w", err)
		}
		return nil
	})
}

func writeXMLTV(ctx context.Context, fw FileWriter, path string, tv epg.TV) error {
	return fw.WriteAtomic(ctx, path, func(w io.Writer) error {
		if err := epg.WriteXMLTV(w, tv); err != nil {
			return fmt.Errorf("write XMLTV data: %w", err)
		}
		return nil
	})
}
