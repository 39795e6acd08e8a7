package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

// fileSyncer adapts a lumberjack.Logger to zapcore.WriteSyncer.
type fileSyncer struct {
	mu sync.Mutex
	lj *lumberjack.Logger
}

func (w *fileSyncer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lj.Write(p)
}

// Sync is a no-op: lumberjack writes straight to the file without buffering.
func (w *fileSyncer) Sync() error {
	return nil
}

// Close closes the underlying file.
func (w *fileSyncer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lj.Close()
}

var (
	openFiles   []*fileSyncer
	openFilesMu sync.Mutex
)

// getFileSyncer creates a rotating file sink and tracks it for CloseAllWriters.
func getFileSyncer(config FileConfig) zapcore.WriteSyncer {
	_ = os.MkdirAll(config.Director, 0o755)

	w := &fileSyncer{lj: &lumberjack.Logger{
		Filename:   filepath.Join(config.Director, config.FileName),
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
		LocalTime:  true,
	}}

	openFilesMu.Lock()
	openFiles = append(openFiles, w)
	openFilesMu.Unlock()
	return w
}

// CloseAllWriters closes every log file opened by this package.
func CloseAllWriters() error {
	openFilesMu.Lock()
	defer openFilesMu.Unlock()

	var lastErr error
	for _, w := range openFiles {
		if err := w.Close(); err != nil {
			lastErr = err
		}
	}
	openFiles = nil
	return lastErr
}
