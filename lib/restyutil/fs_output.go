package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput dumps each http message to <dir>/<message id>.txt.
// The directory is wiped on construction so a run's dumps always start
// clean.
type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) FilesystemOutput {
	os.RemoveAll(dir)
	if err := os.MkdirAll(dir, 0777); err != nil {
		panic(err)
	}
	return FilesystemOutput{directory: dir}
}

func (o FilesystemOutput) Write(id string, contents string) {
	path := filepath.Join(o.directory, id+".txt")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		slog.Warn("failed to write http dump", "path", path, "err", err)
	}
}
