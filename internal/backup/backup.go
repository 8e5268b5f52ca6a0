// Package backup writes point-in-time snapshots of pf tables to disk,
// one file per table, for restore after a power loss or pf reset.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pftabler/internal/firewall"
)

type Writer struct {
	Dir string
}

// WriteTable writes the table's entries to <dir>/<table>.txt, one
// address per line, and returns the file path. The snapshot goes
// through a temp file and rename so an interrupted run never leaves a
// truncated file where the previous snapshot was.
func (w Writer) WriteTable(table string, entries []firewall.Entry) (string, error) {
	fi, err := os.Stat(w.Dir)
	if err != nil {
		return "", fmt.Errorf("backup directory %s: %w", w.Dir, err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("backup directory %s: not a directory", w.Dir)
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Addr)
		sb.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(w.Dir, "."+table+".*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	final := filepath.Join(w.Dir, table+".txt")
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return final, nil
}
