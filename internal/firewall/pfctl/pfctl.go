// Package pfctl is the exec-based firewall backend: every operation
// shells out to pfctl(8) and parses its tabular output.
package pfctl

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/op/go-logging"

	"pftabler/internal/firewall"
)

var log = logging.MustGetLogger("pfctl")

var debugEnv = os.Getenv("PFTABLER_DEBUG") == "1"

const DefaultPath = "/sbin/pfctl"

type Backend struct {
	path string
}

func New(path string) *Backend {
	if path == "" {
		path = DefaultPath
	}
	return &Backend{path: path}
}

// run executes pfctl with args and returns its combined output. pfctl
// writes its result counters ("2/2 addresses deleted.") to stderr even
// on success, so stderr must be captured alongside stdout.
func (b *Backend) run(args ...string) (string, error) {
	if debugEnv {
		log.Debugf("exec: %s %s", b.path, strings.Join(args, " "))
	}
	out, err := exec.Command(b.path, args...).CombinedOutput()
	if debugEnv && len(out) > 0 {
		log.Debugf("out: %s", strings.TrimSpace(string(out)))
	}
	if err != nil {
		return string(out), fmt.Errorf("pfctl %s: %v: %s",
			strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// Tables lists every table pf has defined, with its flags column.
func (b *Backend) Tables() ([]firewall.Table, error) {
	out, err := b.run("-vsTables")
	if err != nil {
		return nil, err
	}
	return ParseTables(out), nil
}

// Entries returns the table's members with their last-activity times.
func (b *Backend) Entries(table string) ([]firewall.Entry, error) {
	out, err := b.run("-t", table, "-T", "show", "-vv")
	if err != nil {
		return nil, err
	}
	return ParseEntries(out), nil
}

// deleteBatch caps how many addresses go onto one pfctl command line,
// keeping a very large table clear of the kernel's argv limit.
const deleteBatch = 1024

// Delete removes addrs from the table and returns how many addresses
// pfctl reports as deleted.
func (b *Backend) Delete(table string, addrs []string) (int, error) {
	total := 0
	for _, batch := range batches(addrs, deleteBatch) {
		args := append([]string{"-t", table, "-T", "delete"}, batch...)
		out, err := b.run(args...)
		if err != nil {
			return total, err
		}
		n, ok := parseCounter(out, "deleted")
		if !ok {
			// pfctl succeeded but printed no counter line; trust the request.
			n = len(batch)
		}
		total += n
	}
	return total, nil
}

// batches splits addrs into slices of at most size entries.
func batches(addrs []string, size int) [][]string {
	var out [][]string
	for len(addrs) > size {
		out = append(out, addrs[:size])
		addrs = addrs[size:]
	}
	if len(addrs) > 0 {
		out = append(out, addrs)
	}
	return out
}

// Expire invokes pfctl's built-in aging ("-T expire") for entries older
// than the given number of seconds and returns the reported count.
func (b *Backend) Expire(table string, seconds int64) (int, error) {
	out, err := b.run("-t", table, "-T", "expire", strconv.FormatInt(seconds, 10))
	if err != nil {
		return 0, err
	}
	n, _ := parseCounter(out, "expired")
	return n, nil
}
