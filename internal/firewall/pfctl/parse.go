package pfctl

import (
	"bufio"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pftabler/internal/firewall"
)

// "Cleared" timestamps come out of pfctl in ctime form, e.g.
// "Thu Jun 19 15:58:52 2014" (single-digit days padded with a space).
const clearedLayout = time.ANSIC

// flags column of pfctl -vsTables, e.g. "c-a-r--" or "-pa-r--".
var reTableFlags = regexp.MustCompile(`^[a-zA-Z-]{6,8}$`)

var reCounter = regexp.MustCompile(`(\d+)/(\d+) addresses (deleted|expired)`)

// ParseTables reads pfctl -vsTables output. Lines look like:
//
//	c-a-r--	__automatic_9d4b1932_0
//	-pa-r--	bad_ssh
func ParseTables(out string) []firewall.Table {
	var tables []firewall.Table
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 || !reTableFlags.MatchString(fields[0]) {
			continue
		}
		tables = append(tables, firewall.Table{Flags: fields[0], Name: fields[1]})
	}
	return tables
}

// ParseEntries reads pfctl -t <table> -T show -vv output: an indented
// address line per entry, followed by detail lines of which only
// "Cleared:" matters here. An entry whose Cleared line is missing or
// unreadable keeps the zero time so the caller can reject and report
// it instead of guessing.
//
//	192.0.2.1
//	        Cleared:     Thu Jun 19 15:58:52 2014
//	        In/Block:    [ Packets: 0  Bytes: 0 ]
func ParseEntries(out string) []firewall.Entry {
	var entries []firewall.Entry
	cur := -1
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if isAddr(line) {
			entries = append(entries, firewall.Entry{Addr: line})
			cur = len(entries) - 1
			continue
		}
		if rest, ok := strings.CutPrefix(line, "Cleared:"); ok && cur >= 0 {
			if t, err := time.Parse(clearedLayout, strings.TrimSpace(rest)); err == nil {
				entries[cur].LastSeen = t
			}
		}
	}
	return entries
}

// isAddr reports whether line is a table member: a bare address or
// CIDR network, optionally negated with "!".
func isAddr(line string) bool {
	if strings.ContainsAny(line, " \t") {
		return false
	}
	s := strings.TrimPrefix(line, "!")
	if strings.Contains(s, "/") {
		_, _, err := net.ParseCIDR(s)
		return err == nil
	}
	return net.ParseIP(s) != nil
}

// parseCounter extracts N from pfctl's "N/M addresses deleted." (or
// "expired") diagnostic.
func parseCounter(out, verb string) (int, bool) {
	m := reCounter.FindStringSubmatch(out)
	if m == nil || m[3] != verb {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
