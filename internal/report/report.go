// Package report builds the plain-text run summary that cron mails to
// the operator: a column-aligned statistics table for expirations,
// plus diagnostics for anything that failed.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Row struct {
	Table     string
	Expired   int
	Retained  int
	Rejected  int
	Threshold int64 // seconds
	Notes     []string
}

type Report struct {
	Rows   []Row
	Errors []string
}

func (r *Report) AddError(table string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("ERROR: table %s: %v", table, err))
}

// Failed reports whether any table in the run failed.
func (r *Report) Failed() bool { return len(r.Errors) > 0 }

// WriteExpire prints the expiration statistics: per table the number
// of addresses removed, right-justified against the widest count, the
// table name and the threshold in seconds.
func (r *Report) WriteExpire(w io.Writer) {
	if len(r.Rows) > 0 {
		fmt.Fprintln(w, "==> pftabler statistics <==")
		fmt.Fprintln(w, "The numbers are addresses removed from the active pf tables")
		fmt.Fprintln(w, "because they outlived their expiration. The allowed duration")
		fmt.Fprintln(w, "is listed in seconds.")
		fmt.Fprintln(w)

		const durStr = "Duration"
		width, ewidth, ipwidth := len("Table"), len(durStr), 1
		for _, row := range r.Rows {
			if len(row.Table) > width {
				width = len(row.Table)
			}
			if n := len(strconv.FormatInt(row.Threshold, 10)); n > ewidth {
				ewidth = n
			}
			if n := len(strconv.Itoa(row.Expired)); n > ipwidth {
				ipwidth = n
			}
		}

		header := fmt.Sprintf("  %*s | %-*s | %*s", ipwidth, "#", width, "Table", ewidth, durStr)
		fmt.Fprintln(w, header)
		fmt.Fprintln(w, strings.Repeat("-", len(header)+2))
		for _, row := range r.Rows {
			fmt.Fprintf(w, "  %*d | %-*s | %*d\n", ipwidth, row.Expired, width, row.Table, ewidth, row.Threshold)
			for _, note := range row.Notes {
				fmt.Fprintf(w, "      %s\n", note)
			}
		}
	}
	r.writeErrors(w, len(r.Rows) > 0)
}

// WriteBackup prints diagnostics only; a clean backup run stays silent
// so cron has nothing to mail.
func (r *Report) WriteBackup(w io.Writer) {
	r.writeErrors(w, false)
}

func (r *Report) writeErrors(w io.Writer, pad bool) {
	if len(r.Errors) == 0 {
		return
	}
	if pad {
		fmt.Fprintln(w)
	}
	for _, e := range r.Errors {
		fmt.Fprintln(w, e)
	}
}
