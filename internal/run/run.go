// Package run drives one backup or expiration pass over all
// persistent pf tables. Failures are isolated per table: a table that
// cannot be read, classified or written gets a diagnostic row and the
// run moves on to the next one.
package run

import (
	"fmt"
	"time"

	"github.com/op/go-logging"

	"pftabler/internal/backup"
	"pftabler/internal/enrich"
	"pftabler/internal/firewall"
	"pftabler/internal/policy"
	"pftabler/internal/report"
)

var log = logging.MustGetLogger("run")

type Options struct {
	Backend firewall.Backend
	Policy  *policy.Config
	Backup  backup.Writer

	// Enricher, when set, annotates expired addresses in the report.
	Enricher *enrich.Enricher

	// DryRun classifies and reports without deleting anything.
	DryRun bool

	// Native delegates aging to pfctl -T expire instead of
	// classifying and deleting entries individually.
	Native bool
}

// Backup snapshots every persistent table to its per-table file.
func Backup(opts Options, rep *report.Report) {
	tables, err := persistentTables(opts.Backend, rep)
	if err != nil {
		return
	}
	for _, t := range tables {
		entries, err := opts.Backend.Entries(t.Name)
		if err != nil {
			rep.AddError(t.Name, err)
			continue
		}
		path, err := opts.Backup.WriteTable(t.Name, entries)
		if err != nil {
			rep.AddError(t.Name, fmt.Errorf("could not backup: %w", err))
			continue
		}
		log.Infof("backed up %s (%d entries) to %s", t.Name, len(entries), path)
	}
}

// Expire ages out entries of every persistent table. The reference
// time is sampled once by the caller and applied to all tables, so a
// slow run does not skew later tables. A table whose threshold turns
// out to be invalid fails like any other per-table error: it gets a
// diagnostic and the remaining tables are still processed.
func Expire(opts Options, ref time.Time, rep *report.Report) {
	tables, err := persistentTables(opts.Backend, rep)
	if err != nil {
		return
	}
	for _, t := range tables {
		expireTable(opts, t.Name, ref, rep)
	}
}

func persistentTables(be firewall.Backend, rep *report.Report) ([]firewall.Table, error) {
	tables, err := be.Tables()
	if err != nil {
		rep.AddError("(all)", err)
		return nil, err
	}
	persist := tables[:0]
	for _, t := range tables {
		if t.Persist() {
			persist = append(persist, t)
		}
	}
	return persist, nil
}

func expireTable(opts Options, table string, ref time.Time, rep *report.Report) {
	threshold := opts.Policy.Threshold(table)
	row := report.Row{Table: table, Threshold: int64(threshold / time.Second)}

	if opts.Native {
		if opts.DryRun {
			rep.AddError(table, fmt.Errorf("dry-run is not supported with native expiry"))
			return
		}
		if threshold <= 0 {
			rep.AddError(table, fmt.Errorf("%w (got %s)", policy.ErrInvalidThreshold, threshold))
			return
		}
		n, err := opts.Backend.Expire(table, row.Threshold)
		if err != nil {
			rep.AddError(table, err)
			return
		}
		row.Expired = n
		rep.Rows = append(rep.Rows, row)
		return
	}

	entries, err := opts.Backend.Entries(table)
	if err != nil {
		rep.AddError(table, err)
		return
	}
	res, err := policy.Classify(entries, threshold, ref)
	if err != nil {
		rep.AddError(table, err)
		return
	}

	row.Rejected = len(res.Rejected)
	for _, e := range res.Rejected {
		row.Notes = append(row.Notes, fmt.Sprintf("skipped %s: unreadable last-seen time", e.Addr))
	}

	if len(res.Expired) > 0 && !opts.DryRun {
		addrs := make([]string, 0, len(res.Expired))
		for _, e := range res.Expired {
			addrs = append(addrs, e.Addr)
		}
		if _, err := opts.Backend.Delete(table, addrs); err != nil {
			rep.AddError(table, err)
			return
		}
	}

	row.Expired = len(res.Expired)
	row.Retained = len(res.Retained)
	if opts.Enricher != nil {
		for _, e := range res.Expired {
			if note := opts.Enricher.Lookup(e.Addr).String(); note != "" {
				row.Notes = append(row.Notes, e.Addr+": "+note)
			}
		}
	}
	log.Debugf("table %s: %d expired, %d retained, %d rejected (threshold %s)",
		table, row.Expired, row.Retained, row.Rejected, threshold)
	rep.Rows = append(rep.Rows, row)
}
