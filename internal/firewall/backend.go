package firewall

import "time"

// Entry is one member of a pf table: an address or network plus the
// time pf last cleared its stats, which is the table's notion of last
// activity. A zero LastSeen marks an entry whose timestamp could not
// be read from pfctl output.
type Entry struct {
	Addr     string
	LastSeen time.Time
}

// Valid reports whether the entry carries a usable last-seen timestamp.
func (e Entry) Valid() bool { return !e.LastSeen.IsZero() }

// Table is one pf table as listed by pfctl, with its raw flags column.
type Table struct {
	Name  string
	Flags string
}

// Persist reports whether the table was created with the persist flag.
// pfctl prints it as the second character of the flags column
// ("-pa-r-- bad_ssh").
func (t Table) Persist() bool { return len(t.Flags) > 1 && t.Flags[1] == 'p' }

type Backend interface {
	Tables() ([]Table, error)
	Entries(table string) ([]Entry, error)
	Delete(table string, addrs []string) (int, error)
	Expire(table string, seconds int64) (int, error)
}
