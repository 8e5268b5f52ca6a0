package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteExpire(t *testing.T) {
	rep := &Report{
		Rows: []Row{
			{Table: "bad_ssh", Expired: 13, Retained: 357, Threshold: 864000},
			{Table: "persist", Expired: 2, Retained: 40, Threshold: 86400},
		},
	}
	var sb strings.Builder
	rep.WriteExpire(&sb)
	out := sb.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 8)

	assert.Equal(t, "==> pftabler statistics <==", lines[0])
	assert.Contains(t, out, "   # | Table   | Duration")
	assert.Contains(t, out, "  13 | bad_ssh |   864000")
	assert.Contains(t, out, "   2 | persist |    86400")
	assert.False(t, rep.Failed())
}

func TestWriteExpireColumnWidths(t *testing.T) {
	rep := &Report{
		Rows: []Row{
			{Table: "a_rather_long_table_name", Expired: 12345, Threshold: 1},
			{Table: "t", Expired: 1, Threshold: 864000},
		},
	}
	var sb strings.Builder
	rep.WriteExpire(&sb)

	// every data row is as wide as the header
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	var header string
	var rows []string
	for _, l := range lines {
		if strings.Contains(l, "| Table") {
			header = l
		} else if strings.Contains(l, " | ") {
			rows = append(rows, l)
		}
	}
	require.NotEmpty(t, header)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, len(header), len(r), "row %q", r)
	}
}

func TestWriteExpireNotes(t *testing.T) {
	rep := &Report{
		Rows: []Row{{
			Table:     "bad_ssh",
			Expired:   1,
			Threshold: 864000,
			Notes:     []string{"192.0.2.1: host.example.net, AS64500 Example, Germany"},
		}},
	}
	var sb strings.Builder
	rep.WriteExpire(&sb)
	assert.Contains(t, sb.String(), "      192.0.2.1: host.example.net")
}

func TestWriteExpireErrors(t *testing.T) {
	rep := &Report{Rows: []Row{{Table: "persist", Threshold: 86400}}}
	rep.AddError("bad_ssh", errors.New("pfctl exploded"))

	var sb strings.Builder
	rep.WriteExpire(&sb)

	assert.True(t, rep.Failed())
	assert.Contains(t, sb.String(), "ERROR: table bad_ssh: pfctl exploded")
	// the surviving table's row is still there
	assert.Contains(t, sb.String(), "persist")
}

func TestWriteBackup(t *testing.T) {
	rep := &Report{}
	var sb strings.Builder
	rep.WriteBackup(&sb)
	assert.Empty(t, sb.String(), "clean backup run prints nothing")

	rep.AddError("bad_ssh", errors.New("no such directory"))
	rep.WriteBackup(&sb)
	assert.Equal(t, "ERROR: table bad_ssh: no such directory\n", sb.String())
}
