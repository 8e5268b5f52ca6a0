package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
pfctl: /usr/local/sbin/pfctl
directory: /var/db/pf
expiration: 43200
overrides:
  bad_ssh: 864000
  bad_udp_vpn: 432000
enrich:
  enabled: true
`

func TestLoad(t *testing.T) {
	cfg, err := Load(strings.NewReader(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/sbin/pfctl", cfg.Pfctl)
	assert.Equal(t, "/var/db/pf", cfg.Directory)
	assert.Equal(t, int64(43200), cfg.Expiration)
	assert.Equal(t, int64(864000), cfg.Overrides["bad_ssh"])
	assert.Equal(t, int64(432000), cfg.Overrides["bad_udp_vpn"])
	assert.True(t, cfg.Enrich.Enabled)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, DefaultPfctl, cfg.Pfctl)
	assert.Equal(t, DefaultDirectory, cfg.Directory)
	assert.Equal(t, int64(DefaultExpiration), cfg.Expiration)
	assert.Empty(t, cfg.Overrides)
	assert.False(t, cfg.Enrich.Enabled)
}

func TestLoadInvalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"zero expiration", "expiration: 0"},
		{"negative expiration", "expiration: -5"},
		{"zero override", "overrides:\n  bad_ssh: 0"},
		{"negative override", "overrides:\n  bad_ssh: -1"},
		{"not yaml", "{{{"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(c.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestPolicy(t *testing.T) {
	cfg, err := Load(strings.NewReader(fullConfig))
	require.NoError(t, err)

	p := cfg.Policy()
	assert.Equal(t, 43200*time.Second, p.Default)
	assert.Equal(t, 864000*time.Second, p.Overrides["bad_ssh"])
	assert.Equal(t, 432000*time.Second, p.Overrides["bad_udp_vpn"])
	require.NoError(t, p.Validate())

	// a table without an override falls through to the default
	assert.Equal(t, 43200*time.Second, p.Threshold("persist"))
}
