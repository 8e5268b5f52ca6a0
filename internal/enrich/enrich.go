// Package enrich annotates report addresses with reverse DNS and,
// when GeoLite2 databases are available, ASN and country. Lookups go
// through a TTL'd in-memory cache; a failed lookup just yields an
// empty annotation, never an error.
package enrich

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
	"github.com/oschwald/geoip2-golang"
)

const (
	cacheTTL   = 3600 * time.Second
	dnsTimeout = 2 * time.Second
)

type Result struct {
	PTR     string
	ASN     uint
	ASNName string
	Country string
	ts      time.Time
}

// String renders the annotation for a report line, or "" when the
// lookup produced nothing.
func (r Result) String() string {
	var parts []string
	if r.PTR != "" {
		parts = append(parts, r.PTR)
	}
	if r.ASN != 0 {
		parts = append(parts, fmt.Sprintf("AS%d %s", r.ASN, r.ASNName))
	}
	if r.Country != "" {
		parts = append(parts, r.Country)
	}
	return strings.Join(parts, ", ")
}

type Enricher struct {
	mu     sync.RWMutex
	cache  map[string]Result
	client *dns.Client
	server string
	asnDB  *geoip2.Reader
	cityDB *geoip2.Reader
}

// New builds an Enricher that resolves PTR records against the system
// resolver and opens GeoLite2-ASN.mmdb / GeoLite2-City.mmdb from the
// first of dirs that has them. Missing databases are not an error;
// they just leave those fields empty.
func New(dirs ...string) *Enricher {
	e := &Enricher{
		cache:  make(map[string]Result),
		client: &dns.Client{Timeout: dnsTimeout},
	}

	cfg, _ := dns.ClientConfigFromFile("/etc/resolv.conf")
	if cfg == nil || len(cfg.Servers) == 0 {
		cfg = &dns.ClientConfig{Servers: []string{"127.0.0.1"}, Port: "53"}
	}
	e.server = net.JoinHostPort(cfg.Servers[0], cfg.Port)

	for _, d := range dirs {
		if e.asnDB == nil {
			p := filepath.Join(d, "GeoLite2-ASN.mmdb")
			if _, err := os.Stat(p); err == nil {
				if db, err := geoip2.Open(p); err == nil {
					e.asnDB = db
				}
			}
		}
		if e.cityDB == nil {
			p := filepath.Join(d, "GeoLite2-City.mmdb")
			if _, err := os.Stat(p); err == nil {
				if db, err := geoip2.Open(p); err == nil {
					e.cityDB = db
				}
			}
		}
	}
	return e
}

func (e *Enricher) Close() {
	if e.asnDB != nil {
		_ = e.asnDB.Close()
	}
	if e.cityDB != nil {
		_ = e.cityDB.Close()
	}
}

// Lookup resolves addr, which may be a bare IP, a negated entry or a
// CIDR network; networks are looked up by their base address.
func (e *Enricher) Lookup(addr string) Result {
	now := time.Now()

	e.mu.RLock()
	if r, ok := e.cache[addr]; ok && now.Sub(r.ts) < cacheTTL {
		e.mu.RUnlock()
		return r
	}
	e.mu.RUnlock()

	r := Result{ts: now}
	ipStr := strings.TrimPrefix(addr, "!")
	if i := strings.IndexByte(ipStr, '/'); i != -1 {
		ipStr = ipStr[:i]
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return r
	}

	r.PTR = e.ptr(ipStr)

	if e.asnDB != nil {
		if rec, err := e.asnDB.ASN(ip); err == nil && rec != nil {
			r.ASN = rec.AutonomousSystemNumber
			r.ASNName = rec.AutonomousSystemOrganization
		}
	}
	if e.cityDB != nil {
		if rec, err := e.cityDB.City(ip); err == nil && rec != nil {
			if name, ok := rec.Country.Names["en"]; ok && name != "" {
				r.Country = name
			} else {
				r.Country = rec.Country.IsoCode
			}
		}
	}

	e.mu.Lock()
	e.cache[addr] = r
	e.mu.Unlock()

	return r
}

func (e *Enricher) ptr(ipStr string) string {
	rev, err := dns.ReverseAddr(ipStr)
	if err != nil {
		return ""
	}
	m := new(dns.Msg)
	m.SetQuestion(rev, dns.TypePTR)
	resp, _, err := e.client.Exchange(m, e.server)
	if err != nil || resp == nil || resp.Rcode != dns.RcodeSuccess {
		return ""
	}
	for _, a := range resp.Answer {
		if p, ok := a.(*dns.PTR); ok {
			return strings.TrimSuffix(p.Ptr, ".")
		}
	}
	return ""
}
