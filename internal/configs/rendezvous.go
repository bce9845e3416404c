package configs

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PolarWolf314/deskvault/internal/audit"
	kerrors "github.com/PolarWolf314/deskvault/internal/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// latencyTable maps host to its last latency sample, remembering the order
// in which hosts were first seen.
type latencyTable struct {
	order []string
	ms    map[string]int64
}

func newLatencyTable() latencyTable {
	return latencyTable{ms: make(map[string]int64)}
}

func (t *latencyTable) set(host string, ms int64) {
	if _, ok := t.ms[host]; !ok {
		t.order = append(t.order, host)
	}
	t.ms[host] = ms
}

// best returns the host with the smallest strictly positive latency. Ties
// go to the host seen first.
func (t *latencyTable) best() (string, bool) {
	var (
		host  string
		lowMs int64
		found bool
	)
	for _, h := range t.order {
		ms := t.ms[h]
		if ms <= 0 {
			continue
		}
		if !found || ms < lowMs {
			host, lowMs, found = h, ms, true
		}
	}
	return host, found
}

// HostLatency is one entry of the latency table.
type HostLatency struct {
	Host string
	Ms   int64
}

// withDefaultPort appends port to host when it carries none.
func withDefaultPort(host string, port int) string {
	if host == "" {
		return ""
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(strings.Trim(host, "[]"), strconv.Itoa(port))
}

// GetRendezvousServer returns the rendezvous endpoint to use, with port.
func (s *Store) GetRendezvousServer() string {
	server := s.GetOption(OptionCustomRendezvousServer)
	if server == "" {
		server = s.prodServer
	}
	if server == "" {
		s.options.Read(func(c *Config2) { server = c.RendezvousServer })
	}
	if server == "" {
		if candidates := s.GetRendezvousServers(); len(candidates) > 0 {
			server = candidates[0]
		}
	}
	return withDefaultPort(server, RendezvousPort)
}

// GetRendezvousServers returns the candidate list. A custom server replaces
// it entirely; the rendezvous-servers option only applies once the stored
// serial is newer than the compiled-in one.
func (s *Store) GetRendezvousServers() []string {
	if custom := s.GetOption(OptionCustomRendezvousServer); custom != "" {
		return []string{custom}
	}

	var (
		serial int
		list   string
	)
	s.options.Read(func(c *Config2) {
		serial = c.Serial
		list = c.Options[OptionRendezvousServers]
	})
	if serial > Serial {
		var servers []string
		for _, host := range strings.Split(list, ",") {
			host = strings.TrimSpace(host)
			if strings.Contains(host, ".") {
				servers = append(servers, host)
			}
		}
		if len(servers) > 0 {
			return servers
		}
	}

	return append([]string(nil), RendezvousServers...)
}

// GetRelayServer returns the configured relay server with port, or "".
func (s *Store) GetRelayServer() string {
	return withDefaultPort(s.GetOption(OptionRelayServer), RelayPort)
}

// UpdateLatency records a latency sample for host. A zero or negative
// sample marks the host unreachable. When the fastest reachable host
// differs from the stored choice, the choice is persisted.
func (s *Store) UpdateLatency(host string, ms int64) {
	s.onlineMu.Lock()
	defer s.onlineMu.Unlock()

	s.online.set(host, ms)
	best, ok := s.online.best()
	if !ok {
		return
	}

	changed := false
	err := s.options.Update(func(c *Config2) bool {
		if c.RendezvousServer == best {
			return false
		}
		c.RendezvousServer = best
		changed = true
		return true
	})
	if err != nil {
		s.log.Errorf("Failed to store rendezvous server: %v", err)
		return
	}
	if changed {
		s.log.WithFields(logrus.Fields{"host": best, "ms": s.online.ms[best]}).Infof("Selected rendezvous server")
		s.audit.Log(audit.Entry{Operation: audit.OpServerSelected, Host: best})
	}
}

// ResetOnline forgets every latency sample. The stored choice is kept.
func (s *Store) ResetOnline() {
	s.onlineMu.Lock()
	defer s.onlineMu.Unlock()
	s.online = newLatencyTable()
}

// Online returns the latency table in first-seen order.
func (s *Store) Online() []HostLatency {
	s.onlineMu.Lock()
	defer s.onlineMu.Unlock()
	out := make([]HostLatency, 0, len(s.online.order))
	for _, host := range s.online.order {
		out = append(out, HostLatency{Host: host, Ms: s.online.ms[host]})
	}
	return out
}

// Dialer opens network connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// probeRate limits how many connection attempts Probe starts per second.
const probeRate = 10

// Probe measures the TCP connect time to each host and feeds the results to
// UpdateLatency. Unreachable hosts are recorded with -1. It returns the
// samples in the order of hosts.
func (s *Store) Probe(ctx context.Context, dialer Dialer, hosts []string) ([]HostLatency, error) {
	if len(hosts) == 0 {
		return nil, kerrors.ErrNoRendezvousServer
	}
	if dialer == nil {
		dialer = &net.Dialer{Timeout: 3 * time.Second}
	}

	limiter := rate.NewLimiter(rate.Limit(probeRate), 1)
	results := make([]HostLatency, len(hosts))

	var wg sync.WaitGroup
	for i, host := range hosts {
		if err := limiter.Wait(ctx); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("probe cancelled: %w", err)
		}
		wg.Add(1)
		go func(i int, host string) {
			defer wg.Done()
			ms := probeHost(ctx, dialer, withDefaultPort(host, RendezvousPort))
			if ms <= 0 {
				s.log.Debugf("Rendezvous server %s unreachable", host)
			}
			results[i] = HostLatency{Host: host, Ms: ms}
			s.UpdateLatency(host, ms)
		}(i, host)
	}
	wg.Wait()

	return results, ctx.Err()
}

func probeHost(ctx context.Context, dialer Dialer, addr string) int64 {
	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return -1
	}
	elapsed := time.Since(start).Milliseconds()
	conn.Close()
	// Sub-millisecond connects still count as reachable.
	return max(elapsed, 1)
}
