package configs

// Option keys with meaning inside this package.
const (
	OptionCustomRendezvousServer = "custom-rendezvous-server"
	OptionRendezvousServers      = "rendezvous-servers"
	OptionRelayServer            = "relay-server"
)

// Config2 is the options partition.
type Config2 struct {
	RendezvousServer string `toml:"rendezvous_server"`
	NatType          int    `toml:"nat_type"`
	Serial           int    `toml:"serial"`

	// the other scalar value must before this
	Options map[string]string `toml:"options"`
}

// GetOption returns the option k, or "" when unset.
func (s *Store) GetOption(k string) string {
	var v string
	s.options.Read(func(c *Config2) { v = c.Options[k] })
	return v
}

// GetOptions returns a copy of all options.
func (s *Store) GetOptions() map[string]string {
	out := make(map[string]string)
	s.options.Read(func(c *Config2) {
		for k, v := range c.Options {
			out[k] = v
		}
	})
	return out
}

// SetOption sets option k. An empty value removes the option. Changing the
// custom rendezvous server forgets the server chosen by latency.
func (s *Store) SetOption(k, v string) error {
	return s.options.Update(func(c *Config2) bool {
		changed := false
		if k == OptionCustomRendezvousServer && c.RendezvousServer != "" {
			c.RendezvousServer = ""
			changed = true
		}
		old, exists := c.Options[k]
		switch {
		case v == "" && exists:
			delete(c.Options, k)
			changed = true
		case v != "" && old != v:
			if c.Options == nil {
				c.Options = make(map[string]string)
			}
			c.Options[k] = v
			changed = true
		}
		return changed
	})
}

// SetOptions replaces all options.
func (s *Store) SetOptions(options map[string]string) error {
	copied := make(map[string]string, len(options))
	for k, v := range options {
		if v != "" {
			copied[k] = v
		}
	}
	return s.options.Update(func(c *Config2) bool {
		if mapsEqual(c.Options, copied) {
			return false
		}
		c.Options = copied
		return true
	})
}

// GetNatType returns the last detected NAT type.
func (s *Store) GetNatType() int {
	var v int
	s.options.Read(func(c *Config2) { v = c.NatType })
	return v
}

// SetNatType records the detected NAT type.
func (s *Store) SetNatType(natType int) error {
	return s.options.Update(func(c *Config2) bool {
		if c.NatType == natType {
			return false
		}
		c.NatType = natType
		return true
	})
}

// GetSerial returns the effective candidate-list serial, never below the
// compiled-in Serial.
func (s *Store) GetSerial() int {
	var v int
	s.options.Read(func(c *Config2) { v = c.Serial })
	return max(v, Serial)
}

// SetSerial records the serial announced by the rendezvous service.
func (s *Store) SetSerial(serial int) error {
	return s.options.Update(func(c *Config2) bool {
		if c.Serial == serial {
			return false
		}
		c.Serial = serial
		return true
	})
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
