package configs

import "slices"

// MinWindowSide is the smallest width or height worth remembering.
const MinWindowSide = 300

// Size is a window geometry: x, y, width, height.
type Size [4]int

// LocalConfig holds state that only matters on this machine.
type LocalConfig struct {
	RemoteID string   `toml:"remote_id"`
	Size     Size     `toml:"size"`
	Fav      []string `toml:"fav"`

	// the other scalar value must before this
	Options map[string]string `toml:"options"`
}

// HwCodecConfig caches probed hardware codec capabilities.
type HwCodecConfig struct {
	Options map[string]string `toml:"options"`
}

// DiscoveredPeer is one host seen by LAN discovery.
type DiscoveredPeer struct {
	ID       string `toml:"id"`
	MAC      string `toml:"mac"`
	IP       string `toml:"ip"`
	Username string `toml:"username"`
	Hostname string `toml:"hostname"`
	Platform string `toml:"platform"`
	Online   bool   `toml:"online"`
}

// LanPeersConfig is the last LAN discovery snapshot.
type LanPeersConfig struct {
	Peers []DiscoveredPeer `toml:"peers"`
}

func (s *Store) GetRemoteID() string {
	var v string
	s.local.Read(func(c *LocalConfig) { v = c.RemoteID })
	return v
}

func (s *Store) SetRemoteID(id string) error {
	return s.local.Update(func(c *LocalConfig) bool {
		if c.RemoteID == id {
			return false
		}
		c.RemoteID = id
		return true
	})
}

func (s *Store) GetSize() Size {
	var v Size
	s.local.Read(func(c *LocalConfig) { v = c.Size })
	return v
}

// SetSize remembers the main window geometry. Windows smaller than
// MinWindowSide in either dimension are ignored.
func (s *Store) SetSize(x, y, w, h int) error {
	size := Size{x, y, w, h}
	if w < MinWindowSide || h < MinWindowSide {
		return nil
	}
	return s.local.Update(func(c *LocalConfig) bool {
		if c.Size == size {
			return false
		}
		c.Size = size
		return true
	})
}

func (s *Store) GetFav() []string {
	var v []string
	s.local.Read(func(c *LocalConfig) { v = slices.Clone(c.Fav) })
	return v
}

func (s *Store) SetFav(fav []string) error {
	return s.local.Update(func(c *LocalConfig) bool {
		if slices.Equal(c.Fav, fav) {
			return false
		}
		c.Fav = slices.Clone(fav)
		return true
	})
}

func (s *Store) GetLocalOption(k string) string {
	var v string
	s.local.Read(func(c *LocalConfig) { v = c.Options[k] })
	return v
}

// SetLocalOption sets a local option; an empty value removes it.
func (s *Store) SetLocalOption(k, v string) error {
	return s.local.Update(func(c *LocalConfig) bool {
		return setOrDelete(&c.Options, k, v)
	})
}

func (s *Store) GetHwCodecOption(k string) string {
	var v string
	s.hwcodec.Read(func(c *HwCodecConfig) { v = c.Options[k] })
	return v
}

func (s *Store) SetHwCodecOption(k, v string) error {
	return s.hwcodec.Update(func(c *HwCodecConfig) bool {
		return setOrDelete(&c.Options, k, v)
	})
}

// ClearHwCodec forgets all probed codec capabilities.
func (s *Store) ClearHwCodec() error {
	return s.hwcodec.Update(func(c *HwCodecConfig) bool {
		if len(c.Options) == 0 {
			return false
		}
		c.Options = nil
		return true
	})
}

// LanPeers returns the last LAN discovery snapshot.
func (s *Store) LanPeers() []DiscoveredPeer {
	var v []DiscoveredPeer
	s.lanPeers.Read(func(c *LanPeersConfig) { v = slices.Clone(c.Peers) })
	return v
}

// SetLanPeers replaces the LAN discovery snapshot.
func (s *Store) SetLanPeers(peers []DiscoveredPeer) error {
	return s.lanPeers.Update(func(c *LanPeersConfig) bool {
		if slices.Equal(c.Peers, peers) {
			return false
		}
		c.Peers = slices.Clone(peers)
		return true
	})
}

func setOrDelete(m *map[string]string, k, v string) bool {
	old, exists := (*m)[k]
	if v == "" {
		if !exists {
			return false
		}
		delete(*m, k)
		return true
	}
	if exists && old == v {
		return false
	}
	if *m == nil {
		*m = make(map[string]string)
	}
	(*m)[k] = v
	return true
}
