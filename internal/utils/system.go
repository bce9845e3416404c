package utils

import (
	"bytes"
	"os"
	"os/user"
	"runtime"
	"strings"
	"time"
)

// machineIDFiles are read in order; the first non-empty one wins.
var machineIDFiles = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
}

// GetUsername returns the current username.
func GetUsername() (string, error) {
	user, err := user.Current()
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// GetHostname returns the system hostname.
func GetHostname() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", err
	}
	return hostname, nil
}

// MachineID returns a stable identifier for this machine. It is not secret,
// only stable: it binds encrypted config fields to the machine they were
// written on.
func MachineID() []byte {
	if runtime.GOOS == "linux" {
		for _, path := range machineIDFiles {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if id := bytes.TrimSpace(data); len(id) > 0 {
				return id
			}
		}
	}

	// Fall back to something that at least survives restarts.
	hostname, _ := GetHostname()
	username, _ := GetUsername()
	return []byte(runtime.GOOS + "/" + hostname + "/" + username)
}

// ExecutableModTime returns the modification time of the running binary,
// which approximates its build or install time. It returns the zero time if
// the executable cannot be located.
func ExecutableModTime() time.Time {
	exe, err := os.Executable()
	if err != nil {
		return time.Time{}
	}
	info, err := os.Stat(exe)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// PatchHome maps a home directory that belongs to a service account onto the
// invoking user's home. On Linux a process started through sudo sees /root as
// its home while the config belongs to the real user.
func PatchHome(home string) string {
	if runtime.GOOS != "linux" || home != "/root" {
		return home
	}
	username := os.Getenv("SUDO_USER")
	if username == "" {
		username, _ = GetUsername()
	}
	username = strings.TrimSpace(username)
	if username == "" || username == "root" {
		return home
	}
	return "/home/" + username
}
