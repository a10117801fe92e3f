package sshutil

import (
	"os"
	"sort"
	"strings"
)

// Host is a concrete alias from an ssh config file.
type Host struct {
	Alias        string
	Hostname     string
	User         string
	Port         string
	IdentityFile string
}

// Description summarizes where the alias points.
func (h Host) Description() string {
	var parts []string
	if h.Hostname != "" && h.Hostname != h.Alias {
		parts = append(parts, h.Hostname)
	}
	if h.User != "" {
		parts = append(parts, "user: "+h.User)
	}
	if h.Port != "" && h.Port != "22" {
		parts = append(parts, "port: "+h.Port)
	}
	if len(parts) == 0 {
		return h.Alias
	}
	return strings.Join(parts, ", ")
}

// Hosts lists the aliases in the ssh config at path, sorted by alias.
// Wildcard patterns are skipped. An empty path means ~/.ssh/config and a
// missing file yields no hosts.
func Hosts(path string) ([]Host, error) {
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := decodeConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var hosts []Host
	seen := map[string]bool{}
	for _, block := range cfg.Hosts {
		for _, pattern := range block.Patterns {
			alias := pattern.String()
			if strings.ContainsAny(alias, "*?") || seen[alias] {
				continue
			}
			seen[alias] = true

			h := Host{Alias: alias}
			h.Hostname, _ = cfg.Get(alias, "HostName")
			h.User, _ = cfg.Get(alias, "User")
			h.Port, _ = cfg.Get(alias, "Port")
			if id, _ := cfg.Get(alias, "IdentityFile"); id != "" {
				h.IdentityFile = expandPath(id)
			}
			hosts = append(hosts, h)
		}
	}

	sort.Slice(hosts, func(i, j int) bool { return hosts[i].Alias < hosts[j].Alias })
	return hosts, nil
}
