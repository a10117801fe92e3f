package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// Expand replaces ${VAR} references. ${USER} and ${HOME} always resolve, other
// names come from the environment. Unset variables expand to "".
// $VAR without braces is left alone.
func Expand(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}

	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start == -1 {
			b.WriteString(s)
			break
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:start])
		b.WriteString(lookup(s[start+2 : start+end]))
		s = s[start+end+1:]
	}
	return b.String()
}

// ExpandPath applies Expand then ExpandTilde, for local paths.
func ExpandPath(path string) string {
	return ExpandTilde(Expand(path))
}

func lookup(name string) string {
	switch name {
	case "USER":
		return getUser()
	case "HOME":
		return getHome()
	}
	return os.Getenv(name)
}

func getUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

func getHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}
