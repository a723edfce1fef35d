package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands $VAR references, %VAR% on Windows, and a leading ~ in
// data directory paths.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		expanded = expandPercentVars(expanded)
	}

	rest, ok := cutHome(expanded)
	if !ok {
		return expanded
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest)
}

// cutHome strips a leading "~" or "~/" (also "~\" on Windows).
func cutHome(p string) (string, bool) {
	if p == "~" {
		return "", true
	}
	if strings.HasPrefix(p, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`)) {
		return p[2:], true
	}
	return "", false
}

// expandPercentVars replaces %NAME% with the value of NAME. Unknown names
// and lone percent signs are left as they are.
func expandPercentVars(p string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			b.WriteString(p)
			return b.String()
		}
		end := strings.IndexByte(p[start+1:], '%')
		if end < 0 {
			b.WriteString(p)
			return b.String()
		}
		name := p[start+1 : start+1+end]
		val, ok := os.LookupEnv(name)
		b.WriteString(p[:start])
		switch {
		case name == "":
			b.WriteByte('%')
			p = p[start+1:]
			continue
		case ok:
			b.WriteString(val)
		default:
			b.WriteString("%" + name + "%")
		}
		p = p[start+end+2:]
	}
}
