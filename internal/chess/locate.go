package chess

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var ErrEngineNotFound = errors.New("chess engine not found")

var wellKnownPaths = []string{
	filepath.Join("stockfish", "stockfish"),
	filepath.Join("stockfish", "stockfish.exe"),
	"stockfish",
	"stockfish.exe",
	"/usr/games/stockfish",
	"/usr/local/bin/stockfish",
	"/opt/homebrew/bin/stockfish",
	`C:\Program Files (x86)\Stockfish\stockfish.exe`,
	`C:\Program Files\Stockfish\stockfish.exe`,
}

// SearchPaths lists candidate engine binaries in priority order: explicit
// paths first, then the well-known locations.
func SearchPaths(explicit ...string) []string {
	out := make([]string, 0, len(explicit)+len(wellKnownPaths))
	seen := make(map[string]struct{})
	for _, p := range append(append([]string(nil), explicit...), wellKnownPaths...) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Locate returns the first candidate that is an executable file, falling
// back to "stockfish" on $PATH. Found candidates are made absolute: exec
// only searches $PATH for a bare name, never the working directory.
func Locate(candidates []string) (string, error) {
	for _, p := range candidates {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if filepath.Ext(p) != ".exe" && info.Mode()&0o111 == 0 {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolve engine path %s: %w", p, err)
		}
		return abs, nil
	}
	if p, err := exec.LookPath("stockfish"); err == nil {
		return p, nil
	}
	return "", ErrEngineNotFound
}
