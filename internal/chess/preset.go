package chess

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/park285/cheese-desk/internal/chess/uci"
)

// DifficultyPreset caps the engine's strength. The thinking budget is set
// separately; DepthCap only ends a search early.
type DifficultyPreset struct {
	Name       string
	SkillLevel int
	HashMB     int
	DepthCap   int
	Elo        int
}

const DefaultPreset = "full"

var DefaultPresets = map[string]DifficultyPreset{
	"level1": {Name: "level1", SkillLevel: 0, HashMB: 16, DepthCap: 5, Elo: 600},
	"level2": {Name: "level2", SkillLevel: 0, HashMB: 16, DepthCap: 6, Elo: 700},
	"level3": {Name: "level3", SkillLevel: 1, HashMB: 24, DepthCap: 8, Elo: 800},
	"level4": {Name: "level4", SkillLevel: 3, HashMB: 32, DepthCap: 10, Elo: 1000},
	"level5": {Name: "level5", SkillLevel: 7, HashMB: 48, DepthCap: 12, Elo: 1200},
	"level6": {Name: "level6", SkillLevel: 11, HashMB: 64, DepthCap: 16, Elo: 1400},
	"level7": {Name: "level7", SkillLevel: 16, HashMB: 96, DepthCap: 20, Elo: 1650},
	"level8": {Name: "level8", SkillLevel: 20, HashMB: 128, DepthCap: 30, Elo: 1900},
	"full":   {Name: "full", SkillLevel: 20, HashMB: 128},
}

func GetPreset(name string) (DifficultyPreset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "":
		key = DefaultPreset
	case "beginner":
		key = "level1"
	case "intermediate":
		key = "level5"
	case "advanced":
		key = "level7"
	case "master":
		key = "level8"
	}
	p, ok := DefaultPresets[key]
	if !ok {
		return DifficultyPreset{}, fmt.Errorf("unknown chess preset %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(DefaultPresets))
	for k := range DefaultPresets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Options converts the preset to engine options. threads <= 0 picks half the CPUs.
func (p DifficultyPreset) Options(threads int) uci.Options {
	if threads <= 0 {
		threads = max(1, runtime.NumCPU()/2)
	}
	return uci.Options{
		Threads:    threads,
		SkillLevel: p.SkillLevel,
		HashMB:     p.HashMB,
		Elo:        p.Elo,
	}
}

func (p DifficultyPreset) Limits(moveTimeMillis int) uci.Limits {
	return uci.Limits{Depth: p.DepthCap, MoveTimeMillis: moveTimeMillis}
}
