package pack

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/timewinder-dev/cmdqueue/command"
)

const (
	DefaultCommandLimit = 65536
	DefaultForkLimit    = 65536
)

// Pack is a function pack file: scheduler limits, functions and the
// entities commands can select.
type Pack struct {
	Limits    Limits              `toml:"limits"`
	Include   []string            `toml:"include,omitempty"`
	Functions map[string][]string `toml:"functions,omitempty"`
	Entities  []EntitySpec        `toml:"entities,omitempty"`
}

type Limits struct {
	CommandLimit  int `toml:"command_limit,omitempty"`
	ForkLimit     int `toml:"fork_limit,omitempty"`
	MaxQueueDepth int `toml:"max_queue_depth,omitempty"`
	ParseCache    int `toml:"parse_cache,omitempty"`
}

type EntitySpec struct {
	Name   string         `toml:"name"`
	Tags   []string       `toml:"tags,omitempty"`
	Scores map[string]int `toml:"scores,omitempty"`
}

func ParsePack(r io.Reader) (*Pack, error) {
	var out Pack
	_, err := toml.NewDecoder(r).Decode(&out)
	if err != nil {
		return nil, err
	}
	if out.Limits.CommandLimit == 0 {
		out.Limits.CommandLimit = DefaultCommandLimit
	}
	if out.Limits.ForkLimit == 0 {
		out.Limits.ForkLimit = DefaultForkLimit
	}
	return &out, nil
}

// LoadPackFromFile loads a pack and the packs it includes. Include paths
// are relative to the including file; limits come from the top file only.
func LoadPackFromFile(path string) (*Pack, error) {
	return loadPack(path, make(map[string]bool))
}

func loadPack(path string, seen map[string]bool) (*Pack, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if seen[abs] {
		return nil, fmt.Errorf("include cycle at %s", path)
	}
	seen[abs] = true

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ParsePack(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for _, inc := range p.Include {
		sub, err := loadPack(filepath.Clean(filepath.Join(dir, inc)), seen)
		if err != nil {
			return nil, err
		}
		if err := p.merge(sub); err != nil {
			return nil, fmt.Errorf("including %s: %w", inc, err)
		}
	}
	return p, nil
}

func (p *Pack) merge(o *Pack) error {
	if p.Functions == nil {
		p.Functions = make(map[string][]string)
	}
	for id, lines := range o.Functions {
		if _, ok := p.Functions[id]; ok {
			return fmt.Errorf("function %s defined twice", id)
		}
		p.Functions[id] = lines
	}
	p.Entities = append(p.Entities, o.Entities...)
	return nil
}

// Build compiles every function and creates the world they run in.
func (p *Pack) Build() (*Runtime, error) {
	parser := command.NewParser(p.Limits.ParseCache)
	world := command.NewWorld()

	ids := make([]string, 0, len(p.Functions))
	for id := range p.Functions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fn, err := command.CompileFunction(parser, id, p.Functions[id])
		if err != nil {
			return nil, fmt.Errorf("compiling function %w", err)
		}
		world.AddFunction(fn)
	}

	for _, es := range p.Entities {
		if es.Name == "" {
			return nil, fmt.Errorf("entity without a name")
		}
		if _, ok := world.Entity(es.Name); ok {
			return nil, fmt.Errorf("entity %s defined twice", es.Name)
		}
		scores := make(map[string]int, len(es.Scores))
		for k, v := range es.Scores {
			scores[k] = v
		}
		world.AddEntity(&command.Entity{
			Name:   es.Name,
			Tags:   es.Tags,
			Scores: scores,
		})
	}

	return &Runtime{
		World:  world,
		Parser: parser,
		Limits: p.Limits,
	}, nil
}
