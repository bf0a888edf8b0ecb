// Package agent holds the static catalog of swarm personas and the
// sampling temperature policy. The catalog is loaded once at startup and
// immutable for the process lifetime.
package agent

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"hydra/internal/llm"
)

// Agent is a named persona with a role prompt, default model routing and
// keyword specialty patterns used for auto-routing.
type Agent struct {
	Name               string    `yaml:"name"`
	Role               string    `yaml:"role"`
	DefaultModel       string    `yaml:"default_model"`
	Class              llm.Class `yaml:"class"`
	DefaultTemperature float64   `yaml:"default_temperature"`
	SpecialtyPatterns  []string  `yaml:"specialty_patterns"`

	compiled []*regexp.Regexp
}

// Directory resolves agent names to Agents. Built once at startup;
// lookups after that are read-only.
type Directory struct {
	agents map[string]*Agent
	names  []string
}

// GeneralistName is the agent every fallback plan routes to.
const GeneralistName = "generalist"

// NewDirectory builds a directory from a catalog, compiling each agent's
// specialty patterns. Invalid patterns and duplicate names are
// configuration errors.
func NewDirectory(catalog []Agent) (*Directory, error) {
	if len(catalog) == 0 {
		catalog = builtinCatalog()
	}

	d := &Directory{agents: make(map[string]*Agent, len(catalog))}
	for i := range catalog {
		a := catalog[i]
		name := strings.ToLower(strings.TrimSpace(a.Name))
		if name == "" {
			return nil, fmt.Errorf("agent %d has no name", i)
		}
		if _, exists := d.agents[name]; exists {
			return nil, fmt.Errorf("duplicate agent name %q", name)
		}
		a.Name = name
		for _, pattern := range a.SpecialtyPatterns {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, fmt.Errorf("agent %q has invalid specialty pattern %q: %w", name, pattern, err)
			}
			a.compiled = append(a.compiled, re)
		}
		d.agents[name] = &a
		d.names = append(d.names, name)
	}

	if _, ok := d.agents[GeneralistName]; !ok {
		return nil, fmt.Errorf("catalog must include a %q agent", GeneralistName)
	}

	sort.Strings(d.names)
	return d, nil
}

// Lookup resolves an agent by name. Unknown names are an error, not a
// silent fallback, so plan validation can reject them.
func (d *Directory) Lookup(name string) (*Agent, error) {
	a, ok := d.agents[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown agent %q", name)
	}
	return a, nil
}

// Has reports whether name resolves to a known agent.
func (d *Directory) Has(name string) bool {
	_, ok := d.agents[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Generalist returns the fallback agent.
func (d *Directory) Generalist() *Agent {
	return d.agents[GeneralistName]
}

// Names returns all agent names in sorted order.
func (d *Directory) Names() []string {
	return d.names
}

// Route picks the agent whose specialty patterns best match the task
// description. The generalist wins when nothing matches.
func (d *Directory) Route(description string) *Agent {
	best := d.Generalist()
	bestHits := 0
	for _, name := range d.names {
		a := d.agents[name]
		hits := 0
		for _, re := range a.compiled {
			if re.MatchString(description) {
				hits++
			}
		}
		if hits > bestHits {
			best = a
			bestHits = hits
		}
	}
	return best
}

// builtinCatalog is the default persona set used when no catalog file
// overrides it.
func builtinCatalog() []Agent {
	return []Agent{
		{
			Name:               GeneralistName,
			Role:               "Versatile problem solver. Handles any task competently when no specialist fits.",
			DefaultModel:       "gemini-2.0-flash",
			Class:              llm.ClassCloud,
			DefaultTemperature: 0.7,
		},
		{
			Name:               "architect",
			Role:               "Systems architect. Designs structures, interfaces, and data flow before any code is written.",
			DefaultModel:       "gemini-2.5-pro",
			Class:              llm.ClassCloud,
			DefaultTemperature: 0.4,
			SpecialtyPatterns:  []string{`\barchitect`, `\bdesign\b`, `\bstructure\b`, `\bscalab`, `\bsystem design\b`},
		},
		{
			Name:               "coder",
			Role:               "Implementation specialist. Writes correct, idiomatic code with error handling.",
			DefaultModel:       "gemini-2.5-pro",
			Class:              llm.ClassCloud,
			DefaultTemperature: 0.3,
			SpecialtyPatterns:  []string{`\bimplement`, `\bcode\b`, `\bwrite\b.*\bfunction`, `\brefactor`, `\bbug\b`, `\bfix\b`},
		},
		{
			Name:               "researcher",
			Role:               "Research specialist. Gathers facts, compares options, and cites evidence.",
			DefaultModel:       "gemini-2.0-flash",
			Class:              llm.ClassCloud,
			DefaultTemperature: 0.5,
			SpecialtyPatterns:  []string{`\bresearch`, `\binvestigat`, `\bcompare\b`, `\bfind out\b`, `\bwhat is\b`, `\bexplain\b`},
		},
		{
			Name:               "analyst",
			Role:               "Data and requirements analyst. Breaks problems down and quantifies tradeoffs.",
			DefaultModel:       "llama3.1",
			Class:              llm.ClassLocal,
			DefaultTemperature: 0.4,
			SpecialtyPatterns:  []string{`\banaly`, `\bmetric`, `\bdata\b`, `\brequirement`, `\bevaluate\b`},
		},
		{
			Name:               "reviewer",
			Role:               "Critical reviewer. Finds defects, gaps, and security issues in produced work.",
			DefaultModel:       "gemini-2.0-flash",
			Class:              llm.ClassCloud,
			DefaultTemperature: 0.2,
			SpecialtyPatterns:  []string{`\breview`, `\baudit`, `\bsecurity\b`, `\bvalidate\b`, `\bverify\b`},
		},
		{
			Name:               "writer",
			Role:               "Technical writer. Produces clear documentation and summaries.",
			DefaultModel:       "llama3.1",
			Class:              llm.ClassLocal,
			DefaultTemperature: 0.8,
			SpecialtyPatterns:  []string{`\bdocument`, `\bsummar`, `\bwrite\b.*\b(doc|guide|readme)`, `\bexplain\b.*\bsimply\b`},
		},
	}
}
