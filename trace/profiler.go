package trace

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

type SectionStats struct {
	Name  string
	Count int
	Total time.Duration
}

type openSection struct {
	name  string
	start time.Time
}

// Sections is an exec.Profiler that accumulates wall time per section.
type Sections struct {
	open  []openSection
	stats map[string]*SectionStats
	now   func() time.Time
}

func NewSections() *Sections {
	return &Sections{
		stats: make(map[string]*SectionStats),
		now:   time.Now,
	}
}

func (s *Sections) Push(section string) {
	s.open = append(s.open, openSection{name: section, start: s.now()})
}

func (s *Sections) Pop() {
	if len(s.open) == 0 {
		return
	}
	top := s.open[len(s.open)-1]
	s.open = s.open[:len(s.open)-1]
	st, ok := s.stats[top.name]
	if !ok {
		st = &SectionStats{Name: top.name}
		s.stats[top.name] = st
	}
	st.Count++
	st.Total += s.now().Sub(top.start)
}

// Report returns the sections ordered by total time, longest first.
func (s *Sections) Report() []SectionStats {
	out := make([]SectionStats, 0, len(s.stats))
	for _, st := range s.stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *Sections) LogSummary() {
	for _, st := range s.Report() {
		log.Debug().Str("section", st.Name).Int("count", st.Count).Dur("total", st.Total).Msg("profile")
	}
}
