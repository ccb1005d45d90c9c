package sport

import (
	"fmt"
	"sort"
)

// Registry holds the available sport profiles, keyed by sport key.
// Populate it at startup; lookups afterwards are read-only.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry creates a registry preloaded with the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]*Profile)}

	// Built-ins. Registering a builtin can only fail on a programming
	// error in the profile tables, so panic loudly.
	for _, p := range []*Profile{BasketballNBA(), IceHockeyNHL()} {
		if err := r.Register(p); err != nil {
			panic(fmt.Sprintf("builtin profile %s: %v", p.SportKey, err))
		}
	}
	return r
}

// Register validates and adds a profile, replacing any existing profile
// with the same sport key.
func (r *Registry) Register(p *Profile) error {
	if err := Validate(p); err != nil {
		return fmt.Errorf("profile %q: %w", p.SportKey, err)
	}
	r.profiles[p.SportKey] = p
	return nil
}

// Get retrieves a profile by sport key.
func (r *Registry) Get(sportKey string) (*Profile, error) {
	p, ok := r.profiles[sportKey]
	if !ok {
		return nil, fmt.Errorf("sport profile not found: %s", sportKey)
	}
	return p, nil
}

// Keys returns all registered sport keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks a profile for the configuration mistakes that would
// otherwise only surface mid-resolution: missing taxonomy entries,
// dangling derived-metric references, unknown operators.
func Validate(p *Profile) error {
	if p.SportKey == "" {
		return fmt.Errorf("empty sport key")
	}
	if p.RegulationPeriods <= 0 {
		return fmt.Errorf("regulation periods must be positive, got %d", p.RegulationPeriods)
	}
	if len(p.Windows) == 0 {
		return fmt.Errorf("no windows defined")
	}
	if _, ok := p.Windows[WindowFullGame]; !ok {
		return fmt.Errorf("missing %s window", WindowFullGame)
	}
	for w, rule := range p.Windows {
		if rule.Dynamic == DynamicNone && len(rule.Static) == 0 {
			return fmt.Errorf("window %s: neither static periods nor dynamic rule", w)
		}
		switch rule.Dynamic {
		case DynamicNone, DynamicFullGame, DynamicOvertime:
		default:
			return fmt.Errorf("window %s: unknown dynamic rule %q", w, rule.Dynamic)
		}
	}

	for name, rule := range p.Metrics {
		if rule.Summary == nil && rule.Events == nil {
			return fmt.Errorf("metric %s: no extraction strategy", name)
		}
		if s := rule.Summary; s != nil {
			if err := validateSummary(p, name, s); err != nil {
				return err
			}
		}
		if e := rule.Events; e != nil {
			if err := validateEvents(name, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateSummary(p *Profile, name string, s *SummaryRule) error {
	switch s.Compound {
	case CompoundNone, CompoundFirst, CompoundSecond:
	default:
		return fmt.Errorf("metric %s: unknown compound side %q", name, s.Compound)
	}
	switch s.Special {
	case SpecialNone:
		if s.Field == "" && len(s.DerivedFrom) == 0 {
			return fmt.Errorf("metric %s: summary rule has neither field nor derivation", name)
		}
	case SpecialFinalScore:
	case SpecialTeamSum:
		if s.SumField == "" {
			return fmt.Errorf("metric %s: %s requires sum_field", name, SpecialTeamSum)
		}
	default:
		return fmt.Errorf("metric %s: unknown special rule %q", name, s.Special)
	}
	for _, dep := range s.DerivedFrom {
		depRule, ok := p.Metrics[dep]
		if !ok {
			return fmt.Errorf("metric %s: derived from unknown metric %q", name, dep)
		}
		if depRule.Summary != nil && len(depRule.Summary.DerivedFrom) > 0 {
			return fmt.Errorf("metric %s: derived metric %q is itself derived", name, dep)
		}
	}
	return nil
}

func validateEvents(name string, e *EventRule) error {
	if len(e.Predicates) == 0 {
		return fmt.Errorf("metric %s: event rule has no predicates", name)
	}
	for _, pr := range e.Predicates {
		switch pr.Field {
		case FieldType, FieldTag, FieldTeam, FieldValue:
		default:
			return fmt.Errorf("metric %s: unknown event field %q", name, pr.Field)
		}
		switch pr.Op {
		case OpEquals, OpContains, OpPrefix:
		case OpGT, OpGTE, OpLT, OpLTE:
			if pr.Field != FieldValue {
				return fmt.Errorf("metric %s: numeric operator %s on non-numeric field %s", name, pr.Op, pr.Field)
			}
		default:
			return fmt.Errorf("metric %s: unknown predicate op %q", name, pr.Op)
		}
	}
	switch e.Agg {
	case AggCount, AggSumValue:
	default:
		return fmt.Errorf("metric %s: unknown aggregation %q", name, e.Agg)
	}
	if e.ActorSlot < 0 {
		return fmt.Errorf("metric %s: actor slot must be >= 0", name)
	}
	return nil
}
