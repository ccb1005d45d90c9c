package sport

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Profile files let deployments add sports or override the built-ins
// without a rebuild. Format (YAML, one file, any number of profiles):
//
//	profiles:
//	  - sport_key: basketball_ncaa
//	    display_name: NCAA
//	    regulation_periods: 2
//	    windows:
//	      full_game: {dynamic: full_game}
//	      q1: {static: [1]}
//	      overtime: {dynamic: overtime}
//	    overtime_fallback: [3]
//	    metrics:
//	      points:
//	        summary: {field: PTS, special: final_score}
//	        events:
//	          predicates: [{field: tag, op: eq, value: scoring}]
//	          agg: sum_value

type profileFile struct {
	Profiles []profileConfig `mapstructure:"profiles"`
}

type profileConfig struct {
	SportKey          string                      `mapstructure:"sport_key"`
	DisplayName       string                      `mapstructure:"display_name"`
	RegulationPeriods int                         `mapstructure:"regulation_periods"`
	Windows           map[Window]PeriodRule       `mapstructure:"windows"`
	Metrics           map[string]extractionConfig `mapstructure:"metrics"`
	OvertimeFallback  []int                       `mapstructure:"overtime_fallback"`
}

type extractionConfig struct {
	Summary *SummaryRule `mapstructure:"summary"`
	Events  *eventConfig `mapstructure:"events"`
}

// eventConfig mirrors EventRule with pointer fields where the zero
// value is a meaningful setting, so omitted keys get sane defaults.
type eventConfig struct {
	Predicates   []EventPredicate `mapstructure:"predicates"`
	ActorSlot    int              `mapstructure:"actor_slot"`
	OpponentSlot *int             `mapstructure:"opponent_slot"`
	Agg          EventAgg         `mapstructure:"agg"`
}

// LoadFile reads sport profiles from a YAML file.
func LoadFile(path string) ([]*Profile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading profile file %s: %w", path, err)
	}

	var file profileFile
	decode := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&file, decode); err != nil {
		return nil, fmt.Errorf("decoding profile file %s: %w", path, err)
	}

	profiles := make([]*Profile, 0, len(file.Profiles))
	for _, cfg := range file.Profiles {
		p := cfg.toProfile()
		if err := Validate(p); err != nil {
			return nil, fmt.Errorf("profile file %s: %w", path, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// LoadFile reads a profile file and registers every profile in it.
func (r *Registry) LoadFile(path string) error {
	profiles, err := LoadFile(path)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

func (c profileConfig) toProfile() *Profile {
	p := &Profile{
		SportKey:          c.SportKey,
		DisplayName:       c.DisplayName,
		RegulationPeriods: c.RegulationPeriods,
		Windows:           c.Windows,
		Metrics:           make(map[string]ExtractionRule, len(c.Metrics)),
		OvertimeFallback:  c.OvertimeFallback,
	}
	for name, ec := range c.Metrics {
		rule := ExtractionRule{Summary: ec.Summary}
		if ec.Events != nil {
			er := &EventRule{
				Predicates:   ec.Events.Predicates,
				ActorSlot:    ec.Events.ActorSlot,
				OpponentSlot: -1,
				Agg:          ec.Events.Agg,
			}
			if ec.Events.OpponentSlot != nil {
				er.OpponentSlot = *ec.Events.OpponentSlot
			}
			if er.Agg == "" {
				er.Agg = AggCount
			}
			rule.Events = er
		}
		p.Metrics[name] = rule
	}
	return p
}
