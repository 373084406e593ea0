// Package statement binds per-bank template constants to the generic
// extraction machinery: each Profile locates its sections and tables
// in a loaded document and produces typed records plus the
// document-reported checkpoint figures.
package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/releve-dev/releve/internal/config"
	"github.com/releve-dev/releve/internal/doc"
	"github.com/releve-dev/releve/internal/geom"
	"github.com/releve-dev/releve/internal/record"
)

// boxOf converts a layout box spec to a geometry box.
func boxOf(spec config.BoxSpec) geom.Box {
	return geom.NewBox(spec.X1, spec.X2, spec.Y1, spec.Y2)
}

// ParseConfig carries everything a profile needs for one run: the
// immutable geometry template, the locale labels, the fixed layouts
// and a logger.
type ParseConfig struct {
	Template      config.Template
	Labels        config.Labels
	AccountLayout config.AccountLayout
	CreditLayout  config.CreditLayout
	Log           zerolog.Logger
}

// Result is a profile's output: the ordered parsed records, the
// statement identity, and every checkpoint figure the document
// reports (handed to record.Reconcile).
type Result struct {
	Records       []record.Record
	StatementDate time.Time

	// Account is the account identifier, when the statement carries
	// one.
	Account string

	// PeriodStart/PeriodEnd bound the statement period, when the
	// document states one.
	PeriodStart time.Time
	PeriodEnd   time.Time
	HasPeriod   bool

	// Options holds the checkpoint figures; reward parameters and the
	// skip list are filled in by the caller before reconciling.
	Options record.Options
}

// Profile parses one statement variant.
type Profile interface {
	// Name returns the profile's registry key.
	Name() string
	// Template returns the profile's default geometry template.
	Template() config.Template
	// Parse extracts records and checkpoints from a loaded document.
	Parse(st *doc.Statement, pc ParseConfig) (*Result, error)
}

// TemplateMismatchError reports that a character metric measured from
// the document disagrees with the configured template. Fatal: every
// column position derives from these constants.
type TemplateMismatchError struct {
	Metric     string
	Configured float64
	Measured   float64
}

func (e *TemplateMismatchError) Error() string {
	return fmt.Sprintf("template mismatch: %s configured %.3f, document measures %.3f",
		e.Metric, e.Configured, e.Measured)
}

// Registry holds named profiles.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry creates an empty profile registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]Profile)}
}

// Register adds a profile. Panics on duplicate name.
func (r *Registry) Register(p Profile) {
	key := strings.ToLower(p.Name())
	if _, ok := r.profiles[key]; ok {
		panic("duplicate profile name: " + key)
	}
	r.profiles[key] = p
}

// Get returns the profile for name, or nil.
func (r *Registry) Get(name string) Profile {
	return r.profiles[strings.ToLower(name)]
}

// Names returns the registered profile names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		names = append(names, k)
	}
	return names
}

// DefaultRegistry returns a registry with all built-in profiles.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CreditCard{})
	r.Register(&CheckingAccount{})
	return r
}
