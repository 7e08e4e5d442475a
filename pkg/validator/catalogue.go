package validator

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/cache"
)

const (
	ruleSeparator = "|"
	argSeparator  = ":"

	parseCacheSize = 256
)

// Input is what a validator sees for one evaluation.
type Input struct {
	Field string
	Value any
	Kind  Kind
	Args  []string
	// State holds whatever the rule's Prepare hook produced at parse time.
	State any
}

// Func checks one value and returns nil when it passes.
type Func func(ctx context.Context, in Input) *ValidationError

// RuleSpec declares a rule that can appear in a rule expression.
type RuleSpec struct {
	Name    string
	MinArgs int
	// MaxArgs < 0 means unbounded.
	MaxArgs int
	// RawArgs keeps everything after the first ':' as a single argument,
	// for rules such as regex whose argument may contain the separator.
	RawArgs bool
	// Prepare validates arguments once at parse time and may return
	// precomputed state handed to Check through Input.State.
	Prepare func(args []string) (any, error)
	Check   Func
	// Async rules run on their own goroutine; their result arrives later.
	Async bool
}

// Rule is a parsed, ready-to-run validator descriptor.
type Rule struct {
	Name  string
	Args  []string
	Async bool
	state any
	check Func
}

// String renders the rule back into token form.
func (r Rule) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	return r.Name + argSeparator + strings.Join(r.Args, argSeparator)
}

// Catalogue maps rule names to their specs. It is safe for concurrent use.
// Successfully parsed expressions are cached.
type Catalogue struct {
	mu     sync.RWMutex
	specs  map[string]RuleSpec
	parsed *cache.LRU[string, []Rule]
}

// NewCatalogue returns a catalogue with every built-in rule registered.
func NewCatalogue() *Catalogue {
	c := &Catalogue{
		specs:  make(map[string]RuleSpec),
		parsed: cache.NewLRU[string, []Rule](parseCacheSize),
	}
	for _, spec := range builtinRules() {
		c.specs[spec.Name] = spec
	}
	return c
}

// Register adds a custom synchronous or asynchronous rule.
func (c *Catalogue) Register(spec RuleSpec) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" || strings.ContainsAny(name, ruleSeparator+argSeparator) {
		return fmt.Errorf("%w: invalid rule name %q", ErrInvalidRuleArgs, spec.Name)
	}
	if spec.Check == nil {
		return fmt.Errorf("%w: rule %q has no check", ErrInvalidRuleArgs, name)
	}
	spec.Name = name

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.specs[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRule, name)
	}
	c.specs[name] = spec
	c.parsed.Purge()
	return nil
}

// RegisterFunc registers a synchronous rule without arguments.
func (c *Catalogue) RegisterFunc(name string, check Func) error {
	return c.Register(RuleSpec{Name: name, Check: check})
}

// RegisterAsync registers an asynchronous rule without arguments.
func (c *Catalogue) RegisterAsync(name string, check Func) error {
	return c.Register(RuleSpec{Name: name, Check: check, Async: true})
}

// Has reports whether name is registered.
func (c *Catalogue) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.specs[name]
	return ok
}

// Names lists the registered rule names in sorted order.
func (c *Catalogue) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.specs))
	for name := range c.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse turns a rule expression such as "required|min:3" into an ordered
// list of rules. Empty tokens are skipped; unknown names and bad arguments
// fail with a *ParseError naming the token.
func (c *Catalogue) Parse(expr string) ([]Rule, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	if rules, ok := c.parsed.Get(expr); ok {
		return slices.Clone(rules), nil
	}

	rules, err := c.parse(expr)
	if err != nil {
		return nil, err
	}
	c.parsed.Put(expr, rules)
	return slices.Clone(rules), nil
}

func (c *Catalogue) parse(expr string) ([]Rule, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var rules []Rule
	for raw := range strings.SplitSeq(expr, ruleSeparator) {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}

		name, rest, hasArgs := strings.Cut(token, argSeparator)
		name = strings.TrimSpace(name)

		spec, ok := c.specs[name]
		if !ok {
			return nil, &ParseError{Expr: expr, Token: token, Err: ErrUnknownRule}
		}

		var args []string
		if hasArgs {
			if spec.RawArgs {
				args = []string{rest}
			} else {
				args = strings.Split(rest, argSeparator)
			}
		}

		if len(args) < spec.MinArgs || (spec.MaxArgs >= 0 && len(args) > spec.MaxArgs) {
			return nil, &ParseError{Expr: expr, Token: token, Err: ErrInvalidRuleArgs}
		}

		var state any
		if spec.Prepare != nil {
			s, err := spec.Prepare(args)
			if err != nil {
				return nil, &ParseError{Expr: expr, Token: token, Err: fmt.Errorf("%w: %v", ErrInvalidRuleArgs, err)}
			}
			state = s
		}

		rules = append(rules, Rule{
			Name:  name,
			Args:  args,
			Async: spec.Async,
			state: state,
			check: spec.Check,
		})
	}

	return rules, nil
}

var (
	defaultCatalogue     *Catalogue
	defaultCatalogueOnce sync.Once
)

// Default returns a shared catalogue holding only the built-in rules.
// Register custom rules on a catalogue from NewCatalogue instead.
func Default() *Catalogue {
	defaultCatalogueOnce.Do(func() {
		defaultCatalogue = NewCatalogue()
	})
	return defaultCatalogue
}

// Parse parses expr against the built-in rules.
func Parse(expr string) ([]Rule, error) {
	return Default().Parse(expr)
}
