package directive

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/macropower/gcm/pkg/homepath"
	"github.com/macropower/gcm/pkg/profile"
	"github.com/macropower/gcm/pkg/rule"
	"github.com/macropower/gcm/pkg/store"
)

// Command is the Git invocation that precedes every directive.
const Command = "git config --global --add"

// ErrDanglingRule is wrapped by warnings for rules whose profile is unknown.
var ErrDanglingRule = errors.New("rule references unknown profile")

// Directive is a resolved rule.
type Directive struct {
	// Rule is the rule the directive was generated from.
	Rule rule.Rule
	// Scope is the home-relative directory, terminated by "/".
	Scope string
	// IncludePath is the home-relative path of the profile's fragment.
	IncludePath string
}

// String returns the shell command that applies the directive.
func (d Directive) String() string {
	return fmt.Sprintf("%s includeIf.\"gitdir:%s\".path ~/%s", Command, d.Scope, d.IncludePath)
}

// Warning is a rule that could not be resolved.
type Warning struct {
	Err  error
	Rule rule.Rule
}

func (w Warning) Error() string {
	if errors.Is(w.Err, ErrDanglingRule) {
		return "rule found for unknown profile: " + w.Rule.ProfileName
	}

	return fmt.Sprintf("rule for profile %q and path %q skipped: %v", w.Rule.ProfileName, w.Rule.DirectoryPath, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

// Result is the outcome of [Generator.Apply].
type Result struct {
	Fragments  []Fragment
	Directives []Directive
	Warnings   []Warning
}

// WrittenFiles returns the fragment paths in profile order.
func (r *Result) WrittenFiles() []string {
	files := make([]string, 0, len(r.Fragments))
	for _, f := range r.Fragments {
		files = append(files, f.Path)
	}

	return files
}

// Commands returns the directive strings in rule order.
func (r *Result) Commands() []string {
	cmds := make([]string, 0, len(r.Directives))
	for _, d := range r.Directives {
		cmds = append(cmds, d.String())
	}

	return cmds
}

// GeneratorOpt configures a [Generator].
type GeneratorOpt func(*Generator)

// WithDryRun resolves directives and compares fragments without writing
// anything to disk.
func WithDryRun() GeneratorOpt {
	return func(g *Generator) {
		g.dryRun = true
	}
}

// Generator writes credential fragments and resolves rules into directives.
type Generator struct {
	homeDir     string
	profilesDir string
	dryRun      bool
}

// NewGenerator creates a [Generator] for the given home and fragment directories.
func NewGenerator(homeDir, profilesDir string, opts ...GeneratorOpt) *Generator {
	g := &Generator{
		homeDir:     homeDir,
		profilesDir: profilesDir,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Apply is shorthand for NewGenerator(homeDir, profilesDir).Apply(s).
func Apply(s *store.Store, homeDir, profilesDir string) (*Result, error) {
	return NewGenerator(homeDir, profilesDir).Apply(s)
}

// Apply writes one fragment per profile and resolves every rule in order.
//
// An error is returned only when a fragment cannot be written; fragments
// written before the failure are left in place. Unresolvable rules are
// reported as [Result.Warnings].
func (g *Generator) Apply(s *store.Store) (*Result, error) {
	if !g.dryRun {
		err := os.MkdirAll(g.profilesDir, 0o700)
		if err != nil {
			return nil, fmt.Errorf("create profiles directory: %w", err)
		}
	}

	res := &Result{
		Fragments:  []Fragment{},
		Directives: []Directive{},
		Warnings:   []Warning{},
	}

	for _, p := range s.Profiles() {
		f, err := g.writeFragment(p)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Name, err)
		}

		res.Fragments = append(res.Fragments, f)
	}

	for _, r := range s.Rules() {
		p, ok := s.Profile(r.ProfileName)
		if !ok {
			slog.Debug("skip rule for unknown profile",
				slog.String("profile", r.ProfileName),
				slog.String("dir", r.DirectoryPath),
			)

			res.Warnings = append(res.Warnings, Warning{Rule: r, Err: ErrDanglingRule})

			continue
		}

		d, err := g.resolve(r, p)
		if err != nil {
			res.Warnings = append(res.Warnings, Warning{Rule: r, Err: err})

			continue
		}

		res.Directives = append(res.Directives, d)
	}

	return res, nil
}

func (g *Generator) writeFragment(p profile.Profile) (Fragment, error) {
	fragPath := filepath.Join(g.profilesDir, p.FileName())
	content := RenderFragment(p)

	status, diff, err := compareFragment(fragPath, content)
	if err != nil {
		return Fragment{}, err
	}

	f := Fragment{
		Path:    fragPath,
		Profile: p.Name,
		Status:  status,
		Diff:    diff,
	}

	if g.dryRun {
		return f, nil
	}

	err = os.WriteFile(fragPath, content, 0o600)
	if err != nil {
		return Fragment{}, fmt.Errorf("write fragment: %w", err)
	}

	slog.Debug("wrote fragment",
		slog.String("path", fragPath),
		slog.String("status", string(status)),
	)

	return f, nil
}

func (g *Generator) resolve(r rule.Rule, p profile.Profile) (Directive, error) {
	scope, err := homepath.Normalize(r.DirectoryPath, g.homeDir)
	if err != nil {
		return Directive{}, fmt.Errorf("directory: %w", err)
	}

	profilesDir, err := homepath.Rel(g.profilesDir, g.homeDir)
	if err != nil {
		return Directive{}, fmt.Errorf("profiles directory: %w", err)
	}

	return Directive{
		Rule:        r,
		Scope:       scope + "/",
		IncludePath: path.Join(profilesDir, p.FileName()),
	}, nil
}
