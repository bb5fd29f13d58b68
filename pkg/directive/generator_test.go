package directive_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/gcm/pkg/directive"
	"github.com/macropower/gcm/pkg/homepath"
	"github.com/macropower/gcm/pkg/profile"
	"github.com/macropower/gcm/pkg/rule"
	"github.com/macropower/gcm/pkg/store"
)

var (
	work   = profile.Profile{Name: "work", UserName: "alice", UserEmail: "a@x.com"}
	school = profile.Profile{Name: "school", UserName: "Alice S", UserEmail: "alice@uni.edu"}
)

func setup(t *testing.T) (string, string) {
	t.Helper()

	home := t.TempDir()

	return home, filepath.Join(home, ".git-config-manager", "profiles")
}

func mustStore(t *testing.T, profiles []profile.Profile, rules []rule.Rule) *store.Store {
	t.Helper()

	s, err := store.New(profiles, rules)
	require.NoError(t, err)

	return s
}

func TestApply_SingleRule(t *testing.T) {
	t.Parallel()

	home, profilesDir := setup(t)
	s := mustStore(t,
		[]profile.Profile{work},
		[]rule.Rule{{ProfileName: "work", DirectoryPath: "~/work/proj"}},
	)

	res, err := directive.Apply(s, home, profilesDir)
	require.NoError(t, err)

	fragPath := filepath.Join(profilesDir, "work.gitconfig")
	assert.Equal(t, []string{fragPath}, res.WrittenFiles())

	content, err := os.ReadFile(fragPath)
	require.NoError(t, err)
	assert.Equal(t, "[user]\n\tname = alice\n\temail = a@x.com\n", string(content))

	assert.Equal(t, []string{
		`git config --global --add includeIf."gitdir:work/proj/".path ~/.git-config-manager/profiles/work.gitconfig`,
	}, res.Commands())
	assert.Empty(t, res.Warnings)

	require.Len(t, res.Directives, 1)
	assert.Equal(t, "work/proj/", res.Directives[0].Scope)
	assert.Equal(t, ".git-config-manager/profiles/work.gitconfig", res.Directives[0].IncludePath)
}

func TestApply_DanglingRule(t *testing.T) {
	t.Parallel()

	home, profilesDir := setup(t)
	s := mustStore(t,
		[]profile.Profile{work, school},
		[]rule.Rule{
			{ProfileName: "school", DirectoryPath: "~/uni"},
			{ProfileName: "ghost", DirectoryPath: "~/ghost"},
			{ProfileName: "work", DirectoryPath: "~/work"},
		},
	)

	res, err := directive.Apply(s, home, profilesDir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`git config --global --add includeIf."gitdir:uni/".path ~/.git-config-manager/profiles/school.gitconfig`,
		`git config --global --add includeIf."gitdir:work/".path ~/.git-config-manager/profiles/work.gitconfig`,
	}, res.Commands())

	require.Len(t, res.Warnings, 1)
	require.ErrorIs(t, res.Warnings[0], directive.ErrDanglingRule)
	assert.Equal(t, "ghost", res.Warnings[0].Rule.ProfileName)
	assert.Equal(t, "rule found for unknown profile: ghost", res.Warnings[0].Error())
}

func TestApply_OnlyDanglingRule(t *testing.T) {
	t.Parallel()

	home, profilesDir := setup(t)
	s := mustStore(t, nil, []rule.Rule{{ProfileName: "ghost", DirectoryPath: "~/ghost"}})

	res, err := directive.Apply(s, home, profilesDir)
	require.NoError(t, err)

	assert.Empty(t, res.Directives)
	assert.Empty(t, res.Fragments)
	require.Len(t, res.Warnings, 1)

	info, err := os.Stat(profilesDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestApply_RuleOrder(t *testing.T) {
	t.Parallel()

	home, profilesDir := setup(t)
	rules := []rule.Rule{
		{ProfileName: "work", DirectoryPath: "~/z"},
		{ProfileName: "school", DirectoryPath: "~/a"},
		{ProfileName: "work", DirectoryPath: "~/m"},
	}
	s := mustStore(t, []profile.Profile{work, school}, rules)

	res, err := directive.Apply(s, home, profilesDir)
	require.NoError(t, err)
	require.Len(t, res.Directives, 3)

	for i, d := range res.Directives {
		assert.Equal(t, rules[i], d.Rule)
	}

	again, err := directive.Apply(s, home, profilesDir)
	require.NoError(t, err)
	assert.Equal(t, res.Commands(), again.Commands())
}

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()

	home, profilesDir := setup(t)
	s := mustStore(t, []profile.Profile{work, school}, nil)

	first, err := directive.Apply(s, home, profilesDir)
	require.NoError(t, err)

	for _, f := range first.Fragments {
		assert.Equal(t, directive.FragmentCreated, f.Status, f.Profile)
	}

	before, err := os.ReadFile(filepath.Join(profilesDir, "school.gitconfig"))
	require.NoError(t, err)

	second, err := directive.Apply(s, home, profilesDir)
	require.NoError(t, err)

	for _, f := range second.Fragments {
		assert.Equal(t, directive.FragmentUnchanged, f.Status, f.Profile)
		assert.Empty(t, f.Diff)
	}

	after, err := os.ReadFile(filepath.Join(profilesDir, "school.gitconfig"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApply_UpdatedFragment(t *testing.T) {
	t.Parallel()

	home, profilesDir := setup(t)
	require.NoError(t, os.MkdirAll(profilesDir, 0o700))

	fragPath := filepath.Join(profilesDir, "work.gitconfig")
	require.NoError(t, os.WriteFile(fragPath, []byte("[user]\n\tname = old\n\temail = a@x.com\n"), 0o600))

	s := mustStore(t, []profile.Profile{work}, nil)

	res, err := directive.Apply(s, home, profilesDir)
	require.NoError(t, err)
	require.Len(t, res.Fragments, 1)

	f := res.Fragments[0]
	assert.Equal(t, directive.FragmentUpdated, f.Status)
	assert.Contains(t, f.Diff, "-\tname = old")
	assert.Contains(t, f.Diff, "+\tname = alice")

	content, err := os.ReadFile(fragPath)
	require.NoError(t, err)
	assert.Equal(t, string(directive.RenderFragment(work)), string(content))
}

func TestApply_DryRun(t *testing.T) {
	t.Parallel()

	home, profilesDir := setup(t)
	s := mustStore(t,
		[]profile.Profile{work},
		[]rule.Rule{{ProfileName: "work", DirectoryPath: "~/work"}},
	)

	res, err := directive.NewGenerator(home, profilesDir, directive.WithDryRun()).Apply(s)
	require.NoError(t, err)

	assert.Len(t, res.Commands(), 1)
	require.Len(t, res.Fragments, 1)
	assert.Equal(t, directive.FragmentCreated, res.Fragments[0].Status)

	_, err = os.Stat(profilesDir)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestApply_PathForms(t *testing.T) {
	t.Parallel()

	home, profilesDir := setup(t)

	tcs := map[string]struct {
		dir       string
		wantScope string
	}{
		"home marker":        {dir: "~/work", wantScope: "work/"},
		"trailing slash":     {dir: "~/work/", wantScope: "work/"},
		"absolute":           {dir: filepath.Join(home, "src", "oss"), wantScope: "src/oss/"},
		"home relative":      {dir: "clients/acme", wantScope: "clients/acme/"},
		"outside home":       {dir: filepath.Join(filepath.Dir(home), "shared"), wantScope: "../shared/"},
		"dot segments":       {dir: "~/a/../b", wantScope: "b/"},
		"marker not leading": {dir: "x/~/y", wantScope: "x/~/y/"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := mustStore(t, []profile.Profile{work}, []rule.Rule{{ProfileName: "work", DirectoryPath: tc.dir}})

			res, err := directive.NewGenerator(home, profilesDir, directive.WithDryRun()).Apply(s)
			require.NoError(t, err)
			require.Len(t, res.Directives, 1)
			assert.Equal(t, tc.wantScope, res.Directives[0].Scope)
		})
	}
}

func TestApply_WriteFailure(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	blocker := filepath.Join(home, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	s := mustStore(t, []profile.Profile{work}, nil)

	_, err := directive.Apply(s, home, filepath.Join(blocker, "profiles"))
	require.Error(t, err)
}

func TestWarning_Error(t *testing.T) {
	t.Parallel()

	w := directive.Warning{
		Rule: rule.Rule{ProfileName: "work", DirectoryPath: "D:/x"},
		Err:  homepath.ErrInvalidPath,
	}

	require.ErrorIs(t, w, homepath.ErrInvalidPath)
	assert.Contains(t, w.Error(), `rule for profile "work" and path "D:/x" skipped`)
}

func TestRenderFragment(t *testing.T) {
	t.Parallel()

	got := directive.RenderFragment(profile.Profile{Name: "x", UserName: "Jane Doe", UserEmail: "jane@doe.dev"})
	assert.Equal(t, "[user]\n\tname = Jane Doe\n\temail = jane@doe.dev\n", string(got))
}
