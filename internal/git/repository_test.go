package git

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryRepo(t *testing.T) (*gogit.Repository, plumbing.Hash) {
	t.Helper()

	fs := memfs.New()
	repo, err := gogit.Init(memory.NewStorage(), fs)
	require.NoError(t, err)

	f, err := fs.Create("README.md")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	hash, err := wt.Commit("Initial commit\n\nwith a body", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "John Doe",
			Email: "john@example.com",
			When:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)
	return repo, hash
}

func setRef(t *testing.T, repo *gogit.Repository, name plumbing.ReferenceName, hash plumbing.Hash) {
	t.Helper()
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(name, hash)))
}

func TestRepository_LoadBranches(t *testing.T) {
	repo, hash := newMemoryRepo(t)

	setRef(t, repo, plumbing.NewBranchReferenceName("feature/x"), hash)
	setRef(t, repo, plumbing.NewBranchReferenceName("local-tracking"), hash)
	setRef(t, repo, plumbing.NewRemoteReferenceName("origin", "master"), hash)
	setRef(t, repo, plumbing.NewRemoteReferenceName("origin", "feature/x"), hash)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewSymbolicReference(
		plumbing.NewRemoteHEADReferenceName("origin"),
		plumbing.NewRemoteReferenceName("origin", "master"),
	)))

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.Remotes["origin"] = &config.RemoteConfig{
		Name:  "origin",
		URLs:  []string{"https://example.com/repo.git"},
		Fetch: []config.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
	}
	cfg.Branches["master"] = &config.Branch{
		Name:   "master",
		Remote: "origin",
		Merge:  plumbing.NewBranchReferenceName("master"),
	}
	cfg.Branches["local-tracking"] = &config.Branch{
		Name:   "local-tracking",
		Remote: ".",
		Merge:  plumbing.NewBranchReferenceName("master"),
	}
	require.NoError(t, repo.SetConfig(cfg))

	branches, err := NewRepository(repo, nil).LoadBranches()
	require.NoError(t, err)
	assert.Equal(t, []string{"feature/x", "local-tracking", "master", "origin/feature/x", "origin/master"}, names(branches))

	master := branches[2]
	assert.Equal(t, Local, master.Kind())
	upstream, ok := master.Upstream()
	assert.True(t, ok)
	assert.Equal(t, "origin/master", upstream)
	remote, ok := master.Remote()
	assert.True(t, ok)
	assert.Equal(t, "origin", remote)

	tip := master.Tip()
	require.NotNil(t, tip)
	assert.Equal(t, hash.String(), tip.SHA)
	assert.Equal(t, "Initial commit", tip.Summary)
	assert.Equal(t, "John Doe", tip.AuthorName)
	assert.Equal(t, "john@example.com", tip.AuthorEmail)

	localTracking := branches[1]
	upstream, ok = localTracking.Upstream()
	assert.True(t, ok)
	assert.Equal(t, "master", upstream)
	_, ok = localTracking.Remote()
	assert.False(t, ok)

	_, ok = branches[0].Upstream()
	assert.False(t, ok)

	originFeature := branches[3]
	assert.Equal(t, Remote, originFeature.Kind())
	assert.Equal(t, "feature/x", originFeature.NameWithoutRemote())
}

func TestRepository_LoadBranches_RemoteHEAD(t *testing.T) {
	repo, hash := newMemoryRepo(t)

	setRef(t, repo, plumbing.NewRemoteReferenceName("origin", "feature/HEAD"), hash)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewSymbolicReference(
		plumbing.NewRemoteHEADReferenceName("origin"),
		plumbing.NewRemoteReferenceName("origin", "feature/HEAD"),
	)))

	branches, err := NewRepository(repo, nil).LoadBranches()
	require.NoError(t, err)
	assert.Equal(t, []string{"master", "origin/feature/HEAD"}, names(branches))
	assert.Equal(t, "feature/HEAD", branches[1].NameWithoutRemote())
}

func TestUpstreamOf(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Remotes["origin"] = &config.RemoteConfig{
		Name:  "origin",
		URLs:  []string{"https://example.com/repo.git"},
		Fetch: []config.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
	}
	cfg.Remotes["renamed"] = &config.RemoteConfig{
		Name:  "renamed",
		URLs:  []string{"https://example.com/fork.git"},
		Fetch: []config.RefSpec{"+refs/heads/*:refs/remotes/up/*"},
	}
	cfg.Remotes["narrow"] = &config.RemoteConfig{
		Name:  "narrow",
		URLs:  []string{"https://example.com/narrow.git"},
		Fetch: []config.RefSpec{"+refs/heads/release:refs/remotes/narrow/release"},
	}

	branch := func(name, remote, merge string) {
		cfg.Branches[name] = &config.Branch{Name: name, Remote: remote, Merge: plumbing.NewBranchReferenceName(merge)}
	}
	branch("main", "origin", "main")
	branch("nested", "origin", "feature/sub")
	branch("via-refspec", "renamed", "main")
	branch("no-remote-section", "gone", "main")
	branch("no-matching-refspec", "narrow", "main")
	branch("local-tracking", ".", "main")
	cfg.Branches["untracked-remote"] = &config.Branch{Name: "untracked-remote", Merge: plumbing.NewBranchReferenceName("x")}
	cfg.Branches["no-merge"] = &config.Branch{Name: "no-merge", Remote: "origin"}

	tests := []struct {
		branch   string
		expected string
	}{
		{"main", "origin/main"},
		{"nested", "origin/feature/sub"},
		{"via-refspec", "up/main"},
		{"no-remote-section", ""},
		{"no-matching-refspec", ""},
		{"local-tracking", "main"},
		{"untracked-remote", ""},
		{"no-merge", ""},
		{"missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			assert.Equal(t, tt.expected, upstreamOf(cfg, tt.branch))
		})
	}
}
