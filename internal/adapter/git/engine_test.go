package git_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aireview/ai-pr-reviewer/internal/adapter/git"
)

func initRepoWithCommit(t *testing.T) (string, string) {
	t.Helper()
	tmp := t.TempDir()

	repo, err := goGit.PlainInit(tmp, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	path := filepath.Join(tmp, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	_, err = worktree.Add("main.go")
	require.NoError(t, err)

	hash, err := worktree.Commit("initial", &goGit.CommitOptions{
		Author: &object.Signature{
			Name:  "Tester",
			Email: "tester@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return tmp, hash.String()
}

func TestHeadCommit(t *testing.T) {
	tmp, want := initRepoWithCommit(t)

	got, err := git.NewEngine(tmp).HeadCommit()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHeadCommitOutsideRepository(t *testing.T) {
	_, err := git.NewEngine(t.TempDir()).HeadCommit()
	require.Error(t, err)
}

func TestOriginSlug(t *testing.T) {
	tmp, _ := initRepoWithCommit(t)

	repo, err := goGit.PlainOpen(tmp)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/someorg/somerepo.git"},
	})
	require.NoError(t, err)

	slug, err := git.NewEngine(tmp).OriginSlug()
	require.NoError(t, err)
	assert.Equal(t, "someorg/somerepo", slug)
}

func TestOriginSlugMissingRemote(t *testing.T) {
	tmp, _ := initRepoWithCommit(t)

	_, err := git.NewEngine(tmp).OriginSlug()
	require.Error(t, err)
}

func TestParseRemoteSlug(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "https", url: "https://github.com/owner/repo.git", want: "owner/repo"},
		{name: "https no suffix", url: "https://github.com/owner/repo", want: "owner/repo"},
		{name: "ssh", url: "git@github.com:owner/repo.git", want: "owner/repo"},
		{name: "trailing slash", url: "https://github.com/owner/repo/", want: "owner/repo"},
		{name: "enterprise host", url: "https://ghe.example.com/team/service.git", want: "team/service"},
		{name: "garbage", url: "not-a-url", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := git.ParseRemoteSlug(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
