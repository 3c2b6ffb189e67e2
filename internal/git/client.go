package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// GitClient runs a git subcommand and returns its stdout.
type GitClient interface {
	Run(args ...string) (string, error)
}

type execClient struct {
	dir string
}

// NewExecClient returns a GitClient that shells out to the git binary in dir.
// An empty dir means the current working directory.
func NewExecClient(dir string) GitClient {
	return &execClient{dir: dir}
}

func (c *execClient) Run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = c.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), msg, err)
	}
	return stdout.String(), nil
}
