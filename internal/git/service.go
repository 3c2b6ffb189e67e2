package git

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// BranchLoader lists every local and remote-tracking branch, local first.
type BranchLoader interface {
	LoadBranches() ([]*Branch, error)
}

type BranchService interface {
	BranchLoader
	GetCurrentBranchName() (string, error)
	GetBranchByName(branchName string) (*Branch, error)
	DeleteBranch(branch *Branch) error
	IsProtectedBranch(branch *Branch, patterns []string) bool
}

type DefaultBranchService struct {
	client     GitClient
	RemoteName string
	logger     *slog.Logger
}

// NewBranchService runs git in dir.
func NewBranchService(dir, remoteName string, logger *slog.Logger) BranchService {
	return NewBranchServiceWithClient(NewExecClient(dir), remoteName, logger)
}

func NewBranchServiceWithClient(client GitClient, remoteName string, logger *slog.Logger) BranchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultBranchService{
		client:     client,
		RemoteName: remoteName,
		logger:     logger,
	}
}

func (s *DefaultBranchService) GetCurrentBranchName() (string, error) {
	output, err := s.client.Run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

func (s *DefaultBranchService) LoadBranches() ([]*Branch, error) {
	output, err := s.client.Run("for-each-ref", "--format="+forEachRefFormat, "refs/heads", "refs/remotes")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	branches, err := ParseBranches(output)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded branches", "count", len(branches))
	return branches, nil
}

func (s *DefaultBranchService) GetBranchByName(branchName string) (*Branch, error) {
	branches, err := s.LoadBranches()
	if err != nil {
		return nil, err
	}
	return FindBranch(branches, branchName)
}

func (s *DefaultBranchService) DeleteBranch(branch *Branch) error {
	if !branch.IsRemote() {
		s.logger.Debug("deleting local branch", "branch", branch.Name())
		_, err := s.client.Run("branch", "-D", branch.Name())
		return err
	}

	remote, ok := remotePrefix(branch.Name())
	if !ok || remote == "" {
		remote = s.remoteName()
	}
	name := branch.NameWithoutRemote()
	s.logger.Debug("deleting remote branch", "remote", remote, "branch", name)
	_, err := s.client.Run("push", remote, "--delete", name)
	return err
}

func (s *DefaultBranchService) IsProtectedBranch(branch *Branch, patterns []string) bool {
	return MatchesAny(branch.NameWithoutRemote(), patterns)
}

func (s *DefaultBranchService) remoteName() string {
	if s.RemoteName != "" {
		return s.RemoteName
	}
	return "origin" // Fallback to origin when no remote is configured
}

// FindBranch looks a branch up by its full short name.
func FindBranch(branches []*Branch, branchName string) (*Branch, error) {
	for _, b := range branches {
		if b.Name() == branchName {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrBranchNotFound, branchName)
}

// MatchesAny reports whether name matches one of the patterns. Invalid
// patterns are skipped.
func MatchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := regexp.MatchString(pattern, name)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
