package mocks

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DeleteRemoteBranchCall tracks calls to `git push <remote> --delete` for testing
type DeleteRemoteBranchCall struct {
	Remote     string
	BranchName string
}

// MockedGitClient answers the git commands the branch service issues from
// an in-memory set of refs.
type MockedGitClient struct {
	currentBranch           string
	refs                    map[string]RefData
	commandFailures         map[string]error // subcommand -> error to return
	calls                   []string
	deletedLocalBranches    []string
	deleteRemoteBranchCalls []DeleteRemoteBranchCall
}

type RefData struct {
	// RefName is the full ref, e.g. refs/heads/main or refs/remotes/origin/main.
	RefName     string
	Upstream    string
	CommitSHA   string
	AuthorName  string
	AuthorEmail string
	CommitDate  time.Time
	Subject     string
}

func NewMockedGitClient() *MockedGitClient {
	now := time.Now()
	m := &MockedGitClient{
		currentBranch:   "main",
		refs:            map[string]RefData{},
		commandFailures: map[string]error{},
	}
	m.AddRef(RefData{
		RefName:     "refs/heads/main",
		Upstream:    "origin/main",
		CommitSHA:   "abc1234def5678",
		AuthorName:  "John Doe",
		AuthorEmail: "john@example.com",
		CommitDate:  now,
		Subject:     "Initial commit",
	})
	m.AddRef(RefData{
		RefName:     "refs/heads/feature/test",
		CommitSHA:   "def4567abc8901",
		AuthorName:  "Jane Smith",
		AuthorEmail: "jane@example.com",
		CommitDate:  now.Add(-24 * time.Hour),
		Subject:     "Add feature",
	})
	m.AddRef(RefData{
		RefName:     "refs/remotes/origin/main",
		CommitSHA:   "abc1234def5678",
		AuthorName:  "John Doe",
		AuthorEmail: "john@example.com",
		CommitDate:  now,
		Subject:     "Initial commit",
	})
	return m
}

// Configuration methods for test setup
func (m *MockedGitClient) SetCurrentBranch(branch string) {
	m.currentBranch = branch
}

func (m *MockedGitClient) ClearRefs() {
	m.refs = make(map[string]RefData)
}

func (m *MockedGitClient) AddRef(data RefData) {
	m.refs[data.RefName] = data
}

// SetCommandFailure makes every invocation of the git subcommand fail.
func (m *MockedGitClient) SetCommandFailure(subcommand string, err error) {
	m.commandFailures[subcommand] = err
}

func (m *MockedGitClient) Calls() []string {
	return m.calls
}

func (m *MockedGitClient) DeletedLocalBranches() []string {
	return m.deletedLocalBranches
}

func (m *MockedGitClient) GetDeleteRemoteBranchCalls() []DeleteRemoteBranchCall {
	return m.deleteRemoteBranchCalls
}

// GitClient interface implementation
func (m *MockedGitClient) Run(args ...string) (string, error) {
	m.calls = append(m.calls, strings.Join(args, " "))
	if len(args) == 0 {
		return "", fmt.Errorf("no git subcommand")
	}
	if err, exists := m.commandFailures[args[0]]; exists {
		return "", err
	}

	switch args[0] {
	case "rev-parse":
		return m.currentBranch + "\n", nil
	case "for-each-ref":
		return m.forEachRefOutput(), nil
	case "branch":
		return "", m.deleteLocalBranch(args)
	case "push":
		return "", m.deleteRemoteBranch(args)
	default:
		return "", nil
	}
}

func (m *MockedGitClient) forEachRefOutput() string {
	names := make([]string, 0, len(m.refs))
	for name := range m.refs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		data := m.refs[name]
		fields := []string{
			data.RefName,
			data.Upstream,
			data.CommitSHA,
			data.AuthorName,
			"<" + data.AuthorEmail + ">",
			data.CommitDate.Format("2006-01-02 15:04:05 -0700"),
			data.Subject,
		}
		b.WriteString(strings.Join(fields, "\x00"))
		b.WriteString("\n")
	}
	return b.String()
}

// branch -D <name>
func (m *MockedGitClient) deleteLocalBranch(args []string) error {
	if len(args) != 3 || args[1] != "-D" {
		return fmt.Errorf("unsupported branch invocation: %v", args)
	}
	name := args[2]
	if name == m.currentBranch {
		return fmt.Errorf("cannot delete current branch %s", name)
	}
	ref := "refs/heads/" + name
	if _, ok := m.refs[ref]; !ok {
		return fmt.Errorf("branch '%s' not found", name)
	}
	delete(m.refs, ref)
	m.deletedLocalBranches = append(m.deletedLocalBranches, name)
	return nil
}

// push <remote> --delete <name>
func (m *MockedGitClient) deleteRemoteBranch(args []string) error {
	if len(args) != 4 || args[2] != "--delete" {
		return fmt.Errorf("unsupported push invocation: %v", args)
	}
	remote, name := args[1], args[3]
	m.deleteRemoteBranchCalls = append(m.deleteRemoteBranchCalls, DeleteRemoteBranchCall{
		Remote:     remote,
		BranchName: name,
	})
	delete(m.refs, "refs/remotes/"+remote+"/"+name)
	return nil
}
