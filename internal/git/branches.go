package git

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrBranchNotFound   = errors.New("branch not found")
	ErrProtectedBranch  = errors.New("branch is protected")
	ErrUnexpectedFormat = errors.New("unexpected git output")
)

const (
	localRefPrefix  = "refs/heads/"
	remoteRefPrefix = "refs/remotes/"

	commitDateLayout = "2006-01-02 15:04:05 -0700"
)

// forEachRefFormat separates fields with NUL so subjects may contain anything
// but a newline.
var forEachRefFormat = strings.Join([]string{
	"%(refname)",
	"%(upstream:short)",
	"%(objectname)",
	"%(authorname)",
	"%(authoremail)",
	"%(authordate:iso8601)",
	"%(subject)",
}, "%00")

const forEachRefFields = 7

// parseBranchLine turns one line of `git for-each-ref --format=forEachRefFormat`
// output into a Branch. Symbolic remote HEAD refs and refs outside
// refs/heads and refs/remotes yield nil.
func parseBranchLine(line string) (*Branch, error) {
	parts := strings.Split(line, "\x00")
	if len(parts) != forEachRefFields {
		return nil, fmt.Errorf("%w: expected %d fields, got %d in %q", ErrUnexpectedFormat, forEachRefFields, len(parts), line)
	}

	refName := parts[0]
	var (
		name string
		kind BranchKind
	)
	switch {
	case strings.HasPrefix(refName, localRefPrefix):
		name = strings.TrimPrefix(refName, localRefPrefix)
		kind = Local
	case strings.HasPrefix(refName, remoteRefPrefix):
		name = strings.TrimPrefix(refName, remoteRefPrefix)
		if isRemoteHEAD(name) {
			return nil, nil
		}
		kind = Remote
	default:
		return nil, nil
	}

	authoredAt, err := time.Parse(commitDateLayout, strings.TrimSpace(parts[5]))
	if err != nil {
		authoredAt = time.Time{}
	}

	tip := &Commit{
		SHA:         strings.TrimSpace(parts[2]),
		AuthorName:  strings.TrimSpace(parts[3]),
		AuthorEmail: strings.Trim(strings.TrimSpace(parts[4]), "<>"),
		AuthoredAt:  authoredAt,
		Summary:     parts[6],
	}
	return NewBranch(name, strings.TrimSpace(parts[1]), tip, kind), nil
}

// isRemoteHEAD reports whether name is "<remote>/HEAD", the symbolic ref git
// keeps per remote. Branches that merely end in "/HEAD" are kept.
func isRemoteHEAD(name string) bool {
	return strings.HasSuffix(name, "/HEAD") && strings.Count(name, "/") == 1
}

// ParseBranches parses the complete for-each-ref listing and returns the
// branches sorted local first.
func ParseBranches(output string) ([]*Branch, error) {
	var branches []*Branch
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		branch, err := parseBranchLine(line)
		if err != nil {
			return nil, err
		}
		if branch != nil {
			branches = append(branches, branch)
		}
	}
	SortBranches(branches)
	return branches, nil
}
