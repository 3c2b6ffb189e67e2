package git

import "time"

// BranchKind tells local branches apart from remote-tracking ones.
type BranchKind int

const (
	// Local must stay ahead of Remote: listings sort local branches first.
	Local BranchKind = iota
	Remote
)

// Ordinal is the rank used when ordering branches by kind.
func (k BranchKind) Ordinal() int {
	switch k {
	case Local:
		return 0
	case Remote:
		return 1
	default:
		return int(k)
	}
}

func (k BranchKind) String() string {
	switch k {
	case Local:
		return "local"
	case Remote:
		return "remote"
	default:
		return "unknown"
	}
}

// Commit is the object a branch points to.
type Commit struct {
	SHA         string
	Summary     string
	AuthorName  string
	AuthorEmail string
	AuthoredAt  time.Time
}

// ShortSHA returns the abbreviated hash.
func (c *Commit) ShortSHA() string {
	if c == nil {
		return ""
	}
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// Branch is a branch as loaded from git. It is never modified after
// construction and may be read from several goroutines.
type Branch struct {
	name     string
	upstream string
	kind     BranchKind
	tip      *Commit
}

// NewBranch stores its arguments as given. An empty upstream means the branch
// tracks nothing.
func NewBranch(name, upstream string, tip *Commit, kind BranchKind) *Branch {
	return &Branch{
		name:     name,
		upstream: upstream,
		kind:     kind,
		tip:      tip,
	}
}

// Name is the short ref name, e.g. "master" or "origin/master".
func (b *Branch) Name() string {
	return b.name
}

// Upstream is the remote-prefixed name of the tracked branch, e.g. "origin/master".
func (b *Branch) Upstream() (string, bool) {
	return b.upstream, b.upstream != ""
}

func (b *Branch) Kind() BranchKind {
	return b.kind
}

func (b *Branch) Tip() *Commit {
	return b.tip
}

func (b *Branch) IsRemote() bool {
	return b.kind == Remote
}

// Remote returns the remote of the upstream: everything before its first "/".
// Remote names containing "/" are split at their first slash.
func (b *Branch) Remote() (string, bool) {
	if b.upstream == "" {
		return "", false
	}
	return remotePrefix(b.upstream)
}

// UpstreamWithoutRemote returns the upstream name with its remote prefix
// removed. The remainder may be empty.
func (b *Branch) UpstreamWithoutRemote() (string, bool) {
	if b.upstream == "" {
		return "", false
	}
	return StripRemotePrefix(b.upstream)
}

// NameWithoutRemote returns the branch name without the remote prefix. For a
// local branch this is Name. A remote branch whose name strips to nothing
// keeps its full name.
func (b *Branch) NameWithoutRemote() string {
	if b.kind == Local {
		return b.name
	}
	stripped, ok := StripRemotePrefix(b.name)
	if !ok || stripped == "" {
		return b.name
	}
	return stripped
}
