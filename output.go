package main

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abey/branch-ref/internal/git"
)

type tipView struct {
	SHA        string    `yaml:"sha"`
	Summary    string    `yaml:"summary,omitempty"`
	Author     string    `yaml:"author,omitempty"`
	Email      string    `yaml:"email,omitempty"`
	AuthoredAt time.Time `yaml:"authoredAt,omitempty"`
}

type branchView struct {
	Name              string `yaml:"name"`
	Kind              string `yaml:"kind"`
	NameWithoutRemote string `yaml:"nameWithoutRemote"`
	Upstream          string `yaml:"upstream,omitempty"`
	Remote            string `yaml:"remote,omitempty"`
	// pointer so an empty remainder still shows up
	UpstreamWithoutRemote *string  `yaml:"upstreamWithoutRemote,omitempty"`
	Tip                   *tipView `yaml:"tip,omitempty"`
}

func newBranchView(b *git.Branch) branchView {
	v := branchView{
		Name:              b.Name(),
		Kind:              b.Kind().String(),
		NameWithoutRemote: b.NameWithoutRemote(),
	}
	if upstream, ok := b.Upstream(); ok {
		v.Upstream = upstream
	}
	if remote, ok := b.Remote(); ok {
		v.Remote = remote
	}
	if rest, ok := b.UpstreamWithoutRemote(); ok {
		v.UpstreamWithoutRemote = &rest
	}
	if tip := b.Tip(); tip != nil {
		v.Tip = &tipView{
			SHA:        tip.SHA,
			Summary:    tip.Summary,
			Author:     tip.AuthorName,
			Email:      tip.AuthorEmail,
			AuthoredAt: tip.AuthoredAt,
		}
	}
	return v
}

func writeYAML(w io.Writer, value any) error {
	if branches, ok := value.([]*git.Branch); ok {
		views := make([]branchView, 0, len(branches))
		for _, b := range branches {
			views = append(views, newBranchView(b))
		}
		value = views
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// writeBranchList prints one line per branch:
//
//	- <name> (<kind>, <name without remote>) -> <upstream> (remote <remote>, branch <rest>) <sha> <summary>
func writeBranchList(w io.Writer, branches []*git.Branch) {
	for _, b := range branches {
		fmt.Fprintf(w, "  - %s (%s, %s)", b.Name(), b.Kind(), b.NameWithoutRemote())
		if upstream, ok := b.Upstream(); ok {
			fmt.Fprintf(w, " -> %s", upstream)
			if remote, ok := b.Remote(); ok {
				rest, _ := b.UpstreamWithoutRemote()
				if rest == "" {
					rest = `""`
				}
				fmt.Fprintf(w, " (remote %s, branch %s)", remote, rest)
			}
		}
		if tip := b.Tip(); tip != nil {
			fmt.Fprintf(w, " %s %s", tip.ShortSHA(), tip.Summary)
		}
		fmt.Fprintln(w)
	}
}

func writeBranchDetails(w io.Writer, b *git.Branch) {
	absent := func(s string, ok bool) string {
		if !ok {
			return "(none)"
		}
		return fmt.Sprintf("%q", s)
	}

	upstream, upstreamOK := b.Upstream()
	remote, remoteOK := b.Remote()
	rest, restOK := b.UpstreamWithoutRemote()

	fmt.Fprintf(w, "Name:                    %s\n", b.Name())
	fmt.Fprintf(w, "Kind:                    %s\n", b.Kind())
	fmt.Fprintf(w, "Name without remote:     %s\n", b.NameWithoutRemote())
	fmt.Fprintf(w, "Upstream:                %s\n", absent(upstream, upstreamOK))
	fmt.Fprintf(w, "Remote:                  %s\n", absent(remote, remoteOK))
	fmt.Fprintf(w, "Upstream without remote: %s\n", absent(rest, restOK))
	if tip := b.Tip(); tip != nil {
		fmt.Fprintf(w, "Tip:                     %s %s\n", tip.ShortSHA(), tip.Summary)
		if tip.AuthorName != "" {
			fmt.Fprintf(w, "Author:                  %s <%s>\n", tip.AuthorName, tip.AuthorEmail)
		}
	}
}
