package git

import "regexp"

var (
	// lazy: matches up to the first slash only
	remotePrefixPattern = regexp.MustCompile(`^(.*?)/.*`)
	remoteRestPattern   = regexp.MustCompile(`^.*?/(.*)`)
)

// StripRemotePrefix removes a leading "<remote>/" from ref and returns the
// rest. It reports false when ref has no slash at all.
func StripRemotePrefix(ref string) (string, bool) {
	m := remoteRestPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func remotePrefix(ref string) (string, bool) {
	m := remotePrefixPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", false
	}
	return m[1], true
}
