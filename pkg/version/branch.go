package version

// HeadsPrefix is the fully-qualified prefix for branch refs.
const HeadsPrefix = "refs/heads/"

// BranchName derives the head branch name from a prefix and a resolved
// version. The prefix is opaque and may be empty.
func BranchName(prefix, version string) string {
	return prefix + version
}

// BranchRef returns the fully-qualified ref string for a branch name.
func BranchRef(branch string) string {
	return HeadsPrefix + branch
}
