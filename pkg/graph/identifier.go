package graph

// IdentifierSeparator joins the parts of a composite identifier.
const IdentifierSeparator = "/"

// JoinIdentifier returns base and suffix joined by [IdentifierSeparator].
// Neither part is escaped; "a/b" joined with "c" is "a/b/c".
func JoinIdentifier(base, suffix string) string {
	return base + IdentifierSeparator + suffix
}
