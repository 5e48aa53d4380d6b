package enum

// ContentKind represents the kind of content item being voted on.
//
//go:generate go tool enumer -type=ContentKind -trimprefix=ContentKind
type ContentKind int

const (
	ContentKindQuestion ContentKind = iota
	ContentKindAnswer
)
