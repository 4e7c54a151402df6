package launcher

// Category tells the plugin what an item stands for.
type Category int

const (
	// CategoryKeyword is the top-level "Pass" item.
	CategoryKeyword Category = iota
	// CategoryEntry is one password store entry.
	CategoryEntry
	// CategoryEntryLine is one line of a decrypted entry.
	CategoryEntryLine
)

func (c Category) String() string {
	switch c {
	case CategoryKeyword:
		return "keyword"
	case CategoryEntry:
		return "entry"
	case CategoryEntryLine:
		return "entry-line"
	default:
		return "unknown"
	}
}

// KeywordTarget is the target of the keyword item.
const KeywordTarget = "pass"

// Target identifies what selecting an item acts on. Line is meaningful only
// for CategoryEntryLine and is the raw line index in the decrypted entry.
type Target struct {
	Entry string
	Line  int
}

// Item is one row the host displays.
type Item struct {
	Category  Category
	Label     string
	ShortDesc string
	Target    Target

	// Drillable items can be expanded into further suggestions.
	Drillable bool
}

// Match is how the host filters suggestions against user input.
type Match int

const (
	MatchFuzzy Match = iota
	MatchPrefix
)

// Sort is how the host orders filtered suggestions.
type Sort int

const (
	SortNone Sort = iota
	SortScoreDesc
)

// Event is a bit set of host notifications.
type Event uint

const (
	// EventConfigChanged means the settings file may have changed.
	EventConfigChanged Event = 1 << iota
	// EventActivated means the host window was brought up. Ignored.
	EventActivated
)
