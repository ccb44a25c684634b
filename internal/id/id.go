package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the namespace an ID belongs to.
type Kind int

const (
	Root Kind = iota
	Part
	Chapter
	Scene
	Character
	Location
	Item
	ProjectNote
)

var prefixes = map[Kind]string{
	Part:        "pt",
	Chapter:     "ch",
	Scene:       "sc",
	Character:   "cr",
	Location:    "lc",
	Item:        "it",
	ProjectNote: "pn",
}

var kindNames = map[Kind]string{
	Root:        "root",
	Part:        "part",
	Chapter:     "chapter",
	Scene:       "scene",
	Character:   "character",
	Location:    "location",
	Item:        "item",
	ProjectNote: "note",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Root branch numbers, in outline traversal order. Zero is reserved for the
// zero ID.
const (
	RootBook = iota + 1
	RootResearch
	RootPlanning
	RootCharacters
	RootLocations
	RootItems
	RootNotes
)

var rootNames = []string{"nv", "rs", "pl", "wrcr", "wrlc", "writ", "wrpn"}

// ID identifies one entity or root branch.
type ID struct {
	Kind Kind
	N    int
}

var (
	Book       = ID{Root, RootBook}
	Research   = ID{Root, RootResearch}
	Planning   = ID{Root, RootPlanning}
	Characters = ID{Root, RootCharacters}
	Locations  = ID{Root, RootLocations}
	Items      = ID{Root, RootItems}
	Notes      = ID{Root, RootNotes}
)

// Roots returns the root branches in traversal order.
func Roots() []ID {
	return []ID{Book, Research, Planning, Characters, Locations, Items, Notes}
}

func (i ID) IsZero() bool {
	return i == ID{}
}

func (i ID) String() string {
	if i.Kind == Root {
		if i.N >= 1 && i.N <= len(rootNames) {
			return rootNames[i.N-1]
		}
		return fmt.Sprintf("root%d", i.N)
	}
	p, ok := prefixes[i.Kind]
	if !ok {
		return fmt.Sprintf("?%d", i.N)
	}
	return p + strconv.Itoa(i.N)
}

// IsChapterLike reports whether the node is a chapter or a part.
func (i ID) IsChapterLike() bool {
	return i.Kind == Chapter || i.Kind == Part
}

// Chapter returns the Chapter entity key for a part or chapter node.
// Parts and chapters share one namespace.
func (i ID) Chapter() ID {
	if i.Kind == Part {
		return ID{Chapter, i.N}
	}
	return i
}

// AsPart returns the part node id for a chapter key.
func (i ID) AsPart() ID {
	if i.Kind == Chapter {
		return ID{Part, i.N}
	}
	return i
}

func (i ID) MarshalText() ([]byte, error) {
	if i.IsZero() {
		return []byte{}, nil
	}
	return []byte(i.String()), nil
}

func (i *ID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*i = ID{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Parse decodes the legacy prefixed string form. Only format collaborators
// need this.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	for n, name := range rootNames {
		if s == name {
			return ID{Root, n + 1}, nil
		}
	}
	if len(s) < 3 {
		return ID{}, fmt.Errorf("invalid id %q: too short", s)
	}
	k, err := parsePrefix(s[:2])
	if err != nil {
		return ID{}, fmt.Errorf("invalid id %q: %w", s, err)
	}
	n, err := strconv.Atoi(s[2:])
	if err != nil || n <= 0 {
		return ID{}, fmt.Errorf("invalid id %q: number must be a positive integer", s)
	}
	return ID{k, n}, nil
}

// KindOf returns the kind encoded in a string id.
func KindOf(s string) (Kind, error) {
	i, err := Parse(s)
	return i.Kind, err
}

func parsePrefix(prefix string) (Kind, error) {
	for k, p := range prefixes {
		if p == prefix {
			return k, nil
		}
	}
	return Root, fmt.Errorf("unknown entity prefix %q", prefix)
}

// namespace maps a kind to the counter it draws from.
func namespace(k Kind) Kind {
	if k == Part {
		return Chapter
	}
	return k
}

// Allocator hands out ids unique within each namespace.
type Allocator struct {
	last map[Kind]int
}

func NewAllocator() *Allocator {
	return &Allocator{last: make(map[Kind]int)}
}

// Next returns a fresh id of kind k.
func (a *Allocator) Next(k Kind) ID {
	if a.last == nil {
		a.last = make(map[Kind]int)
	}
	ns := namespace(k)
	a.last[ns]++
	return ID{k, a.last[ns]}
}

// Observe records an existing id so that Next never reissues it.
func (a *Allocator) Observe(i ID) {
	if i.Kind == Root {
		return
	}
	if a.last == nil {
		a.last = make(map[Kind]int)
	}
	ns := namespace(i.Kind)
	if i.N > a.last[ns] {
		a.last[ns] = i.N
	}
}
