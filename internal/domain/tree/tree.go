// Package tree turns the flat member list into the nested structure consumed
// by the hierarchical tree renderer.
//
// Structure comes only from parent links. Members are ordered by generation
// then birth order before emission, so sibling order never depends on the
// order the store returned them in. The first parentless member in that order
// is the root; other roots and anything that cannot be reached from the root
// are left out. Emission is iterative and tracks visited ids, so duplicate ids
// or self-referencing records cannot make it loop.
package tree

import (
	"sort"
	"time"

	"giapha-go/internal/domain/member"
)

type Node struct {
	Name       string     `json:"name"`
	Attributes Attributes `json:"attributes"`
	Children   []*Node    `json:"children"`
}

type Attributes struct {
	ID              string           `json:"id"`
	Gender          member.Gender    `json:"gender"`
	Generation      int              `json:"generation"`
	BirthOrder      int              `json:"birth_order"`
	BirthYear       *int             `json:"birth_year"`
	DeathYear       *int             `json:"death_year"`
	IsDeceased      bool             `json:"is_deceased"`
	Avatar          string           `json:"avatar"`
	AnniversaryDate string           `json:"anniversary_date"`
	SpouseID        *string          `json:"spouse_id"`
	Spouse          *SpouseSnapshot  `json:"spouse"`
	Spouses         []SpouseSnapshot `json:"spouses"`
}

// SpouseSnapshot is a copy of the display fields of a linked spouse.
type SpouseSnapshot struct {
	ID         string        `json:"id"`
	FullName   string        `json:"full_name"`
	Gender     member.Gender `json:"gender"`
	BirthYear  *int          `json:"birth_year"`
	DeathYear  *int          `json:"death_year"`
	IsDeceased bool          `json:"is_deceased"`
	Avatar     string        `json:"avatar"`
}

type index struct {
	sorted   []member.Member
	byID     map[string]int
	children map[string][]int
}

func newIndex(members []member.Member) *index {
	sorted := make([]member.Member, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Generation != sorted[j].Generation {
			return sorted[i].Generation < sorted[j].Generation
		}
		return sorted[i].BirthOrder < sorted[j].BirthOrder
	})

	idx := &index{
		sorted:   sorted,
		byID:     make(map[string]int, len(sorted)),
		children: make(map[string][]int),
	}
	for i, m := range sorted {
		if _, ok := idx.byID[m.ID]; !ok {
			idx.byID[m.ID] = i
		}
		if !m.IsRoot() {
			idx.children[*m.ParentID] = append(idx.children[*m.ParentID], i)
		}
	}
	return idx
}

func (idx *index) root() (int, bool) {
	for i, m := range idx.sorted {
		if m.IsRoot() {
			return i, true
		}
	}
	return 0, false
}

// Build returns the tree rooted at the first parentless member, or nil when
// the input is empty or has no root. The input slice is not modified.
func Build(members []member.Member) *Node {
	idx := newIndex(members)
	rootPos, ok := idx.root()
	if !ok {
		return nil
	}
	root, _ := idx.emit(rootPos)
	return root
}

// BuildFrom returns the subtree rooted at rootID, or nil when the id is unknown.
func BuildFrom(members []member.Member, rootID string) *Node {
	idx := newIndex(members)
	pos, ok := idx.byID[rootID]
	if !ok {
		return nil
	}
	root, _ := idx.emit(pos)
	return root
}

// Unattached lists the ids Build leaves out of the tree: extra roots, members
// with dangling parents and anything hanging below them.
func Unattached(members []member.Member) []string {
	idx := newIndex(members)

	var visited map[int]struct{}
	if rootPos, ok := idx.root(); ok {
		_, visited = idx.emit(rootPos)
	}

	result := make([]string, 0)
	for i, m := range idx.sorted {
		if _, ok := visited[i]; !ok {
			result = append(result, m.ID)
		}
	}
	return result
}

func (idx *index) emit(rootPos int) (*Node, map[int]struct{}) {
	type frame struct {
		node *Node
		pos  int
	}

	visited := map[int]struct{}{rootPos: {}}
	emittedIDs := map[string]struct{}{idx.sorted[rootPos].ID: {}}
	root := idx.node(rootPos)
	stack := []frame{{node: root, pos: rootPos}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, childPos := range idx.children[idx.sorted[current.pos].ID] {
			if _, seen := visited[childPos]; seen {
				continue
			}
			childID := idx.sorted[childPos].ID
			if _, seen := emittedIDs[childID]; seen {
				continue
			}
			visited[childPos] = struct{}{}
			emittedIDs[childID] = struct{}{}

			child := idx.node(childPos)
			current.node.Children = append(current.node.Children, child)
			stack = append(stack, frame{node: child, pos: childPos})
		}
	}

	return root, visited
}

func (idx *index) node(pos int) *Node {
	m := idx.sorted[pos]
	return &Node{
		Name: m.FullName,
		Attributes: Attributes{
			ID:              m.ID,
			Gender:          m.Gender,
			Generation:      m.Generation,
			BirthOrder:      m.BirthOrder,
			BirthYear:       yearOf(m.BirthDate),
			DeathYear:       yearOf(m.DeathDate),
			IsDeceased:      m.IsDeceased,
			Avatar:          m.Avatar,
			AnniversaryDate: m.AnniversaryDate,
			SpouseID:        m.SpouseID,
			Spouse:          idx.spouse(m.SpouseID),
			Spouses:         idx.spouses(m.SpouseIDs),
		},
		Children: []*Node{},
	}
}

func (idx *index) spouse(id *string) *SpouseSnapshot {
	if id == nil || *id == "" {
		return nil
	}
	pos, ok := idx.byID[*id]
	if !ok {
		return nil
	}
	snapshot := snapshotOf(idx.sorted[pos])
	return &snapshot
}

func (idx *index) spouses(ids []string) []SpouseSnapshot {
	result := make([]SpouseSnapshot, 0, len(ids))
	for _, id := range ids {
		pos, ok := idx.byID[id]
		if !ok {
			continue
		}
		result = append(result, snapshotOf(idx.sorted[pos]))
	}
	return result
}

func snapshotOf(m member.Member) SpouseSnapshot {
	return SpouseSnapshot{
		ID:         m.ID,
		FullName:   m.FullName,
		Gender:     m.Gender,
		BirthYear:  yearOf(m.BirthDate),
		DeathYear:  yearOf(m.DeathDate),
		IsDeceased: m.IsDeceased,
		Avatar:     m.Avatar,
	}
}

func yearOf(date *time.Time) *int {
	if date == nil || date.IsZero() {
		return nil
	}
	year := date.Year()
	return &year
}
