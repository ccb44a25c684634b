package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/rogersnm/plotline/internal/outline"
	"github.com/rogersnm/plotline/internal/store"
)

var (
	ErrNotChapterBranch = errors.New("parts and chapters belong in the book, research or planning branch")
	ErrHasScenes        = errors.New("chapter still holds scenes")
	ErrNotArcPoint      = errors.New("scene is not an arc point")
	ErrArcDefined       = errors.New("arc is already defined")
	ErrTrash            = errors.New("the trash cannot be changed this way")
)

// InvalidAnchorError rejects an association whose target cannot anchor the
// arc point.
type InvalidAnchorError struct {
	Point  id.ID
	Scene  id.ID
	Reason string
}

func (e *InvalidAnchorError) Error() string {
	return fmt.Sprintf("cannot anchor %s to %s: %s", e.Point, e.Scene, e.Reason)
}

func isChapterBranch(x id.ID) bool {
	return x == id.Book || x == id.Research || x == id.Planning
}

// AddPart creates a part in a chapter branch root at index.
func (e *Engine) AddPart(parent id.ID, index int, title string) (id.ID, error) {
	if !isChapterBranch(parent) {
		return id.ID{}, fmt.Errorf("adding part under %s: %w", parent, ErrNotChapterBranch)
	}
	c := e.st.NewChapter(title, model.LevelPart, kindForBranch(parent, model.KindNormal))
	return e.insertNew(parent, index, c.NodeID())
}

// AddChapter creates a chapter under a branch root or a part.
func (e *Engine) AddChapter(parent id.ID, index int, title string) (id.ID, error) {
	branch, ok := e.tree.Branch(parent)
	if !ok {
		return id.ID{}, fmt.Errorf("adding chapter under %s: %w", parent, outline.ErrNodeNotFound)
	}
	if !isChapterBranch(branch) {
		return id.ID{}, fmt.Errorf("adding chapter under %s: %w", parent, ErrNotChapterBranch)
	}
	c := e.st.NewChapter(title, model.LevelChapter, kindForBranch(branch, model.KindNormal))
	return e.insertNew(parent, index, c.ID)
}

// AddArcChapter creates a todo chapter in the planning branch that defines
// arc. Nothing is created when another chapter already defines it.
func (e *Engine) AddArcChapter(parent id.ID, index int, title, arc string) (id.ID, error) {
	arc = strings.TrimSpace(arc)
	if arc == "" {
		return id.ID{}, fmt.Errorf("adding arc chapter: arc name is required")
	}
	branch, ok := e.tree.Branch(parent)
	if !ok {
		return id.ID{}, fmt.Errorf("adding arc chapter under %s: %w", parent, outline.ErrNodeNotFound)
	}
	if branch != id.Planning {
		return id.ID{}, fmt.Errorf("adding arc chapter under %s: arc-defining chapters belong in the planning branch", parent)
	}
	if other, ok := e.arcDefinedBy(arc); ok {
		return id.ID{}, fmt.Errorf("arc %q: %w by %s", arc, ErrArcDefined, other.ID)
	}
	c := e.st.NewChapter(title, model.LevelChapter, model.KindTodo)
	c.ArcDefinition = arc
	return e.insertNew(parent, index, c.ID)
}

func (e *Engine) arcDefinedBy(arc string) (*model.Chapter, bool) {
	for _, x := range e.st.SrtChapters {
		if c := e.st.Chapters[x]; c != nil && c.IsArcDefining() && c.ArcDefinition == arc {
			return c, true
		}
	}
	return nil, false
}

// AddScene creates a scene in a chapter. It takes the chapter's kind when
// that is not normal.
func (e *Engine) AddScene(chapter id.ID, index int, title string) (id.ID, error) {
	c, ok := e.st.Chapter(chapter)
	if !ok {
		return id.ID{}, fmt.Errorf("adding scene to %s: %w", chapter, store.ErrNotFound)
	}
	kind := model.KindNormal
	if c.Kind != model.KindNormal {
		kind = c.Kind
	}
	sc := e.st.NewScene(title, kind)
	return e.insertNew(chapter, index, sc.ID)
}

func (e *Engine) AddCharacter(index int, title string) (id.ID, error) {
	return e.insertNew(id.Characters, index, e.st.NewCharacter(title).ID)
}

func (e *Engine) AddLocation(index int, title string) (id.ID, error) {
	return e.insertNew(id.Locations, index, e.st.NewLocation(title).ID)
}

func (e *Engine) AddItem(index int, title string) (id.ID, error) {
	return e.insertNew(id.Items, index, e.st.NewItem(title).ID)
}

func (e *Engine) AddNote(index int, title string) (id.ID, error) {
	return e.insertNew(id.Notes, index, e.st.NewNote(title).ID)
}

func (e *Engine) insertNew(parent id.ID, index int, x id.ID) (id.ID, error) {
	if err := e.tree.Insert(parent, index, x); err != nil {
		e.forgetNew(x)
		return id.ID{}, err
	}
	e.Rebuild()
	return x, nil
}

func (e *Engine) forgetNew(x id.ID) {
	switch x.Kind {
	case id.Part, id.Chapter, id.Scene:
		e.st.Forget(x)
	default:
		e.st.RemoveWorldEntity(x)
	}
}

// Move re-parents a node and rebuilds.
func (e *Engine) Move(x, newParent id.ID, newIndex int) error {
	if err := e.tree.Move(x, newParent, newIndex); err != nil {
		return err
	}
	e.Rebuild()
	return nil
}

// Promote turns a scene-free chapter into a part. The chapters that follow
// it in its section become its children, and a chapter that sat inside a
// part moves up to follow that part.
func (e *Engine) Promote(x id.ID) (id.ID, error) {
	if x.Kind != id.Chapter {
		return id.ID{}, fmt.Errorf("promoting %s: not a chapter", x)
	}
	c, ok := e.st.Chapter(x)
	if !ok {
		return id.ID{}, fmt.Errorf("promoting %s: %w", x, store.ErrNotFound)
	}
	if c.IsTrash {
		return id.ID{}, fmt.Errorf("promoting %s: %w", x, ErrTrash)
	}
	if len(e.tree.Children(x)) > 0 {
		return id.ID{}, fmt.Errorf("promoting %s: %w", x, ErrHasScenes)
	}
	parent, ok := e.tree.Parent(x)
	if !ok {
		return id.ID{}, fmt.Errorf("promoting %s: %w", x, outline.ErrNodeNotFound)
	}

	var follow []id.ID
	siblings := e.tree.Children(parent)
	for _, s := range siblings[e.tree.Position(x)+1:] {
		if s.Kind == id.Part {
			break
		}
		if sc, ok := e.st.Chapter(s); ok && sc.IsTrash {
			break
		}
		follow = append(follow, s)
	}

	if parent.Kind == id.Part {
		branch, _ := e.tree.Branch(parent)
		if err := e.tree.Move(x, branch, e.tree.Position(parent)+1); err != nil {
			return id.ID{}, err
		}
	}
	part := x.AsPart()
	if err := e.tree.Rekey(x, part); err != nil {
		return id.ID{}, err
	}
	for _, f := range follow {
		if err := e.tree.Move(f, part, -1); err != nil {
			return id.ID{}, err
		}
	}
	c.Level = model.LevelPart
	e.log.Info("promoted chapter", "chapter", x, "adopted", len(follow))
	e.Rebuild()
	return part, nil
}

// Demote turns a part into a chapter. Its chapters are lifted out to follow
// it in the branch.
func (e *Engine) Demote(x id.ID) (id.ID, error) {
	if x.Kind != id.Part {
		return id.ID{}, fmt.Errorf("demoting %s: not a part", x)
	}
	c, ok := e.st.Chapter(x)
	if !ok {
		return id.ID{}, fmt.Errorf("demoting %s: %w", x, store.ErrNotFound)
	}
	branch, ok := e.tree.Parent(x)
	if !ok {
		return id.ID{}, fmt.Errorf("demoting %s: %w", x, outline.ErrNodeNotFound)
	}
	pos := e.tree.Position(x)
	for i, ch := range e.tree.Children(x) {
		if err := e.tree.Move(ch, branch, pos+1+i); err != nil {
			return id.ID{}, err
		}
	}
	chapter := x.Chapter()
	if err := e.tree.Rekey(x, chapter); err != nil {
		return id.ID{}, err
	}
	c.Level = model.LevelChapter
	e.log.Info("demoted part", "part", x)
	e.Rebuild()
	return chapter, nil
}

// SetArcs replaces the arc names of a normal scene. Names that no chapter
// defines are handled by the engine's arc mode.
func (e *Engine) SetArcs(sceneID id.ID, names []string) error {
	sc, ok := e.st.Scenes[sceneID]
	if !ok {
		return fmt.Errorf("%s: %w", sceneID, store.ErrNotFound)
	}
	if sc.Kind != model.KindNormal {
		return fmt.Errorf("setting arcs on %s: only normal scenes carry arcs", sceneID)
	}
	sc.ArcNames = nil
	for _, n := range names {
		sc.AddArc(n)
	}
	e.Rebuild()
	return nil
}

// SetArcDefinition makes a todo chapter define the named arc. An empty name
// turns it back into a plain todo chapter.
func (e *Engine) SetArcDefinition(chapterID id.ID, name string) error {
	c, ok := e.st.Chapter(chapterID)
	if !ok {
		return fmt.Errorf("%s: %w", chapterID, store.ErrNotFound)
	}
	name = strings.TrimSpace(name)
	if name != "" {
		if c.Kind != model.KindTodo || c.IsPart() {
			return fmt.Errorf("%s: only todo chapters can define arcs", chapterID)
		}
		if other, ok := e.arcDefinedBy(name); ok && other != c {
			return fmt.Errorf("arc %q: %w by %s", name, ErrArcDefined, other.ID)
		}
	}
	c.ArcDefinition = name
	e.Rebuild()
	return nil
}

// Associate anchors an arc point to a normal scene tagged with its arc. A
// zero scene id clears the anchor.
func (e *Engine) Associate(pointID, sceneID id.ID) error {
	point, ok := e.st.Scenes[pointID]
	if !ok {
		return fmt.Errorf("%s: %w", pointID, store.ErrNotFound)
	}
	parent, _ := e.tree.Parent(pointID)
	c, ok := e.st.Chapter(parent)
	if !ok || !c.IsArcDefining() {
		return fmt.Errorf("%s: %w", pointID, ErrNotArcPoint)
	}
	if sceneID.IsZero() {
		point.Associations = nil
		e.Rebuild()
		return nil
	}
	anchor, ok := e.st.Scenes[sceneID]
	switch {
	case !ok:
		return &InvalidAnchorError{Point: pointID, Scene: sceneID, Reason: "no such scene"}
	case anchor.Kind != model.KindNormal:
		return &InvalidAnchorError{Point: pointID, Scene: sceneID, Reason: "scene is not normal"}
	case !anchor.HasArc(c.ArcDefinition):
		return &InvalidAnchorError{Point: pointID, Scene: sceneID,
			Reason: fmt.Sprintf("scene is not tagged with arc %q", c.ArcDefinition)}
	}
	point.Associations = []id.ID{sceneID}
	e.Rebuild()
	return nil
}

// SetKind changes a chapter's kind. The book holds normal and unused
// chapters only; research and planning chapters take their branch kind.
func (e *Engine) SetKind(chapterID id.ID, kind model.Kind) error {
	if err := model.ValidateKind(kind); err != nil {
		return err
	}
	c, ok := e.st.Chapter(chapterID)
	if !ok {
		return fmt.Errorf("%s: %w", chapterID, store.ErrNotFound)
	}
	if c.IsTrash {
		return fmt.Errorf("%s: %w", chapterID, ErrTrash)
	}
	branch, _ := e.tree.Branch(c.NodeID())
	if kindForBranch(branch, kind) != kind {
		return fmt.Errorf("%s chapters cannot be %s", branch, kind)
	}
	c.Kind = kind
	e.Rebuild()
	return nil
}

// SetRelations assigns characters, locations or items to a scene by title.
// Titles resolved before an unknown one are kept.
func (e *Engine) SetRelations(sceneID id.ID, k id.Kind, titles []string) error {
	err := e.st.SetRelations(sceneID, k, titles)
	var unknown *store.UnknownTitleError
	if err == nil || errors.As(err, &unknown) {
		e.dirty = true
	}
	return err
}
