package engine

import (
	"errors"
	"fmt"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/rogersnm/plotline/internal/outline"
	"github.com/rogersnm/plotline/internal/store"
)

const TrashTitle = "Trash"

// trash returns the trash chapter, creating it at the end of the book on
// first use.
func (e *Engine) trash() (*model.Chapter, error) {
	if c, ok := e.st.Trash(); ok {
		if !e.tree.Contains(c.ID) {
			if err := e.tree.Insert(id.Book, -1, c.ID); err != nil {
				return nil, fmt.Errorf("restoring trash: %w", err)
			}
		}
		return c, nil
	}
	c := e.st.NewChapter(TrashTitle, model.LevelChapter, model.KindUnused)
	c.IsTrash = true
	if err := e.tree.Insert(id.Book, -1, c.ID); err != nil {
		e.st.Forget(c.ID)
		return nil, fmt.Errorf("creating trash: %w", err)
	}
	e.log.Debug("created trash", "chapter", c.ID)
	return c, nil
}

// ensureTrashLast keeps the trash chapter as the last child of the book.
func (e *Engine) ensureTrashLast() {
	c, ok := e.st.Trash()
	if !ok {
		return
	}
	node := c.ID
	if e.tree.Contains(node.AsPart()) {
		if err := e.tree.Rekey(node.AsPart(), node); err != nil {
			return
		}
	}
	if !e.tree.Contains(node) {
		return
	}
	kids := e.tree.Children(id.Book)
	if p, _ := e.tree.Parent(node); p == id.Book && kids[len(kids)-1] == node {
		return
	}
	if err := e.tree.Move(node, id.Book, -1); err != nil {
		e.log.Warn("moving trash to the end of the book", "error", err)
	}
}

// Delete removes an outline entity. Scenes, chapters and parts go to the
// trash; deleting the trash itself, or a scene already in it, is final.
// Characters, locations, items and notes are deleted immediately and
// their references are removed from every scene.
func (e *Engine) Delete(x id.ID) error {
	if !e.tree.Contains(x) && x.Kind != id.Character && x.Kind != id.Location &&
		x.Kind != id.Item && x.Kind != id.ProjectNote {
		return fmt.Errorf("deleting %s: %w", x, outline.ErrNodeNotFound)
	}
	var err error
	switch x.Kind {
	case id.Root:
		return fmt.Errorf("deleting %s: %w", x, outline.ErrRootNode)
	case id.Scene:
		err = e.deleteScene(x)
	case id.Part, id.Chapter:
		err = e.deleteChapter(x)
	default:
		err = e.deleteWorldEntity(x)
	}
	if err != nil {
		return err
	}
	e.Rebuild()
	return nil
}

func (e *Engine) deleteScene(x id.ID) error {
	parent, _ := e.tree.Parent(x)
	if c, ok := e.st.Chapter(parent); ok && c.IsTrash {
		if _, err := e.tree.Delete(x); err != nil {
			return err
		}
		e.st.Forget(x)
		e.log.Info("deleted scene", "scene", x)
		return nil
	}
	bin, err := e.trash()
	if err != nil {
		return err
	}
	if err := e.tree.Move(x, bin.ID, -1); err != nil {
		return fmt.Errorf("moving %s to trash: %w", x, err)
	}
	if sc, ok := e.st.Scenes[x]; ok {
		sc.Kind = model.KindUnused
	}
	e.log.Info("moved scene to trash", "scene", x)
	return nil
}

func (e *Engine) deleteChapter(x id.ID) error {
	c, ok := e.st.Chapter(x)
	if ok && c.IsTrash {
		removed, err := e.tree.Delete(x)
		if err != nil {
			return err
		}
		for _, r := range removed {
			e.st.Forget(r)
		}
		e.log.Info("emptied trash", "removed", len(removed)-1)
		return nil
	}

	bin, err := e.trash()
	if err != nil {
		return err
	}
	var scenes []id.ID
	for _, n := range e.tree.Subtree(x) {
		if n.Kind == id.Scene {
			scenes = append(scenes, n)
		}
	}
	for _, sc := range scenes {
		if err := e.tree.Move(sc, bin.ID, -1); err != nil {
			return fmt.Errorf("moving %s to trash: %w", sc, err)
		}
		if s, ok := e.st.Scenes[sc]; ok {
			s.Kind = model.KindUnused
		}
	}
	removed, err := e.tree.Delete(x)
	if err != nil {
		return err
	}
	for _, r := range removed {
		e.st.Forget(r)
	}
	e.log.Info("deleted chapter", "chapter", x, "scenes_trashed", len(scenes))
	return nil
}

func (e *Engine) deleteWorldEntity(x id.ID) error {
	touched, err := e.st.RemoveWorldEntity(x)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", x, err)
	}
	if _, err := e.tree.Delete(x); err != nil && !errors.Is(err, outline.ErrNodeNotFound) {
		return err
	}
	e.log.Info("deleted entity", "id", x, "scenes_updated", touched)
	return nil
}

// EmptyTrash hard-deletes the trash and everything in it.
func (e *Engine) EmptyTrash() error {
	c, ok := e.st.Trash()
	if !ok || !e.tree.Contains(c.ID) {
		return fmt.Errorf("trash: %w", store.ErrNotFound)
	}
	return e.Delete(c.ID)
}
