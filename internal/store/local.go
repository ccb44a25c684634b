package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/markdown"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/rogersnm/plotline/internal/outline"
)

const projectFile = "project.md"

// Entity subdirectories of a project directory.
var entityDirs = map[id.Kind]string{
	id.Chapter:     "chapters",
	id.Scene:       "scenes",
	id.Character:   "characters",
	id.Location:    "locations",
	id.Item:        "items",
	id.ProjectNote: "notes",
}

// OutlineEntry is the persisted form of one outline node.
type OutlineEntry struct {
	ID       string         `yaml:"id"`
	Children []OutlineEntry `yaml:"children,omitempty"`
}

type projectMeta struct {
	Settings     model.Settings         `yaml:"settings"`
	WordCountLog []model.WordCountEntry `yaml:"word_count_log,omitempty"`
	Outline      []OutlineEntry         `yaml:"outline"`
}

// LocalStore reads and writes a project as a directory of markdown files
// with YAML frontmatter: project.md holds the settings, the word-count log
// and the outline; every entity has its own file.
type LocalStore struct {
	BaseDir string
}

func NewLocal(baseDir string) *LocalStore {
	return &LocalStore{BaseDir: baseDir}
}

// Exists reports whether BaseDir holds a project.
func (l *LocalStore) Exists() bool {
	_, err := os.Stat(filepath.Join(l.BaseDir, projectFile))
	return err == nil
}

// EntityPath returns the file that holds entity x.
func (l *LocalStore) EntityPath(x id.ID) (string, error) {
	key := x
	if x.Kind == id.Part {
		key = x.Chapter()
	}
	dir, ok := entityDirs[key.Kind]
	if !ok {
		return "", fmt.Errorf("%s has no entity file", x)
	}
	return filepath.Join(l.BaseDir, dir, key.String()+".md"), nil
}

func (l *LocalStore) WriteEntity(path string, meta any, body string) error {
	data, err := markdown.Marshal(meta, body)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating parent dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func ReadEntity[T any](path string) (T, string, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return markdown.Parse[T](f)
}

func (l *LocalStore) ListFiles(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("globbing %s/%s: %w", dir, pattern, err)
	}
	return matches, nil
}

// Save writes the whole project. Files of entities that no longer exist are
// removed.
func (l *LocalStore) Save(s *Store, tree *outline.Tree) error {
	meta := projectMeta{
		Settings:     s.Settings,
		WordCountLog: s.WordCountLog,
		Outline:      encodeOutline(tree),
	}
	if err := l.WriteEntity(filepath.Join(l.BaseDir, projectFile), &meta, ""); err != nil {
		return fmt.Errorf("writing project: %w", err)
	}

	keep := make(map[string]bool)
	write := func(x id.ID, meta any, body string) error {
		path, err := l.EntityPath(x)
		if err != nil {
			return err
		}
		keep[path] = true
		if err := l.WriteEntity(path, meta, body); err != nil {
			return fmt.Errorf("writing %s: %w", x, err)
		}
		return nil
	}
	for x, c := range s.Chapters {
		if err := write(x, c, ""); err != nil {
			return err
		}
	}
	for x, sc := range s.Scenes {
		if err := write(x, sc, sc.Content); err != nil {
			return err
		}
	}
	for x, c := range s.Characters {
		if err := write(x, c, ""); err != nil {
			return err
		}
	}
	for x, lc := range s.Locations {
		if err := write(x, lc, ""); err != nil {
			return err
		}
	}
	for x, it := range s.Items {
		if err := write(x, it, ""); err != nil {
			return err
		}
	}
	for x, n := range s.Notes {
		if err := write(x, n, n.Description); err != nil {
			return err
		}
	}

	for _, dir := range entityDirs {
		files, err := l.ListFiles(filepath.Join(l.BaseDir, dir), "*.md")
		if err != nil {
			return err
		}
		for _, f := range files {
			if !keep[f] {
				if err := os.Remove(f); err != nil {
					return fmt.Errorf("removing stale %s: %w", f, err)
				}
			}
		}
	}
	return nil
}

// Load reads a project. Unreadable entity files are skipped; outline nodes
// without an entity are kept and dropped by the next rebuild.
func (l *LocalStore) Load() (*Store, *outline.Tree, error) {
	meta, _, err := ReadEntity[projectMeta](filepath.Join(l.BaseDir, projectFile))
	if err != nil {
		return nil, nil, fmt.Errorf("reading project: %w", err)
	}
	s := New(meta.Settings)
	s.WordCountLog = meta.WordCountLog

	if err := loadKind(l, id.Chapter, func(c model.Chapter, _ string) {
		s.Chapters[c.ID] = &c
		s.Observe(c.ID)
	}); err != nil {
		return nil, nil, err
	}
	if err := loadKind(l, id.Scene, func(sc model.Scene, body string) {
		sc.Content = body
		if body != "" {
			sc.CountWords()
		}
		s.Scenes[sc.ID] = &sc
		s.Observe(sc.ID)
	}); err != nil {
		return nil, nil, err
	}
	if err := loadKind(l, id.Character, func(c model.Character, _ string) {
		s.Characters[c.ID] = &c
		s.Observe(c.ID)
	}); err != nil {
		return nil, nil, err
	}
	if err := loadKind(l, id.Location, func(lc model.Location, _ string) {
		s.Locations[lc.ID] = &lc
		s.Observe(lc.ID)
	}); err != nil {
		return nil, nil, err
	}
	if err := loadKind(l, id.Item, func(it model.Item, _ string) {
		s.Items[it.ID] = &it
		s.Observe(it.ID)
	}); err != nil {
		return nil, nil, err
	}
	if err := loadKind(l, id.ProjectNote, func(n model.ProjectNote, body string) {
		if body != "" {
			n.Description = body
		}
		s.Notes[n.ID] = &n
		s.Observe(n.ID)
	}); err != nil {
		return nil, nil, err
	}

	tree := outline.New()
	decodeOutline(tree, meta.Outline, s)
	return s, tree, nil
}

func loadKind[T any](l *LocalStore, k id.Kind, add func(T, string)) error {
	files, err := l.ListFiles(filepath.Join(l.BaseDir, entityDirs[k]), "*.md")
	if err != nil {
		return err
	}
	for _, f := range files {
		v, body, err := ReadEntity[T](f)
		if err != nil {
			continue
		}
		add(v, body)
	}
	return nil
}

func encodeOutline(tree *outline.Tree) []OutlineEntry {
	var enc func(x id.ID) OutlineEntry
	enc = func(x id.ID) OutlineEntry {
		e := OutlineEntry{ID: x.String()}
		for _, c := range tree.Children(x) {
			e.Children = append(e.Children, enc(c))
		}
		return e
	}
	var out []OutlineEntry
	for _, r := range tree.Roots() {
		out = append(out, enc(r))
	}
	return out
}

// decodeOutline rebuilds the tree. Malformed ids, misplaced nodes and
// duplicates are skipped together with their subtrees.
func decodeOutline(tree *outline.Tree, entries []OutlineEntry, s *Store) {
	var dec func(parent id.ID, e OutlineEntry)
	dec = func(parent id.ID, e OutlineEntry) {
		x, err := id.Parse(strings.TrimSpace(e.ID))
		if err != nil {
			return
		}
		if x.Kind != id.Root {
			if err := tree.Insert(parent, -1, x); err != nil {
				return
			}
			s.Observe(x)
		}
		for _, c := range e.Children {
			dec(x, c)
		}
	}
	for _, e := range entries {
		x, err := id.Parse(e.ID)
		if err != nil || x.Kind != id.Root {
			continue
		}
		for _, c := range e.Children {
			dec(x, c)
		}
	}
}
