// Package project implements the host project model on top of a per-project item index
// stored at <root>/.trier/items.yaml.
package project

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/trier/internal/adapters/fs"
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ProjectModel = (*Project)(nil)

// itemsFile is the on-disk shape of the item index.
type itemsFile struct {
	Items []itemRecord `yaml:"items"`
}

type itemRecord struct {
	Path        string             `yaml:"path"`
	BuildAction domain.BuildAction `yaml:"buildAction"`
}

// Project is a file-backed project model. Item paths are persisted relative to the root.
type Project struct {
	mu       sync.Mutex
	name     string
	root     string
	loaded   bool
	items    []itemRecord
	solution *Solution
}

func newProject(name, root string, solution *Solution) *Project {
	return &Project{
		name:     name,
		root:     filepath.Clean(root),
		solution: solution,
	}
}

// Name returns the project name.
func (p *Project) Name() string {
	return p.name
}

// Root returns the project root directory.
func (p *Project) Root() string {
	return p.root
}

// Items lists the items of the project in registration order.
func (p *Project) Items() ([]domain.ProjectItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(); err != nil {
		return nil, err
	}
	items := make([]domain.ProjectItem, 0, len(p.items))
	for _, rec := range p.items {
		items = append(items, p.toItem(rec))
	}
	return items, nil
}

// FindItem returns the item at path, or nil when the project does not contain it.
func (p *Project) FindItem(path string) (*domain.ProjectItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(); err != nil {
		return nil, err
	}
	i := p.indexLocked(path)
	if i < 0 {
		return nil, nil
	}
	item := p.toItem(p.items[i])
	return &item, nil
}

// AddItemFromFile registers the existing file at path with build action None.
// Adding a path that is already an item returns the existing item.
func (p *Project) AddItemFromFile(path string) (*domain.ProjectItem, error) {
	path = filepath.Clean(path)
	rel, err := p.relative(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, zerr.With(domain.ErrItemFileMissing, "path", path)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(); err != nil {
		return nil, err
	}
	if i := p.indexLocked(path); i >= 0 {
		item := p.toItem(p.items[i])
		return &item, nil
	}

	rec := itemRecord{Path: rel, BuildAction: domain.BuildActionNone}
	p.items = append(p.items, rec)
	if err := p.saveLocked(); err != nil {
		p.items = p.items[:len(p.items)-1]
		return nil, err
	}
	item := p.toItem(rec)
	return &item, nil
}

// DeleteItem removes item from the index. The file on disk is left alone.
func (p *Project) DeleteItem(item *domain.ProjectItem) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(); err != nil {
		return err
	}
	i := p.indexLocked(item.Path)
	if i < 0 {
		return zerr.With(zerr.With(domain.ErrItemNotFound, "path", item.Path), "project", p.name)
	}

	removed := p.items[i]
	p.items = slices.Delete(p.items, i, i+1)
	if err := p.saveLocked(); err != nil {
		p.items = slices.Insert(p.items, i, removed)
		return err
	}
	return nil
}

// SetItemBuildAction records action on item.
func (p *Project) SetItemBuildAction(item *domain.ProjectItem, action domain.BuildAction) error {
	if !action.IsValid() {
		return zerr.With(domain.ErrUnknownBuildAction, "build_action", string(action))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(); err != nil {
		return err
	}
	i := p.indexLocked(item.Path)
	if i < 0 {
		return zerr.With(zerr.With(domain.ErrItemNotFound, "path", item.Path), "project", p.name)
	}
	if p.items[i].BuildAction == action {
		item.BuildAction = action
		return nil
	}

	previous := p.items[i].BuildAction
	p.items[i].BuildAction = action
	if err := p.saveLocked(); err != nil {
		p.items[i].BuildAction = previous
		return err
	}
	item.BuildAction = action
	return nil
}

// FindItemInSolution looks for path in this project first, then in every other project of the solution.
func (p *Project) FindItemInSolution(path string) (*domain.ProjectItem, error) {
	item, err := p.FindItem(path)
	if err != nil || item != nil || p.solution == nil {
		return item, err
	}
	return p.solution.findItemExcept(path, p.name)
}

func (p *Project) relative(path string) (string, error) {
	rel, err := filepath.Rel(p.root, path)
	if err != nil || rel == "." || rel == ".." || !filepath.IsLocal(rel) {
		return "", zerr.With(zerr.With(domain.ErrOutputPathOutsideRoot, "path", path), "root", p.root)
	}
	return filepath.ToSlash(rel), nil
}

func (p *Project) indexLocked(path string) int {
	rel, err := p.relative(filepath.Clean(path))
	if err != nil {
		return -1
	}
	return slices.IndexFunc(p.items, func(rec itemRecord) bool {
		return rec.Path == rel
	})
}

func (p *Project) toItem(rec itemRecord) domain.ProjectItem {
	return domain.ProjectItem{
		Path:        filepath.Join(p.root, filepath.FromSlash(rec.Path)),
		BuildAction: rec.BuildAction,
		Project:     p.name,
	}
}

func (p *Project) loadLocked() error {
	if p.loaded {
		return nil
	}

	path := domain.ItemsPath(p.root)
	//nolint:gosec // Path is derived from the configured project root
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			p.loaded = true
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrItemsReadFailed.Error()), "path", path)
	}

	var file itemsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrItemsReadFailed.Error()), "path", path)
	}
	for i, rec := range file.Items {
		file.Items[i].Path = filepath.ToSlash(filepath.Clean(filepath.FromSlash(rec.Path)))
		if rec.BuildAction == "" {
			file.Items[i].BuildAction = domain.BuildActionNone
		}
	}

	p.items = file.Items
	p.loaded = true
	return nil
}

func (p *Project) saveLocked() error {
	path := domain.ItemsPath(p.root)
	data, err := yaml.Marshal(itemsFile{Items: p.items})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrItemsWriteFailed.Error()), "path", path)
	}
	if err := fs.WriteFileAtomic(path, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrItemsWriteFailed.Error()), "path", path)
	}
	return nil
}
