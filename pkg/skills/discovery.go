package skills

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// Skill summarizes a discovered skill directory.
type Skill struct {
	Name        string // name from frontmatter, or the directory name when unparsable
	Description string
	Directory   string // full path to the skill directory
	Err         error  // frontmatter problem, if any
}

// Discovery finds skill directories below a set of roots.
type Discovery struct {
	roots []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithRoots sets the directories searched for skills. Earlier roots take
// precedence when two skills share a name.
func WithRoots(dirs ...string) Option {
	return func(d *Discovery) error {
		if len(dirs) == 0 {
			return errors.New("at least one root directory must be specified")
		}
		d.roots = dirs
		return nil
	}
}

// NewDiscovery creates a discovery rooted at the current directory unless
// options say otherwise.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{roots: []string{"."}}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// FindSkillDirs walks root and returns every directory holding a SKILL.md,
// sorted. VCS metadata and node_modules are not descended into.
func FindSkillDirs(root string) ([]string, error) {
	var dirs []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}

		if entry.IsDir() {
			if path != root && (entry.Name() == ".git" || entry.Name() == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Name() == FileName {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}

	sort.Strings(dirs)
	return dirs, nil
}

// DiscoverSkills loads a summary of every skill below the configured roots.
func (d *Discovery) DiscoverSkills() (map[string]*Skill, error) {
	found := make(map[string]*Skill)

	for _, root := range d.roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}

		dirs, err := FindSkillDirs(root)
		if err != nil {
			return nil, err
		}

		for _, dir := range dirs {
			skill := summarize(dir)
			if _, exists := found[skill.Name]; !exists {
				found[skill.Name] = skill
			}
		}
	}

	return found, nil
}

// ListSkills returns discovered skills sorted by name.
func (d *Discovery) ListSkills() ([]*Skill, error) {
	found, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	list := make([]*Skill, 0, len(found))
	for _, s := range found {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	return list, nil
}

func summarize(dir string) *Skill {
	skill := &Skill{Name: filepath.Base(dir), Directory: dir}

	doc := Load(dir)
	switch {
	case doc.ReadErr != nil:
		skill.Err = doc.ReadErr
	case doc.ParseErr != nil:
		skill.Err = doc.ParseErr
	default:
		if name := doc.Frontmatter.NameValue(); name != "" {
			skill.Name = name
		}
		skill.Description = doc.Frontmatter.DescriptionValue()
	}

	return skill
}
