package project

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	Group struct {
		ID       string   `json:"id" yaml:"id"`
		Name     string   `json:"name" yaml:"name"`
		Students []string `json:"students" yaml:"students"`
	}

	// Directory exposes the read-only lookup tables: groups and subjects.
	Directory interface {
		Groups() []Group
		GroupByID(id string) (Group, bool)
		Subjects() []string
	}

	StaticDirectory struct {
		groups   []Group
		subjects []string
	}

	catalog struct {
		Subjects []string `yaml:"subjects"`
		Groups   []Group  `yaml:"groups"`
	}
)

var _ Directory = (*StaticDirectory)(nil)

func NewStaticDirectory(subjects []string, groups []Group) *StaticDirectory {
	return &StaticDirectory{subjects: subjects, groups: groups}
}

// LoadDirectory reads a YAML catalog:
//
//	subjects: [Data Structures, ...]
//	groups:
//	  - {id: g1, name: Team A, students: [Alice, Bob]}
func LoadDirectory(r io.Reader) (*StaticDirectory, error) {
	var c catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, errors.Wrap(err, "decoding catalog")
	}
	seen := make(map[string]bool, len(c.Groups))
	for _, g := range c.Groups {
		if g.ID == "" {
			return nil, errors.Errorf("catalog: group %q has no id", g.Name)
		}
		if seen[g.ID] {
			return nil, errors.Errorf("catalog: duplicate group id %q", g.ID)
		}
		seen[g.ID] = true
	}
	return NewStaticDirectory(c.Subjects, c.Groups), nil
}

func (d *StaticDirectory) Groups() []Group {
	res := make([]Group, len(d.groups))
	copy(res, d.groups)
	return res
}

func (d *StaticDirectory) GroupByID(id string) (Group, bool) {
	for _, g := range d.groups {
		if g.ID == id {
			g.Students = append([]string(nil), g.Students...)
			return g, true
		}
	}
	return Group{}, false
}

func (d *StaticDirectory) Subjects() []string {
	return append([]string(nil), d.subjects...)
}
