package export

import (
	"github.com/bytetools/binmap/container"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

type textAssigner interface {
	AssignText(string) error
}

// SaveINI persists the tree's flattened values under one .ini section, keyed
// by field path.
func SaveINI(path, section string, root container.Member) error {
	f := ini.Empty()
	sec, err := f.NewSection(section)
	if err != nil {
		return errors.Wrap(err, "export")
	}
	for _, pv := range Flatten(root) {
		if _, err := sec.NewKey(pv.Path, text(pv.Value)); err != nil {
			return errors.Wrapf(err, "export: key %q", pv.Path)
		}
	}
	return errors.Wrap(f.SaveTo(path), "export")
}

// LoadINI assigns leaf values from a section written by SaveINI. Keys with
// no matching leaf are ignored; leaves with no matching key keep their
// values.
func LoadINI(path, section string, root container.Member) error {
	f, err := ini.Load(path)
	if err != nil {
		return errors.Wrap(err, "export")
	}
	sec := f.Section(section)

	return container.Walk(root, func(p string, m container.Member) error {
		ta, ok := m.(textAssigner)
		if !ok {
			return nil
		}
		if !sec.HasKey(p) {
			return nil
		}
		if err := ta.AssignText(sec.Key(p).String()); err != nil {
			return errors.Wrapf(err, "export: key %q", p)
		}
		return nil
	})
}
