package walker

import (
	"strings"

	"golang.org/x/text/cases"

	"photo-organizer/internal/placement"
)

// Category specializes the Walker for one kind of media. The Walker itself is
// type-agnostic; only these functions change between photos, videos, etc.
//
// TargetDir and Prefix return ok == false with a nil error when the file
// carries no usable timestamp, and an error when it could not be read.
// Place, when set, derives both in one call and is used instead of them.
type Category struct {
	Name      string
	Accept    func(path string) bool
	TargetDir func(path string) (dir string, ok bool, err error)
	Prefix    func(path string) (prefix string, ok bool, err error)
	Place     func(path string) (p Placement, ok bool, err error)
}

// Placement is where one file goes: <Dir>/<Prefix>_<name>.
type Placement struct {
	Dir    string
	Prefix string
}

// NewPhotoCategory returns the photo category: files matching exts, placed
// by policy. Extension matching is case-insensitive.
func NewPhotoCategory(policy *placement.Policy, exts []string) Category {
	return Category{
		Name:      "photo",
		Accept:    ExtensionFilter(exts),
		TargetDir: policy.TargetDir,
		Prefix:    policy.Prefix,
		Place: func(path string) (Placement, bool, error) {
			d, ok, err := policy.Decide(path)
			if err != nil || !ok {
				return Placement{}, false, err
			}
			return Placement{Dir: d.Dir, Prefix: d.Prefix}, true, nil
		},
	}
}

// ExtensionFilter returns a predicate that is true when a file name ends with
// one of exts. Both sides are case-folded, so ".JPG" matches ".jpg".
func ExtensionFilter(exts []string) func(path string) bool {
	fold := cases.Fold()
	folded := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext = fold.String(strings.TrimSpace(ext)); ext != "" {
			folded = append(folded, ext)
		}
	}
	return func(path string) bool {
		name := fold.String(path)
		for _, ext := range folded {
			if strings.HasSuffix(name, ext) {
				return true
			}
		}
		return false
	}
}
