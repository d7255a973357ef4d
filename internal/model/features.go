package model

import (
	"sort"
)

type FeatureKind string

const (
	FeatureProperty FeatureKind = "property"
	FeatureMethod   FeatureKind = "method"
	FeatureEvent    FeatureKind = "event"
)

// Feature is one component member referenced by a screen's blocks.
type Feature struct {
	ComponentType string      `json:"component_type" yaml:"component_type"`
	Kind          FeatureKind `json:"kind" yaml:"kind"`
	Member        string      `json:"member" yaml:"member"`
}

func (f Feature) String() string {
	return f.ComponentType + "." + f.Member + " (" + string(f.Kind) + ")"
}

// FeatureSet records which component members a screen uses. The zero value
// is ready to use.
type FeatureSet struct {
	uses map[Feature]struct{}
}

func NewFeatureSet() *FeatureSet {
	return &FeatureSet{}
}

func (fs *FeatureSet) Add(componentType string, kind FeatureKind, member string) {
	if fs.uses == nil {
		fs.uses = make(map[Feature]struct{})
	}
	fs.uses[Feature{ComponentType: componentType, Kind: kind, Member: member}] = struct{}{}
}

// Has reports whether member of componentType was used as kind. A nil set
// has no features.
func (fs *FeatureSet) Has(componentType string, kind FeatureKind, member string) bool {
	if fs == nil {
		return false
	}
	_, ok := fs.uses[Feature{ComponentType: componentType, Kind: kind, Member: member}]
	return ok
}

func (fs *FeatureSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.uses)
}

// Merge adds every feature of other to fs.
func (fs *FeatureSet) Merge(other *FeatureSet) {
	if other == nil {
		return
	}
	for f := range other.uses {
		fs.Add(f.ComponentType, f.Kind, f.Member)
	}
}

// List returns the features ordered by type, kind and member.
func (fs *FeatureSet) List() []Feature {
	if fs == nil {
		return nil
	}
	out := make([]Feature, 0, len(fs.uses))
	for f := range fs.uses {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ComponentType != b.ComponentType {
			return a.ComponentType < b.ComponentType
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Member < b.Member
	})
	return out
}
