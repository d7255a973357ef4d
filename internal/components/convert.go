// Package components upgrades the component tree of a legacy screen's
// sidecar file to versions the current environment can load.
package components

import (
	"strconv"
	"strings"

	"github.com/cmmoran/ai1convert/internal/diag"
	"github.com/cmmoran/ai1convert/internal/model"
)

const formType = "Form"

// Upgrade records one version change applied to a component.
type Upgrade struct {
	Name          string
	ComponentType string
	From          int
	To            int
}

type Result struct {
	Text            string
	Upgrades        []Upgrade
	ScrollableAdded bool
}

// Convert rewrites every record line of a sidecar, leaving other lines
// untouched. features lists the members the screen's blocks use and may be
// nil. A component that cannot be upgraded fails the whole file with a
// *diag.ProjectVersionError.
func Convert(text string, features *model.FeatureSet) (*Result, error) {
	res := &Result{}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "{") {
			continue
		}
		body, cr := strings.CutSuffix(line, "\r")
		rec, err := DecodeRecord([]byte(body))
		if err != nil {
			return nil, &diag.ParseError{Msg: "malformed component record on line " + strconv.Itoa(i+1), Err: err}
		}
		if err := res.updateTree(rec.Object("Properties"), features); err != nil {
			return nil, err
		}
		out, err := rec.Encode()
		if err != nil {
			return nil, &diag.ParseError{Msg: "encoding component record", Err: err}
		}
		lines[i] = string(out)
		if cr {
			lines[i] += "\r"
		}
	}
	res.Text = strings.Join(lines, "\n")
	return res, nil
}

func (res *Result) updateTree(c *Record, features *model.FeatureSet) error {
	if c == nil {
		return nil
	}
	if err := res.update(c, features); err != nil {
		return err
	}
	for _, child := range c.Components() {
		if err := res.updateTree(child, features); err != nil {
			return err
		}
	}
	return nil
}

func (res *Result) update(c *Record, features *model.FeatureSet) error {
	typ, _ := c.Get("$Type")
	if typ == formType {
		// the legacy default was scrollable, the current one is not
		if v, ok := c.Get("Scrollable"); !ok || v == "" {
			c.Set("Scrollable", "True")
			res.ScrollableAdded = true
		}
	}

	policy, ok := Policies[typ]
	if !ok {
		return nil
	}
	name, _ := c.Get("$Name")
	raw, _ := c.Get("$Version")
	version, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return diag.NewParseError("component %s of type %s has version %q", name, typ, raw)
	}

	if version < policy.MinUpgradable {
		return &diag.ProjectVersionError{ComponentType: typ, Version: version}
	}
	if used := policy.Used(typ, features); len(used) > 0 {
		return &diag.ProjectVersionError{ComponentType: typ, Version: version, Problems: used}
	}
	if version < policy.Target {
		c.Set("$Version", strconv.Itoa(policy.Target))
		res.Upgrades = append(res.Upgrades, Upgrade{Name: name, ComponentType: typ, From: version, To: policy.Target})
	}
	return nil
}
