package components

import (
	"strconv"

	"github.com/cmmoran/ai1convert/internal/model"
)

// Problems names the members whose meaning changed at one version, so a
// screen using them cannot be upgraded past it.
type Problems struct {
	Properties []string
	Methods    []string
	Events     []string
}

// Policy is the upgrade rule for one component type. Versions below
// MinUpgradable cannot be converted; versions below Target are raised to it.
type Policy struct {
	MinUpgradable int
	Target        int
	Problematic   map[int]Problems
}

// Policies lists the component types whose versions must change. Types not
// listed keep their version and are upgraded on load by the new environment.
var Policies = map[string]Policy{
	// ActivityError was removed in 3
	"ActivityStarter": {MinUpgradable: 3, Target: 4},
	// Flung gained parameters in 5
	"Ball":            {MinUpgradable: 5, Target: 5},
	"BluetoothClient": {MinUpgradable: 5, Target: 5},
	"BluetoothServer": {MinUpgradable: 3, Target: 5},
	// Alignment became TextAlignment in 2
	"Button": {MinUpgradable: 2, Target: 6},
	// 7 to 10 is left to the loader's own upgrader
	"Canvas":            {MinUpgradable: 7, Target: 7},
	"ContactPicker":     {MinUpgradable: 2, Target: 5},
	"EmailPicker":       {MinUpgradable: 2, Target: 3},
	"ImagePicker":       {MinUpgradable: 2, Target: 5},
	"ImageSprite":       {MinUpgradable: 6, Target: 6},
	"Label":             {MinUpgradable: 2, Target: 3},
	"ListPicker":        {MinUpgradable: 2, Target: 9},
	"Notifier":          {MinUpgradable: 1, Target: 4},
	"OrientationSensor": {MinUpgradable: 2, Target: 2},
	"PasswordTextBox":   {MinUpgradable: 2, Target: 3},
	"PhoneNumberPicker": {MinUpgradable: 2, Target: 4},
	// IsLooping becomes Loop in 5, handled by the block converter
	"Player": {MinUpgradable: 3, Target: 6},
	// screen animations became properties in 11, handled by the block converter
	"Form":  {MinUpgradable: 1, Target: 14},
	"Sound": {MinUpgradable: 3, Target: 3},
	// Alignment became TextAlignment in 3
	"TextBox": {MinUpgradable: 3, Target: 5},
	"Texting": {MinUpgradable: 1, Target: 3, Problematic: map[int]Problems{
		3: {Properties: []string{"Alignment", "ReceivingEnabled"}},
	}},
	"TinyWebDB": {MinUpgradable: 2, Target: 2},
	// SetStatus becomes Tweet in 3, handled by the block converter
	"Twitter":     {MinUpgradable: 2, Target: 4},
	"VideoPlayer": {MinUpgradable: 3, Target: 5},
	// BuildPostData became BuildRequestData in 3
	"Web": {MinUpgradable: 2, Target: 4, Problematic: map[int]Problems{
		2: {Methods: []string{"BuildPostData", "BuildRequestData"}},
	}},
}

// Used returns, in version order, the problematic members of componentType
// that features contains, for every version from p.MinUpgradable to p.Target.
func (p Policy) Used(componentType string, features *model.FeatureSet) []string {
	var used []string
	for v := p.MinUpgradable; v <= p.Target; v++ {
		probs, ok := p.Problematic[v]
		if !ok {
			continue
		}
		check := func(kind model.FeatureKind, members []string) {
			for _, m := range members {
				if features.Has(componentType, kind, m) {
					used = append(used, "version "+strconv.Itoa(v)+" "+string(kind)+" "+componentType+"."+m)
				}
			}
		}
		check(model.FeatureProperty, probs.Properties)
		check(model.FeatureMethod, probs.Methods)
		check(model.FeatureEvent, probs.Events)
	}
	return used
}
