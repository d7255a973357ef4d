package rules

import "strings"

func leaf(genus, typ, field, value string) *Descriptor {
	return &Descriptor{Genus: genus, Type: typ, Role: RoleExpression, Strategy: StrategyLeaf, FieldName: field, FieldValue: value}
}

func color(genus, value string) *Descriptor {
	return leaf(genus, strings.ReplaceAll(genus, "-", "_"), "COLOR", value)
}

func op(genus, typ string, role Role, args ...string) *Descriptor {
	return &Descriptor{Genus: genus, Type: typ, Role: role, Strategy: StrategyOperator, ArgNames: args}
}

func opField(genus, typ, value string, args ...string) *Descriptor {
	d := op(genus, typ, RoleExpression, args...)
	d.OpFieldValue = value
	return d
}

func inlined(d *Descriptor, inline bool) *Descriptor {
	d.Inline = boolPtr(inline)
	return d
}

func expandable(d *Descriptor, name string) *Descriptor {
	d.ExpandableOutputName = name
	return d
}

func special(genus, typ string, role Role, s Strategy) *Descriptor {
	return &Descriptor{Genus: genus, Type: typ, Role: role, Strategy: s}
}

// builtins lists every language-level genus. Component events and methods
// come from the catalog.
func builtins() []*Descriptor {
	return []*Descriptor{
		// variables
		special("argument", "", RoleInert, StrategyScopeDeclaration),
		special("getter", "lexical_variable_get", RoleExpression, StrategyVariableGetter),

		// globals
		special("def", "global_declaration", RoleDeclaration, StrategyGlobalDeclaration),
		special("getterGlobal", "lexical_variable_get", RoleExpression, StrategyGlobalGetter),
		special("setterGlobal", "lexical_variable_set", RoleStatement, StrategyGlobalSetter),

		// component members on named instances and on types
		special("componentGetter", "component_set_get", RoleExpression, StrategyComponentGetter),
		special("componentSetter", "component_set_get", RoleStatement, StrategyComponentSetter),
		special("component", "component_component_block", RoleExpression, StrategyGenericComponent),
		special("componentTypeGetter", "component_set_get", RoleExpression, StrategyGenericGetter),
		special("componentTypeSetter", "component_set_get", RoleStatement, StrategyGenericSetter),

		// procedures
		special("define-void", "procedures_defnoreturn", RoleDeclaration, StrategyProcedureVoid),
		special("define", "procedures_defreturn", RoleDeclaration, StrategyProcedureReturn),
		special("caller", "procedures_callreturn", RoleExpression, StrategyProcedureCall),
		special("caller-command", "procedures_callnoreturn", RoleStatement, StrategyProcedureCall),

		// control
		special("choose", "controls_choose", RoleStatement, StrategyChoose),
		special("if", "controls_if", RoleStatement, StrategyIf),
		special("ifelse", "controls_if", RoleStatement, StrategyIfElse),
		op("glue", "controls_eval_but_ignore", RoleStatement, "VALUE"),
		special("foreach", "controls_forEach", RoleStatement, StrategyForEach),
		special("forrange", "controls_forRange", RoleStatement, StrategyForRange),
		special("while", "controls_while", RoleStatement, StrategyWhile),

		// screens
		op("close-application", "controls_closeApplication", RoleStatement),
		op("close-screen", "controls_closeScreen", RoleStatement),
		op("close-screen-with-plain-text", "controls_closeScreenWithPlainText", RoleStatement, "TEXT"),
		op("close-screen-with-value", "controls_closeScreenWithValue", RoleStatement, "SCREEN"),
		op("get-plain-start-text", "controls_getPlainStartText", RoleExpression),
		op("get-start-value", "controls_getStartValue", RoleExpression),
		op("open-another-screen", "controls_openAnotherScreen", RoleStatement, "SCREEN"),
		op("open-another-screen-with-start-value", "controls_openAnotherScreenWithStartValue", RoleStatement, "SCREENNAME", "STARTVALUE"),

		// colors
		color("color-black", "#000000"),
		color("color-blue", "#0000ff"),
		color("color-cyan", "#00ffff"),
		color("color-dark-gray", "#444444"),
		color("color-light-gray", "#cccccc"),
		color("color-gray", "#888888"),
		color("color-green", "#00ff00"),
		color("color-magenta", "#ff00ff"),
		color("color-orange", "#ffc800"),
		color("color-pink", "#ffafaf"),
		color("color-red", "#ff0000"),
		color("color-white", "#ffffff"),
		color("color-yellow", "#ffff00"),
		special("color-none", "color_make_color", RoleExpression, StrategyNoneColor),
		op("make-color", "color_make_color", RoleExpression, "COLORLIST"),
		op("split-color", "color_split_color", RoleExpression, "COLOR"),

		// logic
		leaf("true", "logic_boolean", "BOOL", "TRUE"),
		leaf("false", "logic_boolean", "BOOL", "FALSE"),
		inlined(opField("yail-equal", "logic_compare", "EQ", "A", "B"), true),
		inlined(opField("yail-not-equal", "logic_compare", "NEQ", "A", "B"), true),
		op("logical-not", "logic_negate", RoleExpression, "BOOL"),
		{Genus: "and", Type: "logic_operation", Role: RoleExpression, Strategy: StrategyBinaryChain,
			Inline: boolPtr(false), OpFieldValue: "AND", ArgNames: []string{"A", "B"}},
		{Genus: "or", Type: "logic_operation", Role: RoleExpression, Strategy: StrategyBinaryChain,
			Inline: boolPtr(false), OpFieldValue: "OR", ArgNames: []string{"A", "B"}},

		// lists
		expandable(op("make-list", "lists_create_with", RoleExpression), "ADD"),
		expandable(op("add-items-to-list", "lists_add_items", RoleStatement, "LIST"), "ITEM"),
		op("append-list", "lists_append_list", RoleStatement, "LIST0", "LIST1"),
		op("list-copy", "lists_copy", RoleExpression, "LIST"),
		op("insert-list-item", "lists_insert_item", RoleStatement, "LIST", "INDEX", "ITEM"),
		op("is-list?", "lists_is_list", RoleExpression, "ITEM"),
		op("list-member", "lists_is_in", RoleExpression, "ITEM", "LIST"),
		op("list-empty?", "lists_is_empty", RoleExpression, "LIST"),
		op("list-length", "lists_length", RoleExpression, "LIST"),
		op("list-from-csv-row", "lists_from_csv_row", RoleExpression, "TEXT"),
		op("list-to-csv-row", "lists_to_csv_row", RoleExpression, "LIST"),
		op("list-from-csv-table", "lists_from_csv_table", RoleExpression, "TEXT"),
		op("list-to-csv-table", "lists_to_csv_table", RoleExpression, "LIST"),
		op("list-lookup-in-pairs", "lists_lookup_in_pairs", RoleExpression, "KEY", "LIST", "NOTFOUND"),
		op("list-pick-random", "lists_pick_random_item", RoleExpression, "LIST"),
		op("list-index", "lists_position_in", RoleExpression, "ITEM", "LIST"),
		op("get-list-item", "lists_select_item", RoleExpression, "LIST", "NUM"),
		op("remove-list-item", "lists_remove_item", RoleStatement, "LIST", "INDEX"),
		op("replace-list-item", "lists_replace_item", RoleStatement, "LIST", "NUM", "ITEM"),

		// math
		leaf("number", "math_number", "NUM", ""),
		inlined(opField("lessthan", "math_compare", "LT", "A", "B"), true),
		inlined(opField("greaterthan", "math_compare", "GT", "A", "B"), true),
		inlined(opField("lessthanorequal", "math_compare", "LTE", "A", "B"), true),
		inlined(opField("greaterthanorequal", "math_compare", "GTE", "A", "B"), true),
		op("number-plus", "math_add", RoleExpression, "NUM0", "NUM1"),
		op("number-minus", "math_subtract", RoleExpression, "A", "B"),
		op("number-times", "math_multiply", RoleExpression, "NUM0", "NUM1"),
		op("number-divide", "math_division", RoleExpression, "A", "B"),
		op("number-expt", "math_power", RoleExpression, "A", "B"),
		op("number-random-integer", "math_random_int", RoleExpression, "FROM", "TO"),
		op("number-random-fraction", "math_random_float", RoleExpression),
		op("number-random-set-seed", "math_random_set_seed", RoleExpression, "NUM"),
		opField("number-sqrt", "math_single", "ROOT", "NUM"),
		opField("number-abs", "math_single", "ABS", "NUM"),
		opField("number-negate", "math_single", "NEG", "NUM"),
		opField("number-log", "math_single", "LN", "NUM"),
		opField("number-exp", "math_single", "EXP", "NUM"),
		opField("number-round", "math_single", "ROUND", "NUM"),
		opField("number-ceiling", "math_single", "CEILING", "NUM"),
		opField("number-floor", "math_single", "FLOOR", "NUM"),
		inlined(opField("number-modulo", "math_divide", "MODULO", "DIVIDEND", "DIVISOR"), false),
		inlined(opField("number-quotient", "math_divide", "QUOTIENT", "DIVIDEND", "DIVISOR"), false),
		inlined(opField("number-remainder", "math_divide", "REMAINDER", "DIVIDEND", "DIVISOR"), false),
		expandable(opField("number-max", "math_on_list", "MAX"), "NUM"),
		expandable(opField("number-min", "math_on_list", "MIN"), "NUM"),
		opField("number-sin", "math_trig", "SIN", "NUM"),
		opField("number-cos", "math_trig", "COS", "NUM"),
		opField("number-tan", "math_trig", "TAN", "NUM"),
		opField("number-asin", "math_trig", "ASIN", "NUM"),
		opField("number-acos", "math_trig", "ACOS", "NUM"),
		opField("number-atan", "math_trig", "ATAN", "NUM"),
		op("number-atan2", "math_trig", RoleExpression, "Y", "X"),
		opField("number-degrees-to-radians", "math_convert_angles", "DEGREES_TO_RADIANS", "NUM"),
		opField("number-radians-to-degrees", "math_convert_angles", "RADIANS_TO_DEGREES", "NUM"),
		op("format-as-decimal", "math_format_as_decimal", RoleExpression, "NUM", "PLACES"),
		op("number-is-number?", "math_is_a_number", RoleExpression, "NUM"),

		// text
		leaf("text", "text", "TEXT", ""),
		{Genus: "string-append", Type: "text_join", Role: RoleExpression, Strategy: StrategyOperator,
			MutatorItems: 2, Inline: boolPtr(true), ArgNames: []string{"ADD0", "ADD1"}},
		expandable(op("string-vappend", "text_join", RoleExpression), "ADD"),
		op("string-contains", "text_contains", RoleExpression, "TEXT", "PIECE"),
		opField("string-downcase", "text_changeCase", "DOWNCASE", "TEXT"),
		opField("string-upcase", "text_changeCase", "UPCASE", "TEXT"),
		op("string-empty?", "text_isEmpty", RoleExpression, "VALUE"),
		inlined(opField("string-equal", "text_compare", "EQUAL", "TEXT1", "TEXT2"), true),
		inlined(opField("string-greater-than", "text_compare", "GT", "TEXT1", "TEXT2"), true),
		inlined(opField("string-less-than", "text_compare", "LT", "TEXT1", "TEXT2"), true),
		op("string-length", "text_length", RoleExpression, "VALUE"),
		op("string-replace-all", "text_replace_all", RoleExpression, "TEXT", "SEGMENT", "REPLACEMENT"),
		op("string-starts-at", "text_starts_at", RoleExpression, "TEXT", "PIECE"),
		opField("string-split", "text_split", "SPLIT", "TEXT", "AT"),
		opField("string-split-at-first", "text_split", "SPLITATFIRST", "TEXT", "AT"),
		opField("string-split-at-any", "text_split", "SPLITATANY", "TEXT", "AT"),
		opField("string-split-at-first-of-any", "text_split", "SPLITATFIRSTOFANY", "TEXT", "AT"),
		op("string-split-at-spaces", "text_split_at_spaces", RoleExpression, "TEXT"),
		op("string-subtext", "text_segment", RoleExpression, "TEXT", "START", "LENGTH"),
		op("string-trim", "text_trim", RoleExpression, "TEXT"),
	}
}

// Rename maps a legacy member to its current name and shape.
type Rename struct {
	Member string
	Kind   string // "property" or "method"
}

// Renames holds the members whose name changed between dialects, keyed by
// "Type.Member".
var Renames = map[string]Rename{
	"Player.IsLooping":  {Member: "Loop", Kind: "property"},
	"Twitter.SetStatus": {Member: "Tweet", Kind: "method"},
}

// RenameMember returns the current name of member on componentType.
func RenameMember(componentType, member, kind string) string {
	if r, ok := Renames[componentType+"."+member]; ok && r.Kind == kind {
		return r.Member
	}
	return member
}

// pointFixes override catalog entries for members that changed shape.
func pointFixes() []*Descriptor {
	return []*Descriptor{
		{Genus: "TinyDB-GetValue", Type: "component_method", Role: RoleExpression, Strategy: StrategyTinyDBGetValue,
			ComponentType: "TinyDB", MemberName: "GetValue"},
		{Genus: "Type-TinyDB-GetValue", Role: RoleExpression, Strategy: StrategyUnimplemented,
			Message: "Conversion of the generic form of TinyDB.GetValue has not been implemented."},
		{Genus: "Screen-OpenScreenAnimation", Type: "component_set_get", Role: RoleStatement, Strategy: StrategyScreenAnimation,
			ComponentType: "Screen", MemberName: "OpenScreenAnimation"},
		{Genus: "Screen-CloseScreenAnimation", Type: "component_set_get", Role: RoleStatement, Strategy: StrategyScreenAnimation,
			ComponentType: "Screen", MemberName: "CloseScreenAnimation"},
	}
}
