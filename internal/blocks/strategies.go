package blocks

import (
	"strconv"
	"strings"

	"github.com/cmmoran/ai1convert/internal/model"
	"github.com/cmmoran/ai1convert/internal/rules"
)

type strategyFunc func(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error

var strategies map[rules.Strategy]strategyFunc

func init() {
	strategies = map[rules.Strategy]strategyFunc{
		rules.StrategyLeaf:              convertLeaf,
		rules.StrategyVariableGetter:    convertVariableGetter,
		rules.StrategyComponentGetter:   convertComponentGetter,
		rules.StrategyComponentSetter:   convertComponentSetter,
		rules.StrategyComponentEvent:    convertComponentEvent,
		rules.StrategyComponentMethod:   convertComponentMethod,
		rules.StrategyGenericComponent:  convertGenericComponent,
		rules.StrategyGenericGetter:     convertGenericGetter,
		rules.StrategyGenericSetter:     convertGenericSetter,
		rules.StrategyGenericMethod:     convertGenericMethod,
		rules.StrategyGlobalDeclaration: convertGlobalDeclaration,
		rules.StrategyGlobalGetter:      convertGlobalGetter,
		rules.StrategyGlobalSetter:      convertGlobalSetter,
		rules.StrategyOperator:          convertOperator,
		rules.StrategyBinaryChain:       convertBinaryChain,
		rules.StrategyIf:                convertIf,
		rules.StrategyIfElse:            convertIfElse,
		rules.StrategyChoose:            convertChoose,
		rules.StrategyWhile:             convertWhile,
		rules.StrategyForEach:           convertForEach,
		rules.StrategyForRange:          convertForRange,
		rules.StrategyProcedureVoid:     convertVoidProcedure,
		rules.StrategyProcedureReturn:   convertReturnProcedure,
		rules.StrategyProcedureCall:     convertProcedureCall,
		rules.StrategyNoneColor:         convertNoneColor,
		rules.StrategyTinyDBGetValue:    convertTinyDBGetValue,
		rules.StrategyScreenAnimation:   convertScreenAnimation,
		rules.StrategyUnimplemented:     convertUnimplemented,
		rules.StrategyScopeDeclaration:  convertScopeDeclaration,
	}
}

// leaves

func convertLeaf(_ *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	value := d.FieldValue
	if value == "" {
		value = n.Label
	}
	if d.Type == "text" {
		value = RepairString(value)
	}
	e.Append(model.Field(d.FieldName, value))
	return nil
}

func convertVariableGetter(s *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	e.Append(model.Field("VAR", s.lookupBinding(n.Label)))
	return nil
}

// scope declarations reach here only when referenced as an ordinary child
func convertScopeDeclaration(s *Session, n *model.Node, _ *rules.Descriptor, _ *model.Element) error {
	return s.errorf(n, "name declaration %q used as a value", n.Label)
}

// component members

// member splits an "owner.member" label.
func (s *Session) member(n *model.Node) (string, string, error) {
	owner, member, ok := strings.Cut(n.Label, ".")
	if !ok || owner == "" || member == "" {
		return "", "", s.errorf(n, "label %q is not of the form owner.member", n.Label)
	}
	return owner, member, nil
}

// componentType resolves an instance name, falling back to the descriptor's
// type for catalog members.
func (s *Session) componentType(n *model.Node, d *rules.Descriptor, instance string) (string, error) {
	if typ, ok := s.graph.ComponentTypes[instance]; ok {
		return typ, nil
	}
	if d.ComponentType != "" {
		return d.ComponentType, nil
	}
	return "", s.errorf(n, "unknown component instance %q", instance)
}

func propertyMutation(typ, instance, property, setOrGet string) *model.Element {
	return model.NewElement("mutation",
		"component_type", typ,
		"instance_name", instance,
		"property_name", property,
		"set_or_get", setOrGet,
		"is_generic", "false")
}

func (s *Session) namedProperty(n *model.Node, d *rules.Descriptor, e *model.Element, setOrGet string) error {
	instance, property, err := s.member(n)
	if err != nil {
		return err
	}
	typ, err := s.componentType(n, d, instance)
	if err != nil {
		return err
	}
	s.features.Add(typ, model.FeatureProperty, property)
	property = rules.RenameMember(typ, property, "property")

	e.Set("inline", "false")
	e.Append(
		propertyMutation(typ, instance, property, setOrGet),
		model.Field("COMPONENT_SELECTOR", instance),
		model.Field("PROP", property),
	)
	return nil
}

func convertComponentGetter(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	return s.namedProperty(n, d, e, "get")
}

func convertComponentSetter(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	if err := s.namedProperty(n, d, e, "set"); err != nil {
		return err
	}
	if err := s.resolveLabel(e, n, "to", "VALUE"); err != nil {
		return err
	}
	s.resolveNext(e, n)
	return nil
}

func convertComponentEvent(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	instance, event, err := s.member(n)
	if err != nil {
		return err
	}
	typ, err := s.componentType(n, d, instance)
	if err != nil {
		return err
	}
	s.features.Add(typ, model.FeatureEvent, event)

	e.Append(
		model.NewElement("mutation",
			"component_type", typ,
			"instance_name", instance,
			"event_name", event),
		model.Field("COMPONENT_SELECTOR", instance),
	)

	params := n.ExpressionSockets()
	if !sameLabels(params, d.ParamNames) {
		return s.errorf(n, "socket labels %s do not match event parameters %s",
			listString(socketLabels(params)), listString(d.ParamNames))
	}
	// parameters are bound before the body so uses inside it resolve
	for i, p := range params {
		if p.Empty() {
			continue
		}
		if name, ok := s.declaredName(p.Target); ok {
			s.bind(name, d.ParamNames[i])
		}
	}
	return s.resolveLabel(e, n, "do", "DO")
}

func (s *Session) namedMethod(n *model.Node, d *rules.Descriptor, e *model.Element) error {
	instance, method, err := s.member(n)
	if err != nil {
		return err
	}
	typ, err := s.componentType(n, d, instance)
	if err != nil {
		return err
	}
	s.features.Add(typ, model.FeatureMethod, method)
	method = rules.RenameMember(typ, method, "method")

	e.Append(
		model.NewElement("mutation",
			"component_type", typ,
			"instance_name", instance,
			"method_name", method,
			"is_generic", "false"),
		model.Field("COMPONENT_SELECTOR", instance),
	)
	for i, c := range n.ExpressionSockets() {
		if err := s.resolveSocket(e, n, c, "ARG"+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	return nil
}

func convertComponentMethod(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	if err := s.namedMethod(n, d, e); err != nil {
		return err
	}
	if d.Role == rules.RoleStatement {
		s.resolveNext(e, n)
	}
	return nil
}

func convertGenericComponent(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	instance := n.Label
	typ, err := s.componentType(n, d, instance)
	if err != nil {
		return err
	}
	e.Append(
		model.NewElement("mutation",
			"component_type", typ,
			"instance_name", instance),
		model.Field("COMPONENT_SELECTOR", instance),
	)
	return nil
}

func (s *Session) genericProperty(n *model.Node, e *model.Element, setOrGet string) error {
	typ, property, err := s.member(n)
	if err != nil {
		return err
	}
	s.features.Add(typ, model.FeatureProperty, property)
	property = rules.RenameMember(typ, property, "property")

	e.Set("inline", "false")
	e.Append(
		model.NewElement("mutation",
			"component_type", typ,
			"property_name", property,
			"set_or_get", setOrGet,
			"is_generic", "true"),
		model.Field("PROP", property),
	)
	return s.resolveLabel(e, n, "component", "COMPONENT")
}

func convertGenericGetter(s *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	return s.genericProperty(n, e, "get")
}

func convertGenericSetter(s *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	if err := s.genericProperty(n, e, "set"); err != nil {
		return err
	}
	if err := s.resolveLabel(e, n, "to", "VALUE"); err != nil {
		return err
	}
	s.resolveNext(e, n)
	return nil
}

func convertGenericMethod(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	typ, method, err := s.member(n)
	if err != nil {
		return err
	}
	s.features.Add(typ, model.FeatureMethod, method)
	method = rules.RenameMember(typ, method, "method")

	e.Append(model.NewElement("mutation",
		"component_type", typ,
		"method_name", method,
		"is_generic", "true"))
	if err := s.resolveLabel(e, n, "component", "COMPONENT"); err != nil {
		return err
	}
	args := n.ExpressionSockets()
	if len(args) > 0 {
		args = args[1:]
	}
	for i, c := range args {
		if err := s.resolveSocket(e, n, c, "ARG"+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	if d.Role == rules.RoleStatement {
		s.resolveNext(e, n)
	}
	return nil
}

// globals

func convertGlobalDeclaration(s *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	e.Append(model.Field("NAME", n.Label))
	return s.resolveLabel(e, n, "as", "VALUE")
}

func globalName(label string) string { return "global " + label }

func convertGlobalGetter(_ *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	e.Append(model.Field("VAR", globalName(n.Label)))
	return nil
}

func convertGlobalSetter(s *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	e.Append(model.Field("VAR", globalName(n.Label)))
	if err := s.resolveLabel(e, n, "to", "VALUE"); err != nil {
		return err
	}
	s.resolveNext(e, n)
	return nil
}

// operators

func setInline(d *rules.Descriptor, e *model.Element) {
	if d.Inline != nil {
		e.Set("inline", strconv.FormatBool(*d.Inline))
	}
}

// expandables returns the variable-arity sockets of n without the trailing
// placeholder, which must be empty.
func (s *Session) expandables(n *model.Node) ([]*model.Connector, error) {
	ex := n.ExpandableSockets()
	if len(ex) == 0 {
		return ex, nil
	}
	last := ex[len(ex)-1]
	if !last.Empty() {
		return nil, s.errorf(n, "last expandable socket is connected to block %d", last.Target)
	}
	return ex[:len(ex)-1], nil
}

func convertOperator(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	setInline(d, e)

	var ex []*model.Connector
	if d.ExpandableOutputName != "" || d.MutatorItems > 0 {
		var err error
		if ex, err = s.expandables(n); err != nil {
			return err
		}
		items := d.MutatorItems
		if items == 0 {
			items = len(ex)
		}
		e.Append(model.NewElement("mutation", "items", strconv.Itoa(items)))
	}
	if d.OpFieldValue != "" {
		e.Append(model.Field(d.OpField(), d.OpFieldValue))
	}

	fixed := n.FixedSockets()
	if len(fixed) != len(d.ArgNames) {
		return s.errorf(n, "block has %d argument sockets but %d argument names", len(fixed), len(d.ArgNames))
	}
	for i, c := range fixed {
		if err := s.resolveSocket(e, n, c, d.ArgNames[i]); err != nil {
			return err
		}
	}
	if d.ExpandableOutputName != "" {
		for i, c := range ex {
			if err := s.resolveSocket(e, n, c, d.ExpandableOutputName+strconv.Itoa(i)); err != nil {
				return err
			}
		}
	}

	if d.Role == rules.RoleStatement {
		s.resolveNext(e, n)
	}
	return nil
}

// convertBinaryChain folds a variable-arity and/or into right-nested two
// argument blocks.
func convertBinaryChain(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	ex, err := s.expandables(n)
	if err != nil {
		return err
	}
	ids := make([]int, len(ex))
	for i, c := range ex {
		ids[i] = c.Target
	}
	s.chain(n, d, e, ids)
	if d.Role == rules.RoleStatement {
		s.resolveNext(e, n)
	}
	return nil
}

func (s *Session) chain(n *model.Node, d *rules.Descriptor, e *model.Element, ids []int) {
	setInline(d, e)
	if d.OpFieldValue != "" {
		e.Append(model.Field(d.OpField(), d.OpFieldValue))
	}
	if len(ids) == 0 {
		return
	}
	if first := s.operand(n, ids[0]); first != nil {
		e.Append(model.Named("value", d.ArgNames[0], first))
	}
	switch len(ids) {
	case 1:
	case 2:
		if second := s.operand(n, ids[1]); second != nil {
			e.Append(model.Named("value", d.ArgNames[1], second))
		}
	default:
		sub := model.Block(s.freshID(), d.Type)
		e.Append(model.Named("value", d.ArgNames[1], sub))
		s.chain(n, d, sub, ids[1:])
	}
}

// control forms

func convertIf(s *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	e.Append(model.NewElement("mutation", "elseif", "0", "else", "0"))
	return s.resolveAll(e, n, "test", "IF0", "then-do", "DO0")
}

func convertIfElse(s *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	e.Append(model.NewElement("mutation", "elseif", "0", "else", "1"))
	return s.resolveAll(e, n, "test", "IF0", "then-do", "DO0", "else-do", "ELSE")
}

func convertChoose(s *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	if err := s.resolveLabel(e, n, "test", "TEST"); err != nil {
		return err
	}
	if err := s.statementThenExpression(e, n, "then-do", "then-return", "THENRETURN"); err != nil {
		return err
	}
	return s.statementThenExpression(e, n, "else-do", "else-return", "ELSERETURN")
}

func convertWhile(s *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	return s.resolveAll(e, n, "test", "TEST", "do", "DO")
}

func convertForEach(s *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	if err := s.loopVariable(e, n); err != nil {
		return err
	}
	return s.resolveAll(e, n, "in list", "LIST", "do", "DO")
}

func convertForRange(s *Session, n *model.Node, _ *rules.Descriptor, e *model.Element) error {
	if err := s.loopVariable(e, n); err != nil {
		return err
	}
	return s.resolveAll(e, n, "start", "START", "end", "END", "step", "STEP", "do", "DO")
}

// resolveAll resolves label/role pairs in order, then the next statement.
func (s *Session) resolveAll(e *model.Element, n *model.Node, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := s.resolveLabel(e, n, pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	s.resolveNext(e, n)
	return nil
}

// loopVariable binds a loop variable to itself and emits its VAR field.
func (s *Session) loopVariable(e *model.Element, n *model.Node) error {
	c, ok := n.Socket("variable")
	if !ok {
		return s.errorf(n, "no socket labelled %q", "variable")
	}
	if c.Empty() {
		return nil
	}
	if name, ok := s.declaredName(c.Target); ok {
		s.bind(name, name)
		e.Append(model.Field("VAR", name))
	}
	return nil
}

// statementThenExpression attaches the expression under role, wrapped in a
// do-then-return block when a statement precedes it.
func (s *Session) statementThenExpression(e *model.Element, n *model.Node, stmLabel, expLabel, role string) error {
	stm, ok := n.Socket(stmLabel)
	if !ok {
		return s.errorf(n, "no socket labelled %q", stmLabel)
	}
	exp, ok := n.Socket(expLabel)
	if !ok {
		return s.errorf(n, "no socket labelled %q", expLabel)
	}
	if stm.Empty() {
		return s.resolveSocket(e, n, exp, role)
	}

	wrapper := model.Block(s.freshID(), "controls_do_then_return").Set("inline", "false")
	s.parentOf[stm.Target] = n.ID
	if body := s.Convert(stm.Target); body != nil {
		wrapper.Append(model.Named("statement", "STM", body))
	}
	if !exp.Empty() {
		if value := s.operand(n, exp.Target); value != nil {
			wrapper.Append(model.Named("value", "VALUE", value))
		}
	}
	e.Append(model.Named("value", role, wrapper))
	return nil
}

// procedures

func (s *Session) procedureHeader(n *model.Node, d *rules.Descriptor, e *model.Element) {
	decls := n.ExpressionSockets()
	if d.Strategy == rules.StrategyProcedureReturn && len(decls) > 0 {
		decls = decls[:len(decls)-1] // return socket
	}
	if len(decls) > 0 {
		decls = decls[:len(decls)-1] // trailing placeholder
	}

	params := make([]string, len(decls))
	for i, c := range decls {
		params[i] = "unnamedArg" + strconv.Itoa(i)
		if c.Empty() {
			continue
		}
		if name, ok := s.declaredName(c.Target); ok {
			params[i] = name
			s.bind(name, name)
		}
	}

	e.Append(argsMutation(n.Label, params), model.Field("NAME", n.Label))
	for i, p := range params {
		e.Append(model.Field("VAR"+strconv.Itoa(i), p))
	}
}

func argsMutation(procName string, args []string) *model.Element {
	m := model.NewElement("mutation", "name", procName)
	for _, a := range args {
		m.Append(model.NewElement("arg", "name", a))
	}
	return m
}

func convertVoidProcedure(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	s.procedureHeader(n, d, e)
	return s.resolveLabel(e, n, "do", "STACK")
}

func convertReturnProcedure(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	s.procedureHeader(n, d, e)
	return s.statementThenExpression(e, n, "do", "return", "RETURN")
}

func convertProcedureCall(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	args := n.ExpressionSockets()
	e.Append(argsMutation(n.Label, socketLabels(args)), model.Field("PROCNAME", n.Label))
	for i, c := range args {
		if err := s.resolveSocket(e, n, c, "ARG"+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	if d.Role == rules.RoleStatement {
		s.resolveNext(e, n)
	}
	return nil
}

// point-fixes

// convertNoneColor builds make-color of the list (255 255 255 0), the
// transparent white the current dialect lacks a literal for.
func convertNoneColor(s *Session, _ *model.Node, _ *rules.Descriptor, e *model.Element) error {
	e.Set("inline", "false")
	list := model.Block(s.freshID(), "lists_create_with").Set("inline", "false")
	list.Append(model.NewElement("mutation", "items", "4"))
	for i, v := range []string{"255", "255", "255", "0"} {
		num := model.Block(s.freshID(), "math_number").Append(model.Field("NUM", v))
		list.Append(model.Named("value", "ADD"+strconv.Itoa(i), num))
	}
	e.Append(model.Named("value", "COLORLIST", list))
	return nil
}

// convertTinyDBGetValue adds the valueIfTagNotThere argument, defaulting to
// the empty text.
func convertTinyDBGetValue(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	if err := s.namedMethod(n, d, e); err != nil {
		return err
	}
	empty := model.Block(s.freshID(), "text").Append(model.Field("TEXT", ""))
	e.Append(model.Named("value", "ARG1", empty))
	return nil
}

// convertScreenAnimation turns the animation methods into property setters.
func convertScreenAnimation(s *Session, n *model.Node, d *rules.Descriptor, e *model.Element) error {
	instance, property, err := s.member(n)
	if err != nil {
		return err
	}
	typ, err := s.componentType(n, d, instance)
	if err != nil {
		return err
	}
	s.features.Add(typ, model.FeatureMethod, property)

	e.Set("inline", "false")
	e.Append(
		propertyMutation(typ, instance, property, "set"),
		model.Field("COMPONENT_SELECTOR", instance),
		model.Field("PROP", property),
	)
	if err := s.resolveLabel(e, n, "animType", "VALUE"); err != nil {
		return err
	}
	s.resolveNext(e, n)
	return nil
}

func convertUnimplemented(s *Session, n *model.Node, d *rules.Descriptor, _ *model.Element) error {
	return s.errorf(n, "conversion not implemented: %s", d.Message)
}

func socketLabels(cs []*model.Connector) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Label
	}
	return out
}

func sameLabels(cs []*model.Connector, names []string) bool {
	if len(cs) != len(names) {
		return false
	}
	for i, c := range cs {
		if c.Label != names[i] {
			return false
		}
	}
	return true
}

func listString(names []string) string {
	return "[" + strings.Join(names, ",") + "]"
}
