package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"tir/internal/ast"
	"tir/internal/classify"
	"tir/internal/locate"
	"tir/internal/names"
	"tir/internal/rules"
	"tir/internal/scope"
)

type recordKey struct {
	runtime string
	module  string
}

// walker carries the per-template state of one resolution pass.
type walker struct {
	eng *Engine
	res *TemplateResult

	// owner is the component this template belongs to, when it is a
	// component template at all. Its capabilities decide whether
	// @-rooted invocations inside the template are trusted.
	owner      string
	ownerCaps  rules.Capabilities
	ownerRuled bool

	seen map[recordKey]int
}

func (w *walker) walk(nodes []ast.Node, sc *scope.Chain) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *ast.TextNode:
		case *ast.MustacheNode:
			w.handleMustache(n, sc)
		case *ast.ElementNode:
			w.handleElement(n, sc)
		}
	}
}

func (w *walker) capsFor(name string) (rules.Capabilities, bool) {
	return w.eng.table.CapabilitiesFor(name, w.res.Path)
}

// --- mustache position ---

func (w *walker) handleMustache(m *ast.MustacheNode, sc *scope.Chain) {
	if m.Path == nil {
		// literal head, nothing invocable
		w.walkExprs(m.Params, m.Hash, sc)
		return
	}
	switch classify.PathKind(m.Path, sc) {
	case classify.KindBuiltin:
		w.handleBuiltin(m, sc)
	case classify.KindLocal, classify.KindData:
		w.handleDynamic(m, sc)
	case classify.KindName:
		if m.IsBlock() {
			w.blockComponent(m, sc)
		} else {
			w.contentMustache(m, sc)
		}
	}
}

// handleBuiltin covers keywords the runtime provides. Their heads never
// resolve to modules, but their arguments and bodies still do.
func (w *walker) handleBuiltin(m *ast.MustacheNode, sc *scope.Chain) {
	head := m.Path.Head
	var yieldCaps rules.Capabilities
	if head == "component" {
		yieldCaps = w.componentExpr(m.Params, m.Hash, sc)
	} else {
		w.walkExprs(m.Params, m.Hash, sc)
	}
	if m.Block == nil {
		return
	}
	bindings := make([]scope.Binding, len(m.Block.Params))
	for i, name := range m.Block.Params {
		tr := scope.Trust{}
		switch head {
		case "let", "with":
			// aliasing keywords pass each value through untouched
			if i < len(m.Params) {
				tr = w.exprTrust(m.Params[i], sc)
			}
		case "component":
			tr = w.slotTrust(i, yieldCaps, hashArg(m.Hash), sc)
		}
		bindings[i] = scope.Binding{Name: name, Slot: i, Node: m, Trust: tr}
	}
	w.walk(m.Block.Body, sc.Push(bindings...))
	w.walk(m.Block.Else, sc)
}

// handleDynamic covers heads rooted in scope, `this`, or an argument.
// Value uses pass silently. A block invocation through an untrusted
// value is skipped with a warning when components are static.
func (w *walker) handleDynamic(m *ast.MustacheNode, sc *scope.Chain) {
	if m.IsBlock() && w.eng.opts.StaticComponents && !w.pathTrust(m.Path, sc).Invoke {
		w.warnDynamic(m.Path.String(), m.Loc)
	}
	w.walkExprs(m.Params, m.Hash, sc)
	if m.Block == nil {
		return
	}
	bindings := make([]scope.Binding, len(m.Block.Params))
	for i, name := range m.Block.Params {
		bindings[i] = scope.Binding{Name: name, Slot: i, Node: m}
	}
	w.walk(m.Block.Body, sc.Push(bindings...))
	w.walk(m.Block.Else, sc)
}

// blockComponent handles `{{#some-name ...}}`: block form is always
// component position.
func (w *walker) blockComponent(m *ast.MustacheNode, sc *scope.Chain) {
	name := names.Canonical(m.Path.Head)
	caps, _ := w.capsFor(name)
	if w.eng.opts.StaticComponents {
		if mods, ok := w.eng.modules.Component(name); ok {
			w.emitComponent(name, mods, m.Loc, m.Path.String())
		} else if !caps.SafeToIgnore {
			w.missingComponent(name, m.Loc)
		}
	}
	w.componentArgs(m.Params, m.Hash, caps, sc)
	bindings := make([]scope.Binding, len(m.Block.Params))
	for i, pname := range m.Block.Params {
		bindings[i] = scope.Binding{Name: pname, Slot: i, Node: m, Trust: w.slotTrust(i, caps, hashArg(m.Hash), sc)}
	}
	w.walk(m.Block.Body, sc.Push(bindings...))
	w.walk(m.Block.Else, sc)
}

// contentMustache handles the one genuinely ambiguous position: a bare
// name in content can be a helper call, an inline component, or (when
// argument-less) a property the runtime falls back to. Both readings
// allowed by policy and rules are tried against the module layout; what
// happens next depends on how many matched.
func (w *walker) contentMustache(m *ast.MustacheNode, sc *scope.Chain) {
	name := names.Canonical(m.Path.Head)
	caps, _ := w.capsFor(name)
	tryHelper := w.eng.opts.StaticHelpers &&
		(caps.Disambiguate == "" || caps.Disambiguate == rules.DisambiguateHelper)
	tryComponent := w.eng.opts.StaticComponents &&
		(caps.Disambiguate == "" || caps.Disambiguate == rules.DisambiguateComponent)

	var helperMod *locate.Module
	if tryHelper {
		helperMod, _ = w.eng.modules.Helper(name)
	}
	var compMods locate.ComponentModules
	compFound := false
	if tryComponent {
		compMods, compFound = w.eng.modules.Component(name)
	}

	switch {
	case helperMod != nil && compFound:
		w.error(CodeAmbiguousInvocation, m.Loc, fmt.Sprintf(
			"%q is provided by both a helper and a component module; add a disambiguate rule to pick one reading", name))
		w.walkExprs(m.Params, m.Hash, sc)
	case helperMod != nil:
		w.emitHelper(name, helperMod, m.Loc, m.Path.String())
		w.walkExprs(m.Params, m.Hash, sc)
	case compFound:
		w.emitComponent(name, compMods, m.Loc, m.Path.String())
		w.componentArgs(m.Params, m.Hash, caps, sc)
	default:
		w.walkExprs(m.Params, m.Hash, sc)
		if !tryHelper && !tryComponent {
			return
		}
		if caps.SafeToIgnore {
			return
		}
		if !m.HasArguments() {
			// a bare mustache may still be a property lookup at
			// runtime, so an unresolved one is tolerated
			return
		}
		switch {
		case tryHelper && tryComponent:
			w.error(CodeAmbiguousInvocation, m.Loc, fmt.Sprintf(
				"%q takes arguments but is neither a known helper nor a known component%s", name, ruleHint(name)))
		case tryHelper:
			w.error(CodeMissingHelper, m.Loc, fmt.Sprintf(
				"missing helper %q: no helper module found%s", name, ruleHint(name)))
		default:
			w.missingComponent(name, m.Loc)
		}
	}
}

// --- element position ---

func (w *walker) handleElement(el *ast.ElementNode, sc *scope.Chain) {
	tag := classify.TagInfo(el.Tag, el.Loc, sc)
	caps := rules.Capabilities{}
	switch tag.Kind {
	case classify.KindName:
		caps, _ = w.capsFor(tag.Name)
		if w.eng.opts.StaticComponents {
			if mods, ok := w.eng.modules.Component(tag.Name); ok {
				w.emitComponent(tag.Name, mods, el.Loc, el.Tag)
			} else if !caps.SafeToIgnore {
				w.missingComponent(tag.Name, el.Loc)
			}
		}
	case classify.KindLocal, classify.KindData:
		// angle brackets always invoke, so trust is required here
		if w.eng.opts.StaticComponents && !w.pathTrust(tag.Path, sc).Invoke {
			w.warnDynamic(tag.Path.String(), el.Loc)
		}
	}
	for _, at := range el.Attrs {
		if at.Value == nil {
			continue
		}
		w.componentArg(at.Value, strings.HasPrefix(at.Name, "@") && caps.AcceptsArgument(at.Name), sc)
	}
	for _, mod := range el.Modifiers {
		// modifier heads are runtime values; only arguments resolve
		w.walkExprs(mod.Params, mod.Hash, sc)
	}
	bindings := make([]scope.Binding, len(el.BlockParams))
	for i, pname := range el.BlockParams {
		bindings[i] = scope.Binding{Name: pname, Slot: i, Node: el, Trust: w.slotTrust(i, caps, attrArg(el.Attrs), sc)}
	}
	w.walk(el.Children, sc.Push(bindings...))
}

// --- argument and subexpression positions ---

func (w *walker) walkExprs(params []ast.Expr, hash []ast.HashPair, sc *scope.Chain) {
	for _, p := range params {
		w.walkExpr(p, sc)
	}
	for _, h := range hash {
		w.walkExpr(h.Value, sc)
	}
}

func (w *walker) walkExpr(e ast.Expr, sc *scope.Chain) {
	if se, ok := e.(*ast.SubExprNode); ok {
		w.subExpr(se, sc)
	}
}

// subExpr is unambiguous helper position. An unresolved head here is
// always fatal: parentheses leave no property fallback to hide behind.
func (w *walker) subExpr(se *ast.SubExprNode, sc *scope.Chain) {
	if se.Path == nil {
		w.walkExprs(se.Params, se.Hash, sc)
		return
	}
	switch classify.PathKind(se.Path, sc) {
	case classify.KindBuiltin:
		if se.Path.Head == "component" {
			w.componentExpr(se.Params, se.Hash, sc)
			return
		}
		w.walkExprs(se.Params, se.Hash, sc)
	case classify.KindLocal, classify.KindData:
		// a helper passed in as a value; nothing static to pin
		w.walkExprs(se.Params, se.Hash, sc)
	case classify.KindName:
		if w.eng.opts.StaticHelpers {
			name := names.Canonical(se.Path.Head)
			if mod, ok := w.eng.modules.Helper(name); ok {
				w.emitHelper(name, mod, se.Loc, se.Path.String())
			} else if caps, _ := w.capsFor(name); !caps.SafeToIgnore {
				w.error(CodeMissingHelper, se.Loc, fmt.Sprintf(
					"missing helper %q: no helper module found%s", name, ruleHint(name)))
			}
		}
		w.walkExprs(se.Params, se.Hash, sc)
	}
}

// componentExpr handles the `component` keyword in any position. A
// string first argument names a component that must resolve; anything
// else is a passed-through value that had better be trusted. The named
// component's capabilities come back so block params and curried
// arguments can be interpreted.
func (w *walker) componentExpr(params []ast.Expr, hash []ast.HashPair, sc *scope.Chain) rules.Capabilities {
	caps := rules.Capabilities{}
	if len(params) > 0 {
		if s, ok := params[0].(*ast.StringNode); ok {
			w.resolveComponentName(s.Value, s.Loc)
			caps, _ = w.capsFor(names.Canonical(s.Value))
		} else {
			w.walkExpr(params[0], sc)
			if w.eng.opts.StaticComponents && !w.exprTrust(params[0], sc).Invoke {
				w.warnDynamic(exprLabel(params[0]), params[0].Pos())
			}
		}
		for _, p := range params[1:] {
			w.walkExpr(p, sc)
		}
	}
	// hash entries curry arguments onto the component
	for _, h := range hash {
		w.componentArg(h.Value, caps.AcceptsArgument(h.Key), sc)
	}
	return caps
}

// componentArgs walks the arguments of a resolved component invocation.
// String arguments the component declares as component-bearing resolve
// like invocations themselves; dynamic values in those positions need
// yield trust or they draw a warning, same as a dynamic `component`
// expression.
func (w *walker) componentArgs(params []ast.Expr, hash []ast.HashPair, caps rules.Capabilities, sc *scope.Chain) {
	for i, p := range params {
		w.componentArg(p, caps.AcceptsArgument(strconv.Itoa(i)), sc)
	}
	for _, h := range hash {
		w.componentArg(h.Value, caps.AcceptsArgument(h.Key), sc)
	}
}

func (w *walker) componentArg(e ast.Expr, declared bool, sc *scope.Chain) {
	if !declared {
		w.walkExpr(e, sc)
		return
	}
	if s, ok := e.(*ast.StringNode); ok {
		w.resolveComponentName(s.Value, s.Loc)
		return
	}
	w.walkExpr(e, sc)
	if w.eng.opts.StaticComponents && !w.exprTrust(e, sc).Invoke {
		w.warnDynamic(exprLabel(e), e.Pos())
	}
}

// --- trust ---

// slotTrust computes the trust of block param slot i from the yield
// capabilities of the invoked component, folding in aliased arguments
// whose values at this call site are themselves trusted.
func (w *walker) slotTrust(slot int, caps rules.Capabilities, arg func(string) ast.Expr, sc *scope.Chain) scope.Trust {
	tr := scope.Trust{}
	if slot < len(caps.YieldsSafeComponents) {
		c := caps.YieldsSafeComponents[slot]
		tr.Invoke = c.Self
		for k, v := range c.Props {
			if v {
				trustProp(&tr, k)
			}
		}
	}
	if slot < len(caps.YieldsArguments) {
		al := caps.YieldsArguments[slot]
		if al.Argument != "" {
			if e := arg(al.Argument); e != nil && w.argTrust(e, al.Argument, caps, sc).Invoke {
				tr.Invoke = true
			}
		}
		for prop, argName := range al.Props {
			if e := arg(argName); e != nil && w.argTrust(e, argName, caps, sc).Invoke {
				trustProp(&tr, prop)
			}
		}
	}
	return tr
}

// argTrust is exprTrust plus one extra source: a string passed in a
// component-bearing argument was already resolved to a module, so the
// value it produces is a safe component.
func (w *walker) argTrust(e ast.Expr, argName string, caps rules.Capabilities, sc *scope.Chain) scope.Trust {
	if s, ok := e.(*ast.StringNode); ok && caps.AcceptsArgument(argName) {
		if _, found := w.eng.modules.Component(names.Canonical(s.Value)); found {
			return scope.Trust{Invoke: true}
		}
		return scope.Trust{}
	}
	return w.exprTrust(e, sc)
}

// exprTrust decides whether an expression produces a safe component
// value. Only the `component` keyword, a `hash` of trusted values, and
// paths to already trusted bindings qualify.
func (w *walker) exprTrust(e ast.Expr, sc *scope.Chain) scope.Trust {
	switch e := e.(type) {
	case *ast.PathNode:
		return w.pathTrust(e, sc)
	case *ast.SubExprNode:
		if e.Path == nil || classify.PathKind(e.Path, sc) != classify.KindBuiltin {
			return scope.Trust{}
		}
		switch e.Path.Head {
		case "component":
			return scope.Trust{Invoke: true}
		case "hash":
			tr := scope.Trust{}
			for _, h := range e.Hash {
				if w.exprTrust(h.Value, sc).Invoke {
					trustProp(&tr, h.Key)
				}
			}
			return tr
		}
	}
	return scope.Trust{}
}

func (w *walker) pathTrust(p *ast.PathNode, sc *scope.Chain) scope.Trust {
	if p.This || p.Data {
		// Reads against the component's own surface are trusted only
		// when a rule maps an argument onto the property being read.
		if w.ownerRuled && len(p.Tail) == 0 && w.ownerCaps.TrustsInterior(p.Head) {
			return scope.Trust{Invoke: true}
		}
		return scope.Trust{}
	}
	b, ok := sc.Resolve(p.Head)
	if !ok {
		return scope.Trust{}
	}
	switch len(p.Tail) {
	case 0:
		return b.Trust
	case 1:
		return scope.Trust{Invoke: b.Trust.Props[p.Tail[0]]}
	default:
		return scope.Trust{}
	}
}

func trustProp(t *scope.Trust, key string) {
	if t.Props == nil {
		t.Props = make(map[string]bool)
	}
	t.Props[key] = true
}

// hashArg looks arguments up by name on a curly invocation.
func hashArg(hash []ast.HashPair) func(string) ast.Expr {
	return func(name string) ast.Expr {
		for _, h := range hash {
			if h.Key == name {
				return h.Value
			}
		}
		return nil
	}
}

// attrArg looks arguments up by name on an element invocation, where
// they are spelled with an `@` prefix.
func attrArg(attrs []ast.AttrNode) func(string) ast.Expr {
	return func(name string) ast.Expr {
		for _, at := range attrs {
			if at.Name == "@"+name {
				return at.Value
			}
		}
		return nil
	}
}

// --- resolution and emission ---

// resolveComponentName resolves a component named by a string (in a
// `component` expression or a component-bearing argument). The name
// must exist even when the components policy is off: a literal asks
// for one component by name, so a miss is fatal either way. The
// policy only gates record emission.
func (w *walker) resolveComponentName(raw string, loc ast.Loc) {
	name := names.Canonical(raw)
	if mods, ok := w.eng.modules.Component(name); ok {
		if w.eng.opts.StaticComponents {
			w.emitComponent(name, mods, loc, raw)
		}
		return
	}
	if caps, _ := w.capsFor(name); caps.SafeToIgnore {
		return
	}
	w.missingComponent(name, loc)
}

func (w *walker) emitComponent(name string, mods locate.ComponentModules, loc ast.Loc, source string) {
	primary := mods.Script
	if primary == nil {
		primary = mods.Template
	}
	if mods.Script != nil {
		w.record("component", name, mods.Script, loc)
	}
	if mods.Template != nil {
		w.record("component", name, mods.Template, loc)
	}
	w.res.Rewrites = append(w.res.Rewrites, Rewrite{
		Loc:    loc,
		From:   source,
		To:     primary.RuntimeName,
		Module: primary.Path,
	})
}

func (w *walker) emitHelper(name string, mod *locate.Module, loc ast.Loc, source string) {
	w.record("helper", name, mod, loc)
	w.res.Rewrites = append(w.res.Rewrites, Rewrite{
		Loc:    loc,
		From:   source,
		To:     mod.RuntimeName,
		Module: mod.Path,
	})
}

func (w *walker) record(kind, name string, mod *locate.Module, loc ast.Loc) {
	key := recordKey{runtime: mod.RuntimeName, module: mod.Path}
	if i, ok := w.seen[key]; ok {
		w.res.Records[i].From = append(w.res.Records[i].From, loc)
		return
	}
	w.seen[key] = len(w.res.Records)
	w.res.Records = append(w.res.Records, Record{
		Kind:        kind,
		Name:        name,
		RuntimeName: mod.RuntimeName,
		Module:      mod.Path,
		Convention:  string(mod.Convention),
		From:        []ast.Loc{loc},
	})
}

// --- diagnostics ---

func (w *walker) diag(sev Severity, code string, loc ast.Loc, msg string) {
	w.res.Diagnostics = append(w.res.Diagnostics, Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Path:     w.res.Path,
		Loc:      loc,
	})
}

func (w *walker) error(code string, loc ast.Loc, msg string) {
	w.diag(SeverityError, code, loc, msg)
}

func (w *walker) missingComponent(name string, loc ast.Loc) {
	w.error(CodeMissingComponent, loc, fmt.Sprintf(
		"missing component %q: no component module found%s", name, ruleHint(name)))
}

func (w *walker) warnDynamic(spelling string, loc ast.Loc) {
	w.diag(SeverityWarning, CodeDynamicValueIgnored, loc, fmt.Sprintf(
		"ignored invocation of dynamic value %q: it is not a known safe component", spelling))
}

// ruleHint tells the maintainer how to quiet a missing-module finding
// when the name is registered outside the scanned layout.
func ruleHint(name string) string {
	return fmt.Sprintf("; mark %q safeToIgnore in a rule pack if it is registered at runtime", name)
}

func exprLabel(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.PathNode:
		return e.String()
	case *ast.SubExprNode:
		if e.Path != nil {
			return "(" + e.Path.String() + " ...)"
		}
		return "(...)"
	case *ast.StringNode:
		return strconv.Quote(e.Value)
	case *ast.NumberNode:
		return e.Text
	case *ast.BoolNode:
		return strconv.FormatBool(e.Value)
	}
	return "expression"
}
