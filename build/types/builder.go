// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"regexp"
	"strings"

	"github.com/gx-org/pfa/base/ordered"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/jsontree"
)

var (
	nameRegexp      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	namespaceRegexp = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// IsValidName returns true if s is a valid name for a named type, a field or an enum symbol.
func IsValidName(s string) bool {
	return nameRegexp.MatchString(s)
}

// IsValidNamespace returns true if s is a valid dotted namespace.
func IsValidNamespace(s string) bool {
	return namespaceRegexp.MatchString(s)
}

type (
	// Builder resolves the types of one document.
	//
	// A document is read in one pass from top to bottom. Type expressions
	// may refer to named types defined later in the document (or to the
	// type being defined), so the reader registers a Placeholder for each
	// type expression. Once the whole document has been read, ResolveTypes
	// defines all named types and backfills all placeholders.
	//
	// A builder belongs to a single parse and must not be shared.
	Builder struct {
		placeholders []*Placeholder
		defs         *ordered.Map[string, *namedDef]
		named        map[string]NamedType
		resolved     bool
	}

	namedDef struct {
		expr      *jsontree.Object
		namespace string
		pos       fmterr.Pos
		filled    bool
	}

	// Placeholder is a type expression resolved by a builder.
	Placeholder struct {
		expr      any
		namespace string
		pos       fmterr.Pos
		typ       Type
	}
)

// NewBuilder returns a new builder for one document.
func NewBuilder() *Builder {
	return &Builder{
		defs:  ordered.NewMap[string, *namedDef](),
		named: make(map[string]NamedType),
	}
}

// MakePlaceholder registers a type expression found in the document.
// The namespace is used to qualify relative names.
func (b *Builder) MakePlaceholder(expr any, namespace string, pos fmterr.Pos) *Placeholder {
	ph := &Placeholder{expr: expr, namespace: namespace, pos: pos}
	b.placeholders = append(b.placeholders, ph)
	return ph
}

// Resolved returns a placeholder for a type already known.
func Resolved(typ Type) *Placeholder {
	return &Placeholder{typ: typ, expr: Schema(typ)}
}

// ResolveTypes defines all named types and resolves all placeholders
// registered with the builder. It returns all the errors found: names
// used but never defined, names defined twice with different structures,
// and malformed type expressions.
func (b *Builder) ResolveTypes() error {
	if b.resolved {
		return fmterr.Internalf("types of the document have already been resolved")
	}
	b.resolved = true
	return b.resolve(b.placeholders)
}

// ResolveOne resolves a single type expression, registering the named
// types it defines. It can be called before or after ResolveTypes.
func (b *Builder) ResolveOne(expr any, namespace string, pos fmterr.Pos) (Type, error) {
	ph := &Placeholder{expr: expr, namespace: namespace, pos: pos}
	if err := b.resolve([]*Placeholder{ph}); err != nil {
		return nil, err
	}
	return ph.typ, nil
}

// Named returns a named type defined in the document given its full name.
func (b *Builder) Named(fullName string) (NamedType, bool) {
	t, ok := b.named[fullName]
	return t, ok
}

// NamedTypes returns all the named types defined in the document in order of definition.
func (b *Builder) NamedTypes() []NamedType {
	var all []NamedType
	for name := range b.defs.Keys() {
		if t, ok := b.named[name]; ok {
			all = append(all, t)
		}
	}
	return all
}

func (b *Builder) resolve(phs []*Placeholder) error {
	errs := &fmterr.Errors{}
	for _, ph := range phs {
		if ph.typ != nil {
			continue
		}
		b.collect(errs, ph.expr, ph.namespace, ph.pos)
	}
	if !errs.Empty() {
		return errs.ToError()
	}
	for _, ph := range phs {
		if ph.typ != nil {
			continue
		}
		typ, ok := b.build(errs, ph.expr, ph.namespace, ph.pos)
		if ok {
			ph.typ = typ
		}
	}
	if !errs.Empty() {
		return errs.ToError()
	}
	b.checkDefaults(errs)
	return errs.ToError()
}

func qualify(name, namespace string) string {
	if strings.Contains(name, ".") || namespace == "" {
		return name
	}
	return namespace + "." + name
}

func objPos(pos fmterr.Pos, expr any) fmterr.Pos {
	if obj, ok := expr.(*jsontree.Object); ok {
		return pos.WithAt(obj.At())
	}
	return pos
}

// definition returns the full name and the namespace of the children of a named type definition.
func definition(obj *jsontree.Object, namespace string) (fullName, childNamespace string, ok bool) {
	nameV, _ := obj.Get("name")
	name, isString := nameV.(string)
	if !isString {
		return "", "", false
	}
	if nsV, hasNS := obj.Get("namespace"); hasNS {
		if ns, isString := nsV.(string); isString && !strings.Contains(name, ".") {
			namespace = ns
		}
	}
	fullName = qualify(name, namespace)
	childNamespace = ""
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		childNamespace = fullName[:i]
	}
	return fullName, childNamespace, true
}

// collect registers all named type definitions found in a type expression.
func (b *Builder) collect(errs *fmterr.Errors, expr any, namespace string, pos fmterr.Pos) {
	pos = objPos(pos, expr)
	switch exprT := expr.(type) {
	case []any:
		for i, sub := range exprT {
			b.collect(errs, sub, namespace, pos.Dot(i))
		}
	case *jsontree.Object:
		typV, _ := exprT.Get("type")
		switch typV {
		case "record", "enum", "fixed":
		case "array":
			if items, ok := exprT.Get("items"); ok {
				b.collect(errs, items, namespace, pos.Dot("items"))
			}
			return
		case "map":
			if values, ok := exprT.Get("values"); ok {
				b.collect(errs, values, namespace, pos.Dot("values"))
			}
			return
		default:
			if _, isString := typV.(string); !isString && typV != nil {
				b.collect(errs, typV, namespace, pos.Dot("type"))
			}
			return
		}
		fullName, childNS, ok := definition(exprT, namespace)
		if !ok {
			errs.Append(fmterr.Syntaxf(pos, "%s type definition requires a string \"name\"", typV))
			return
		}
		if prev, defined := b.defs.Load(fullName); defined {
			if !jsontree.Equal(prev.expr, exprT) {
				errs.Append(fmterr.Syntaxf(pos, "type %q is defined twice with different structures (first definition at %s)", fullName, prev.pos))
			}
			return
		}
		if _, defined := b.named[fullName]; defined {
			errs.Append(fmterr.Syntaxf(pos, "type %q is already defined", fullName))
			return
		}
		b.defs.Store(fullName, &namedDef{expr: exprT, namespace: namespace, pos: pos})
		if typV != "record" {
			return
		}
		fields, _ := exprT.Get("fields")
		fieldList, _ := fields.([]any)
		for i, field := range fieldList {
			fieldObj, ok := field.(*jsontree.Object)
			if !ok {
				continue
			}
			if fieldType, ok := fieldObj.Get("type"); ok {
				b.collect(errs, fieldType, childNS, pos.Dot("fields").Dot(i).Dot("type"))
			}
		}
	}
}

// build returns the type of an expression once all definitions have been collected.
func (b *Builder) build(errs *fmterr.Errors, expr any, namespace string, pos fmterr.Pos) (Type, bool) {
	pos = objPos(pos, expr)
	switch exprT := expr.(type) {
	case string:
		return b.buildName(errs, exprT, namespace, pos)
	case []any:
		members := make([]Type, len(exprT))
		ok := true
		for i, sub := range exprT {
			var subOk bool
			members[i], subOk = b.build(errs, sub, namespace, pos.Dot(i))
			ok = ok && subOk
		}
		if !ok {
			return nil, false
		}
		union, err := NewUnion(members...)
		if err != nil {
			return nil, errs.Append(fmterr.Syntax(pos, err))
		}
		return union, true
	case *jsontree.Object:
		return b.buildObject(errs, exprT, namespace, pos)
	case nil:
		return nil, errs.Append(fmterr.Syntaxf(pos, "missing type expression"))
	}
	return nil, errs.Append(fmterr.Syntaxf(pos, "invalid type expression %s", jsontree.Marshal(expr)))
}

func (b *Builder) buildName(errs *fmterr.Errors, name, namespace string, pos fmterr.Pos) (Type, bool) {
	if prim, ok := PrimitiveFromString(name); ok {
		return prim, true
	}
	if !IsValidNamespace(name) {
		return nil, errs.Append(fmterr.Syntaxf(pos, "invalid type name %q", name))
	}
	for _, candidate := range []string{qualify(name, namespace), name} {
		if t, ok := b.named[candidate]; ok {
			return t, true
		}
		if _, ok := b.defs.Load(candidate); ok {
			return b.buildNamed(errs, candidate)
		}
	}
	return nil, errs.Append(fmterr.Syntaxf(pos, "type name %q is not defined", name))
}

func (b *Builder) buildObject(errs *fmterr.Errors, obj *jsontree.Object, namespace string, pos fmterr.Pos) (Type, bool) {
	typV, ok := obj.Get("type")
	if !ok {
		return nil, errs.Append(fmterr.Syntaxf(pos, "type object %s has no \"type\" key", jsontree.Marshal(obj)))
	}
	switch typV {
	case "record", "enum", "fixed":
		fullName, _, ok := definition(obj, namespace)
		if !ok {
			return nil, false
		}
		return b.buildNamed(errs, fullName)
	case "array":
		items, ok := obj.Get("items")
		if !ok {
			return nil, errs.Append(fmterr.Syntaxf(pos, "array type requires \"items\""))
		}
		itemsT, ok := b.build(errs, items, namespace, pos.Dot("items"))
		if !ok {
			return nil, false
		}
		return ArrayOf(itemsT), true
	case "map":
		values, ok := obj.Get("values")
		if !ok {
			return nil, errs.Append(fmterr.Syntaxf(pos, "map type requires \"values\""))
		}
		valuesT, ok := b.build(errs, values, namespace, pos.Dot("values"))
		if !ok {
			return nil, false
		}
		return MapOf(valuesT), true
	}
	return b.build(errs, typV, namespace, pos.Dot("type"))
}

// buildNamed returns the named type given its full name. The type is
// registered before its content is built so that the content can refer to it.
func (b *Builder) buildNamed(errs *fmterr.Errors, fullName string) (Type, bool) {
	if t, ok := b.named[fullName]; ok {
		return t, true
	}
	def, _ := b.defs.Load(fullName)
	obj, pos := def.expr, def.pos
	named := NewNamed(fullName)
	named.Doc = stringField(obj, "doc")
	if aliases, ok := obj.Get("aliases"); ok {
		named.Aliases = stringList(aliases)
	}
	if !IsValidName(named.Name) || (named.Namespace != "" && !IsValidNamespace(named.Namespace)) {
		return nil, errs.Append(fmterr.Syntaxf(pos, "invalid type name %q", fullName))
	}
	typV, _ := obj.Get("type")
	switch typV {
	case "fixed":
		t := &Fixed{Named: named}
		b.named[fullName] = t
		return t, b.fillFixed(errs, t, obj, pos)
	case "enum":
		t := &Enum{Named: named}
		b.named[fullName] = t
		return t, b.fillEnum(errs, t, obj, pos)
	default:
		t := &Record{Named: named}
		b.named[fullName] = t
		return t, b.fillRecord(errs, t, obj, pos)
	}
}

func (b *Builder) fillFixed(errs *fmterr.Errors, t *Fixed, obj *jsontree.Object, pos fmterr.Pos) bool {
	sizeV, _ := obj.Get("size")
	size, ok := sizeV.(jsontree.Number)
	if !ok || !size.IsInteger() {
		return errs.Append(fmterr.Syntaxf(pos, "fixed type %q requires an integer \"size\"", t.FullName()))
	}
	n, err := size.Int64()
	if err != nil || n < 0 {
		return errs.Append(fmterr.Syntaxf(pos, "fixed type %q has an invalid size %s", t.FullName(), size))
	}
	t.Size = int(n)
	return true
}

func (b *Builder) fillEnum(errs *fmterr.Errors, t *Enum, obj *jsontree.Object, pos fmterr.Pos) bool {
	symbolsV, _ := obj.Get("symbols")
	symbols, ok := symbolsV.([]any)
	if !ok {
		return errs.Append(fmterr.Syntaxf(pos, "enum type %q requires an array of \"symbols\"", t.FullName()))
	}
	seen := make(map[string]bool)
	for i, symV := range symbols {
		sym, isString := symV.(string)
		if !isString || !IsValidName(sym) {
			return errs.Append(fmterr.Syntaxf(pos.Dot("symbols").Dot(i), "invalid enum symbol %s", jsontree.Marshal(symV)))
		}
		if seen[sym] {
			return errs.Append(fmterr.Syntaxf(pos.Dot("symbols").Dot(i), "enum symbol %q appears more than once", sym))
		}
		seen[sym] = true
		t.Symbols = append(t.Symbols, sym)
	}
	return true
}

func (b *Builder) fillRecord(errs *fmterr.Errors, t *Record, obj *jsontree.Object, pos fmterr.Pos) bool {
	fieldsV, _ := obj.Get("fields")
	fields, ok := fieldsV.([]any)
	if !ok {
		return errs.Append(fmterr.Syntaxf(pos, "record type %q requires an array of \"fields\"", t.FullName()))
	}
	fieldsOk := true
	seen := make(map[string]bool)
	for i, fieldV := range fields {
		fieldPos := pos.Dot("fields").Dot(i)
		fieldObj, isObj := fieldV.(*jsontree.Object)
		if !isObj {
			fieldsOk = errs.Append(fmterr.Syntaxf(fieldPos, "record field must be an object"))
			continue
		}
		fieldPos = fieldPos.WithAt(fieldObj.At())
		name := stringField(fieldObj, "name")
		if !IsValidName(name) {
			fieldsOk = errs.Append(fmterr.Syntaxf(fieldPos, "invalid field name %q in record %q", name, t.FullName()))
			continue
		}
		if seen[name] {
			fieldsOk = errs.Append(fmterr.Syntaxf(fieldPos, "field %q appears more than once in record %q", name, t.FullName()))
			continue
		}
		seen[name] = true
		fieldTypeV, hasType := fieldObj.Get("type")
		if !hasType {
			fieldsOk = errs.Append(fmterr.Syntaxf(fieldPos, "field %q of record %q has no type", name, t.FullName()))
			continue
		}
		fieldType, typeOk := b.build(errs, fieldTypeV, t.Namespace, fieldPos.Dot("type"))
		if !typeOk {
			fieldsOk = false
			continue
		}
		field := &Field{
			Name:  name,
			Type:  fieldType,
			Order: stringField(fieldObj, "order"),
			Doc:   stringField(fieldObj, "doc"),
		}
		field.Default, field.HasDefault = fieldObj.Get("default")
		t.Fields = append(t.Fields, field)
	}
	return fieldsOk
}

// checkDefaults checks the default values of all record fields once all types are complete.
func (b *Builder) checkDefaults(errs *fmterr.Errors) {
	for name, def := range b.defs.Iter() {
		if def.filled {
			continue
		}
		def.filled = true
		rec, ok := b.named[name].(*Record)
		if !ok {
			continue
		}
		for i, f := range rec.Fields {
			if !f.HasDefault {
				continue
			}
			if err := CheckValue(f.Type, f.Default); err != nil {
				errs.Append(fmterr.Syntaxf(def.pos.Dot("fields").Dot(i).Dot("default"), "invalid default for field %q of record %q: %v", f.Name, name, err))
			}
		}
	}
}

func stringField(obj *jsontree.Object, key string) string {
	v, _ := obj.Get(key)
	s, _ := v.(string)
	return s
}

func stringList(v any) []string {
	list, _ := v.([]any)
	var ss []string
	for _, el := range list {
		if s, ok := el.(string); ok {
			ss = append(ss, s)
		}
	}
	return ss
}

// Type returns the resolved type.
// It panics if the builder owning the placeholder has not resolved the types yet:
// the types of a document can only be consulted once the whole document has been read.
func (ph *Placeholder) Type() Type {
	if ph.typ == nil {
		panic(fmterr.Internalf("type %s at %s consulted before the types of the document were resolved", jsontree.Marshal(ph.expr), ph.pos))
	}
	return ph.typ
}

// IsResolved returns true if the type of the placeholder is available.
func (ph *Placeholder) IsResolved() bool {
	return ph != nil && ph.typ != nil
}

// Expr returns the type expression as written in the document.
func (ph *Placeholder) Expr() any {
	return ph.expr
}

// Pos returns the position of the type expression in the document.
func (ph *Placeholder) Pos() fmterr.Pos {
	return ph.pos
}

// String returns the resolved type or the type expression if unresolved.
func (ph *Placeholder) String() string {
	if ph.typ != nil {
		return ph.typ.String()
	}
	return jsontree.Marshal(ph.expr)
}
