// Package codegen turns a diagram into Spring Boot and Flutter boilerplate.
// It is a pure transform: no state, no I/O, just relationship traversal
// deciding which template shape each class gets.
package codegen

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"umlforge/internal/diagram"
	"umlforge/internal/models"
)

type Options struct {
	// BasePackage is the Java package root, e.g. "com.example.umlapp".
	BasePackage string
	// ProjectName names the generated artifacts (pom artifactId, pubspec name).
	ProjectName string
}

func (o *Options) applyDefaults() {
	if o.BasePackage == "" {
		o.BasePackage = "com.example.umlapp"
	}
	if o.ProjectName == "" {
		o.ProjectName = "uml-app"
	}
}

// SpringFiles is the generated Java source for one class.
type SpringFiles struct {
	Entity     string `json:"entity"`
	Repository string `json:"repository"`
	Service    string `json:"service"`
	Controller string `json:"controller"`
}

// FlutterFiles is the generated Dart source for one class.
type FlutterFiles struct {
	Model    string `json:"model"`
	Service  string `json:"service"`
	Provider string `json:"provider"`
	Screen   string `json:"screen"`
}

type Result struct {
	Spring   map[string]SpringFiles  `json:"spring"`
	Flutter  map[string]FlutterFiles `json:"flutter"`
	Scaffold map[string]string       `json:"scaffold"`
}

// Generate produces the full export for a diagram. Inputs are deduplicated
// first, the same way every externally sourced diagram is.
func Generate(classes []models.UMLClass, associations []models.Association, opts Options, logger *zap.Logger) Result {
	opts.applyDefaults()
	classes = diagram.DedupClasses(classes, logger)
	associations = diagram.DedupAssociations(associations, logger)

	views, assocEntities := buildViews(classes, associations)

	result := Result{
		Spring:   make(map[string]SpringFiles, len(views)),
		Flutter:  make(map[string]FlutterFiles, len(views)),
		Scaffold: make(map[string]string),
	}

	for _, v := range views {
		name := javaClassName(v.class.Name)
		result.Spring[name] = SpringFiles{
			Entity:     springEntity(v, opts),
			Repository: springRepository(name, opts),
			Service:    springService(name, opts),
			Controller: springController(name, opts),
		}
		result.Flutter[name] = FlutterFiles{
			Model:    flutterModel(v),
			Service:  flutterService(name, opts),
			Provider: flutterProvider(name),
			Screen:   flutterScreen(v),
		}
	}

	for _, ae := range assocEntities {
		name := javaClassName(ae.class.Name)
		result.Spring[name] = SpringFiles{
			Entity:     springAssocEntity(ae, opts),
			Repository: springRepository(name, opts),
			Service:    springService(name, opts),
			Controller: springController(name, opts),
		}
	}

	result.Scaffold["backend/pom.xml"] = springPom(opts)
	result.Scaffold["backend/src/main/resources/application.properties"] = springProperties(opts)
	result.Scaffold["frontend/pubspec.yaml"] = flutterPubspec(opts)
	result.Scaffold["frontend/lib/main.dart"] = flutterMain(views, opts)

	return result
}

// classView is everything the templates need to know about one class after
// walking its relationships.
type classView struct {
	class      models.UMLClass
	parent     *parentView
	toOne      []refView
	toMany     []refView
	manyToMany []m2mView
}

type parentView struct {
	name       string
	implements bool
}

type refView struct {
	target  string // Java class name of the other side
	cascade bool   // composition cascade on the whole side
}

type m2mView struct {
	target     string
	owner      bool // from side owns the join table
	joinName   string
	assocClass string // non-empty when a join entity replaces @ManyToMany
}

type assocClassView struct {
	class models.AssociationClass
	left  string
	right string
}

// buildViews classifies every association for both of its endpoints.
// Cardinality of the opposite end decides the field shape a side gets:
// many-to-many becomes a join table (or a join entity when an association
// class is attached), a many opposite end becomes a collection, and a
// to-one opposite end becomes a foreign key reference. Inheritance sets the
// declaration shape instead of producing fields, and dangling endpoints are
// skipped entirely.
func buildViews(classes []models.UMLClass, associations []models.Association) ([]*classView, []assocClassView) {
	byID := make(map[string]*classView, len(classes))
	order := make([]*classView, 0, len(classes))
	for _, c := range classes {
		v := &classView{class: c}
		byID[c.ID] = v
		order = append(order, v)
	}

	var assocEntities []assocClassView

	for _, a := range associations {
		from, okFrom := byID[a.FromClassID]
		to, okTo := byID[a.ToClassID]
		if !okFrom || !okTo {
			continue
		}

		fromName := javaClassName(from.class.Name)
		toName := javaClassName(to.class.Name)

		if a.RelationshipType == models.RelInheritance {
			implements := a.InheritanceType != nil && *a.InheritanceType == models.InheritImplements
			from.parent = &parentView{name: toName, implements: implements}
			continue
		}

		cascade := a.RelationshipType == models.RelComposition &&
			(a.CascadeDelete == nil || *a.CascadeDelete)

		if a.FromMultiplicity.IsMany() && a.ToMultiplicity.IsMany() {
			joinName := snake(fromName) + "_" + snake(toName)
			assocName := ""
			if a.HasAssociationClass && a.AssociationClass != nil {
				assocName = javaClassName(a.AssociationClass.Name)
				assocEntities = append(assocEntities, assocClassView{
					class: *a.AssociationClass,
					left:  fromName,
					right: toName,
				})
			}
			from.manyToMany = append(from.manyToMany, m2mView{target: toName, owner: true, joinName: joinName, assocClass: assocName})
			to.manyToMany = append(to.manyToMany, m2mView{target: fromName, owner: false, joinName: joinName, assocClass: assocName})
			continue
		}

		if a.ToMultiplicity.IsMany() {
			from.toMany = append(from.toMany, refView{target: toName, cascade: cascade})
		} else {
			from.toOne = append(from.toOne, refView{target: toName, cascade: cascade})
		}
		if a.FromMultiplicity.IsMany() {
			to.toMany = append(to.toMany, refView{target: fromName})
		} else {
			to.toOne = append(to.toOne, refView{target: fromName})
		}
	}

	return order, assocEntities
}

// hasOwnID reports whether the entity declares its own surrogate id field.
// A subclass that extends inherits it; an implements relationship still
// needs its own.
func (v *classView) hasOwnID() bool {
	return v.parent == nil || v.parent.implements
}

func javaType(t models.AttributeType) string {
	switch t {
	case models.TypeInteger:
		return "Integer"
	case models.TypeBoolean:
		return "Boolean"
	case models.TypeDouble:
		return "Double"
	case models.TypeLong:
		return "Long"
	case models.TypeDate:
		return "Date"
	case models.TypeLocalDateTime:
		return "LocalDateTime"
	default:
		return "String"
	}
}

func dartType(t models.AttributeType) string {
	switch t {
	case models.TypeInteger, models.TypeLong:
		return "int"
	case models.TypeBoolean:
		return "bool"
	case models.TypeDouble:
		return "double"
	case models.TypeDate, models.TypeLocalDateTime:
		return "DateTime"
	default:
		return "String"
	}
}

// javaClassName sanitizes a display name into an UpperCamel identifier.
func javaClassName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "Unnamed"
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		out = "C" + out
	}
	return out
}

func fieldName(name string) string {
	cls := javaClassName(name)
	return strings.ToLower(cls[:1]) + cls[1:]
}

func snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func plural(name string) string {
	if strings.HasSuffix(name, "s") {
		return name + "es"
	}
	if strings.HasSuffix(name, "y") {
		return name[:len(name)-1] + "ies"
	}
	return name + "s"
}
