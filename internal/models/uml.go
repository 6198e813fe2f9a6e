package models

// AttributeType is the declared type of a class attribute. The values mirror
// the Java types the code generator emits.
type AttributeType string

const (
	TypeString        AttributeType = "String"
	TypeInteger       AttributeType = "Integer"
	TypeBoolean       AttributeType = "Boolean"
	TypeDouble        AttributeType = "Double"
	TypeLong          AttributeType = "Long"
	TypeDate          AttributeType = "Date"
	TypeLocalDateTime AttributeType = "LocalDateTime"
)

func (t AttributeType) Valid() bool {
	switch t {
	case TypeString, TypeInteger, TypeBoolean, TypeDouble, TypeLong, TypeDate, TypeLocalDateTime:
		return true
	}
	return false
}

// Multiplicity is one end of an association, in UML notation.
type Multiplicity string

const (
	MultOne        Multiplicity = "1"
	MultZeroOrOne  Multiplicity = "0..1"
	MultMany       Multiplicity = "*"
	MultOneOrMore  Multiplicity = "1..*"
	MultZeroOrMore Multiplicity = "0..*"
)

func (m Multiplicity) Valid() bool {
	switch m {
	case MultOne, MultZeroOrOne, MultMany, MultOneOrMore, MultZeroOrMore:
		return true
	}
	return false
}

// IsMany reports whether the end admits more than one instance.
func (m Multiplicity) IsMany() bool {
	switch m {
	case MultMany, MultOneOrMore, MultZeroOrMore:
		return true
	}
	return false
}

// RelationshipType is the kind of association between two classes.
type RelationshipType string

const (
	RelAssociation RelationshipType = "association"
	RelInheritance RelationshipType = "inheritance"
	RelAggregation RelationshipType = "aggregation"
	RelComposition RelationshipType = "composition"
)

func (r RelationshipType) Valid() bool {
	switch r {
	case RelAssociation, RelInheritance, RelAggregation, RelComposition:
		return true
	}
	return false
}

// InheritanceType distinguishes class extension from interface implementation.
type InheritanceType string

const (
	InheritExtends    InheritanceType = "extends"
	InheritImplements InheritanceType = "implements"
)

func (i InheritanceType) Valid() bool {
	return i == InheritExtends || i == InheritImplements
}

// Position is the canvas location of a class.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type UMLAttribute struct {
	ID   string        `json:"id"`
	Name string        `json:"name"`
	Type AttributeType `json:"type"`
}

// UMLClass is a node on the diagram. Position is a pointer so a proposal
// that omits it can be told apart from one placed at the origin.
type UMLClass struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Attributes []UMLAttribute `json:"attributes,omitempty"`
	Position   *Position      `json:"position,omitempty"`
}

// AssociationClass carries the attributes attached to a many-to-many link.
// It renders as its own node, so it has a canvas position like UMLClass.
type AssociationClass struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Attributes []UMLAttribute `json:"attributes,omitempty"`
	Position   *Position      `json:"position,omitempty"`
}

// Association is an edge between two classes, referenced by id. For
// inheritance, FromClassID is the child and ToClassID the parent.
type Association struct {
	ID                  string            `json:"id"`
	FromClassID         string            `json:"fromClassId"`
	ToClassID           string            `json:"toClassId"`
	FromMultiplicity    Multiplicity      `json:"fromMultiplicity,omitempty"`
	ToMultiplicity      Multiplicity      `json:"toMultiplicity,omitempty"`
	RelationshipType    RelationshipType  `json:"relationshipType"`
	InheritanceType     *InheritanceType  `json:"inheritanceType,omitempty"`
	CascadeDelete       *bool             `json:"cascadeDelete,omitempty"`
	HasAssociationClass bool              `json:"hasAssociationClass,omitempty"`
	AssociationClass    *AssociationClass `json:"associationClass,omitempty"`
}

// DiagramData is the JSONB payload stored for a diagram and exchanged with
// clients over the update stream.
type DiagramData struct {
	Classes      []UMLClass     `json:"classes"`
	Associations []Association  `json:"associations"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}
