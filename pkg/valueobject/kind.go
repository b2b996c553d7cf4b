package valueobject

// Kind is the primitive type wrapped by a value object.
type Kind string

const (
	KindString      Kind = "string"
	KindInteger     Kind = "integer"
	KindFloat       Kind = "float"
	KindBoolean     Kind = "boolean"
	KindTimestamp   Kind = "timestamp"
	KindUUID        Kind = "uuid"
	KindStringList  Kind = "string_list"
	KindIntegerList Kind = "integer_list"
)

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindString,
		KindInteger,
		KindFloat,
		KindBoolean,
		KindTimestamp,
		KindUUID,
		KindStringList,
		KindIntegerList,
	}
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindInteger, KindFloat, KindBoolean, KindTimestamp, KindUUID, KindStringList, KindIntegerList:
		return true
	}
	return false
}

// IsCollection reports whether values of k hold several elements.
func (k Kind) IsCollection() bool {
	return k == KindStringList || k == KindIntegerList
}

// Element returns the scalar kind held by a collection kind, or k itself.
func (k Kind) Element() Kind {
	switch k {
	case KindStringList:
		return KindString
	case KindIntegerList:
		return KindInteger
	default:
		return k
	}
}

// IsOrdered reports whether values of k support range comparisons.
func (k Kind) IsOrdered() bool {
	return k == KindInteger || k == KindFloat || k == KindTimestamp
}
