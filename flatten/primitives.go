package flatten

import (
	"github.com/erraggy/xsdflat/document"
	"github.com/erraggy/xsdflat/index"
	"github.com/erraggy/xsdflat/schema"
)

// primitives maps the built-in XSD datatypes to attribute types.
// Anything in the XSD namespace that is not listed here is not a primitive
// and goes through type lookup like a user-defined name.
var primitives = map[string]schema.AttributeType{
	"boolean": schema.Bool,

	"decimal":            schema.Int,
	"integer":            schema.Int,
	"int":                schema.Int,
	"long":               schema.Int,
	"short":              schema.Int,
	"byte":               schema.Int,
	"nonNegativeInteger": schema.Int,
	"nonPositiveInteger": schema.Int,
	"positiveInteger":    schema.Int,
	"negativeInteger":    schema.Int,
	"unsignedLong":       schema.Int,
	"unsignedInt":        schema.Int,
	"unsignedShort":      schema.Int,
	"unsignedByte":       schema.Int,
	"float":              schema.Int,
	"double":             schema.Int,

	"dateTime":      schema.Datetime,
	"dateTimeStamp": schema.Datetime,
	"date":          schema.Datetime,
	"time":          schema.Datetime,
	"gYear":         schema.Datetime,
	"gYearMonth":    schema.Datetime,
	"gMonth":        schema.Datetime,
	"gMonthDay":     schema.Datetime,
	"gDay":          schema.Datetime,

	"string":            schema.String,
	"normalizedString":  schema.String,
	"token":             schema.String,
	"language":          schema.String,
	"Name":              schema.String,
	"NCName":            schema.String,
	"NMTOKEN":           schema.String,
	"NMTOKENS":          schema.String,
	"ID":                schema.String,
	"IDREF":             schema.String,
	"IDREFS":            schema.String,
	"ENTITY":            schema.String,
	"ENTITIES":          schema.String,
	"QName":             schema.String,
	"NOTATION":          schema.String,
	"anyURI":            schema.String,
	"base64Binary":      schema.String,
	"hexBinary":         schema.String,
	"duration":          schema.String,
	"dayTimeDuration":   schema.String,
	"yearMonthDuration": schema.String,
	"anySimpleType":     schema.String,
	"anyAtomicType":     schema.String,
	"anyType":           schema.String,
}

// primitiveType reports the attribute type of name if it is a built-in
// XSD datatype.
func primitiveType(name index.QName) (schema.AttributeType, bool) {
	if name.Space != document.XSDNamespace {
		return schema.String, false
	}
	t, ok := primitives[name.Local]
	return t, ok
}
