package flatten

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/xsdflat/document"
	"github.com/erraggy/xsdflat/internal/severity"
	"github.com/erraggy/xsdflat/schema"
	"github.com/erraggy/xsdflat/xsderrors"
)

const orderXSD = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:ns="urn:orders" targetNamespace="urn:orders">
  <xs:element name="Order">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="id" type="xs:int"/>
        <xs:element name="lines" maxOccurs="unbounded">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="sku" type="xs:string"/>
              <xs:element name="qty" type="xs:int"/>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
    </xs:complexType>
    <xs:key name="OrderKey">
      <xs:selector xpath="."/>
      <xs:field xpath="id"/>
    </xs:key>
  </xs:element>
  <xs:element name="Audit" type="xs:string"/>
</xs:schema>`

const orderWSDL = `<wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
                  xmlns:ns="urn:orders" targetNamespace="urn:orders.service">
  <wsdl:message name="GetOrderResponse">
    <wsdl:part name="parameters" element="ns:Order"/>
  </wsdl:message>
</wsdl:definitions>`

func attr(name string, t schema.AttributeType, multi, key bool) schema.Attribute {
	return schema.Attribute{Name: name, Type: t, MultiValue: multi, IsKey: key}
}

func convertAll(t *testing.T, text string, opts ...Option) *Result {
	t.Helper()
	result, err := ConvertText(text, append([]Option{WithScope(ScopeAll)}, opts...)...)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func entity(t *testing.T, result *Result, name string) *schema.Entity {
	t.Helper()
	e := result.Schema.Entity(name)
	require.NotNil(t, e, "entity %s not found", name)
	return e
}

func TestConvertOrderExample(t *testing.T) {
	result, err := Convert([]document.Source{
		{Name: "orders.wsdl", Text: orderWSDL},
		{Name: "orders.xsd", Text: orderXSD},
	})
	require.NoError(t, err)

	assert.Equal(t, "Connector", result.Schema.Name)
	assert.Equal(t, "1.0.0", result.Schema.Version)
	require.Len(t, result.Schema.Entities, 1)

	order := result.Schema.Entities[0]
	assert.Equal(t, "Order", order.Name)
	assert.Equal(t, []schema.Attribute{
		attr("id", schema.Int, false, true),
		attr("sku", schema.String, true, false),
		attr("qty", schema.Int, true, false),
	}, order.Attributes)

	assert.Equal(t, 2, result.DocumentCount)
	assert.Equal(t, 1, result.SchemaCount)
	assert.Equal(t, 1, result.ServiceCount)
	assert.Equal(t, 1, result.EntryPointCount)
	assert.False(t, result.HasWarnings())
}

func TestPrimitiveMapping(t *testing.T) {
	tests := []struct {
		xsdType string
		want    schema.AttributeType
	}{
		{"boolean", schema.Bool},
		{"int", schema.Int},
		{"integer", schema.Int},
		{"long", schema.Int},
		{"short", schema.Int},
		{"byte", schema.Int},
		{"decimal", schema.Int},
		{"float", schema.Int},
		{"double", schema.Int},
		{"unsignedLong", schema.Int},
		{"positiveInteger", schema.Int},
		{"dateTime", schema.Datetime},
		{"date", schema.Datetime},
		{"time", schema.Datetime},
		{"gYear", schema.Datetime},
		{"gYearMonth", schema.Datetime},
		{"string", schema.String},
		{"token", schema.String},
		{"anyURI", schema.String},
		{"base64Binary", schema.String},
		{"duration", schema.String},
		{"QName", schema.String},
	}

	for _, tt := range tests {
		t.Run(tt.xsdType, func(t *testing.T) {
			text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Holder">
    <xs:complexType><xs:sequence>
      <xs:element name="value" type="xs:` + tt.xsdType + `"/>
    </xs:sequence></xs:complexType>
  </xs:element>
</xs:schema>`
			result := convertAll(t, text)
			holder := entity(t, result, "Holder")
			require.Len(t, holder.Attributes, 1)
			assert.Equal(t, tt.want, holder.Attributes[0].Type)
			assert.False(t, result.HasWarnings())
		})
	}

	t.Run("prefix is resolved not matched", func(t *testing.T) {
		text := `<schema xmlns="http://www.w3.org/2001/XMLSchema" xmlns:x="http://www.w3.org/2001/XMLSchema">
  <element name="Holder">
    <complexType><sequence>
      <element name="flag" type="x:boolean"/>
      <element name="at" type="dateTime"/>
    </sequence></complexType>
  </element>
</schema>`
		holder := entity(t, convertAll(t, text), "Holder")
		assert.Equal(t, []schema.Attribute{
			attr("flag", schema.Bool, false, false),
			attr("at", schema.Datetime, false, false),
		}, holder.Attributes)
	})
}

func TestMultiplicity(t *testing.T) {
	tests := []struct {
		maxOccurs string
		want      bool
	}{
		{"", false},
		{"0", false},
		{"1", false},
		{"2", true},
		{"10", true},
		{"unbounded", true},
		{"99999999999999999999", true},
		{" 5 ", true},
		{"-1", false},
		{"many", false},
	}

	for _, tt := range tests {
		t.Run("maxOccurs="+tt.maxOccurs, func(t *testing.T) {
			bounds := ""
			if tt.maxOccurs != "" {
				bounds = ` maxOccurs="` + tt.maxOccurs + `"`
			}
			text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Holder">
    <xs:complexType><xs:sequence>
      <xs:element name="value" type="xs:string"` + bounds + `/>
    </xs:sequence></xs:complexType>
  </xs:element>
</xs:schema>`
			holder := entity(t, convertAll(t, text), "Holder")
			require.Len(t, holder.Attributes, 1)
			assert.Equal(t, tt.want, holder.Attributes[0].MultiValue)
		})
	}

	t.Run("inherited from ancestor elements only", func(t *testing.T) {
		text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Holder">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="single" type="xs:string"/>
        <xs:choice maxOccurs="unbounded">
          <xs:element name="a" type="xs:string"/>
          <xs:element name="b" type="xs:int"/>
        </xs:choice>
        <xs:element name="nested" maxOccurs="3">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="deep">
                <xs:complexType><xs:sequence>
                  <xs:element name="leaf" type="xs:string"/>
                </xs:sequence></xs:complexType>
              </xs:element>
            </xs:sequence>
            <xs:attribute name="kind" type="xs:string"/>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
      <xs:attribute name="version" type="xs:int"/>
    </xs:complexType>
  </xs:element>
</xs:schema>`
		holder := entity(t, convertAll(t, text), "Holder")
		assert.Equal(t, []schema.Attribute{
			attr("single", schema.String, false, false),
			attr("a", schema.String, false, false),
			attr("b", schema.Int, false, false),
			attr("leaf", schema.String, true, false),
			attr("kind", schema.String, false, false),
			attr("version", schema.Int, false, false),
		}, holder.Attributes)
	})

	t.Run("xml attributes stay single-valued", func(t *testing.T) {
		text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:tns="urn:m" targetNamespace="urn:m">
  <xs:attribute name="origin" type="xs:string"/>
  <xs:attributeGroup name="Audit">
    <xs:attribute name="changedAt" type="xs:dateTime"/>
  </xs:attributeGroup>
  <xs:complexType name="Amount">
    <xs:simpleContent>
      <xs:extension base="xs:int">
        <xs:attribute name="unit" type="xs:string"/>
      </xs:extension>
    </xs:simpleContent>
  </xs:complexType>
  <xs:element name="Order">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="lines" maxOccurs="unbounded">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="sku" type="xs:string"/>
              <xs:element name="amount" type="tns:Amount"/>
            </xs:sequence>
            <xs:attribute name="lineNo" type="xs:int"/>
            <xs:attribute ref="tns:origin"/>
            <xs:attribute ref="tns:absent"/>
            <xs:attributeGroup ref="tns:Audit"/>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
      <xs:attribute name="orderId" type="xs:int"/>
    </xs:complexType>
  </xs:element>
</xs:schema>`
		order := entity(t, convertAll(t, text), "Order")
		assert.Equal(t, []schema.Attribute{
			attr("sku", schema.String, true, false),
			attr("amount", schema.Int, true, false),
			attr("unit", schema.String, false, false),
			attr("lineNo", schema.Int, false, false),
			attr("origin", schema.String, false, false),
			attr("absent", schema.String, false, false),
			attr("changedAt", schema.Datetime, false, false),
			attr("orderId", schema.Int, false, true),
		}, order.Attributes)
	})
}

func TestRefMatchesInline(t *testing.T) {
	text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:tns="urn:ref" targetNamespace="urn:ref">
  <xs:element name="Item">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="sku" type="xs:string"/>
        <xs:element name="price" type="xs:decimal"/>
      </xs:sequence>
      <xs:attribute name="code" type="xs:string"/>
    </xs:complexType>
  </xs:element>
  <xs:element name="ByRef">
    <xs:complexType><xs:sequence>
      <xs:element ref="tns:Item" maxOccurs="unbounded"/>
    </xs:sequence></xs:complexType>
  </xs:element>
  <xs:element name="Inline">
    <xs:complexType><xs:sequence>
      <xs:element name="Item" maxOccurs="unbounded">
        <xs:complexType>
          <xs:sequence>
            <xs:element name="sku" type="xs:string"/>
            <xs:element name="price" type="xs:decimal"/>
          </xs:sequence>
          <xs:attribute name="code" type="xs:string"/>
        </xs:complexType>
      </xs:element>
    </xs:sequence></xs:complexType>
  </xs:element>
</xs:schema>`

	result := convertAll(t, text)
	byRef := entity(t, result, "ByRef")
	inline := entity(t, result, "Inline")
	assert.Empty(t, cmp.Diff(inline.Attributes, byRef.Attributes))
	assert.True(t, byRef.Attributes[0].MultiValue, "bounds come from the referencing site")

	item := entity(t, result, "Item")
	for _, a := range item.Attributes {
		assert.False(t, a.MultiValue, "the referenced declaration keeps its own bounds")
	}
}

func TestNamedTypeMatchesInline(t *testing.T) {
	text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:tns="urn:types" targetNamespace="urn:types">
  <xs:complexType name="AddressType">
    <xs:sequence>
      <xs:element name="street" type="xs:string"/>
      <xs:element name="zip" type="xs:int"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="ShippingType">
    <xs:complexContent>
      <xs:extension base="tns:AddressType"/>
    </xs:complexContent>
  </xs:complexType>
  <xs:element name="Named" type="tns:AddressType"/>
  <xs:element name="Derived" type="tns:ShippingType"/>
  <xs:element name="Inline">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="street" type="xs:string"/>
        <xs:element name="zip" type="xs:int"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

	result := convertAll(t, text)
	inline := entity(t, result, "Inline")
	assert.Empty(t, cmp.Diff(inline.Attributes, entity(t, result, "Named").Attributes))
	assert.Empty(t, cmp.Diff(inline.Attributes, entity(t, result, "Derived").Attributes))
	assert.False(t, result.HasWarnings())
}

func TestCrossDocumentMerge(t *testing.T) {
	wsdl := `<definitions xmlns="http://schemas.xmlsoap.org/wsdl/" xmlns:m="urn:merge">
  <message name="Put"><part name="body" element="m:Thing"/></message>
</definitions>`
	first := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:merge">
  <xs:element name="Thing">
    <xs:complexType><xs:sequence>
      <xs:element name="A" type="xs:string"/>
      <xs:element name="B" type="xs:int"/>
    </xs:sequence></xs:complexType>
  </xs:element>
</xs:schema>`
	second := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:merge">
  <xs:element name="Thing">
    <xs:complexType><xs:sequence>
      <xs:element name="b" type="xs:int"/>
      <xs:element name="C" type="xs:boolean"/>
    </xs:sequence></xs:complexType>
  </xs:element>
</xs:schema>`

	result, err := Convert([]document.Source{
		{Name: "svc.wsdl", Text: wsdl},
		{Name: "first.xsd", Text: first},
		{Name: "second.xsd", Text: second},
	})
	require.NoError(t, err)
	require.Len(t, result.Schema.Entities, 1)
	assert.Equal(t, []schema.Attribute{
		attr("A", schema.String, false, false),
		attr("B", schema.Int, false, false),
		attr("C", schema.Bool, false, false),
	}, result.Schema.Entities[0].Attributes)
}

func TestKeyInference(t *testing.T) {
	t.Run("constraint beats id heuristic", func(t *testing.T) {
		text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Widget">
    <xs:complexType><xs:sequence>
      <xs:element name="id" type="xs:int"/>
      <xs:element name="code" type="xs:string"/>
    </xs:sequence></xs:complexType>
    <xs:unique name="WidgetCode">
      <xs:selector xpath="."/>
      <xs:field xpath="code"/>
    </xs:unique>
  </xs:element>
</xs:schema>`
		widget := entity(t, convertAll(t, text), "Widget")
		key, ok := widget.Key()
		require.True(t, ok)
		assert.Equal(t, "code", key.Name)
		id, _ := widget.Attribute("id")
		assert.False(t, id.IsKey)
	})

	t.Run("attribute field with prefix", func(t *testing.T) {
		text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:p="urn:p" targetNamespace="urn:p">
  <xs:element name="Part">
    <xs:complexType>
      <xs:sequence><xs:element name="name" type="xs:string"/></xs:sequence>
      <xs:attribute name="Serial" type="xs:string"/>
    </xs:complexType>
    <xs:key name="PartSerial">
      <xs:selector xpath="."/>
      <xs:field xpath="@p:serial"/>
    </xs:key>
  </xs:element>
</xs:schema>`
		part := entity(t, convertAll(t, text), "Part")
		key, ok := part.Key()
		require.True(t, ok)
		assert.Equal(t, "Serial", key.Name, "field names match case-insensitively")
	})

	heuristic := []struct {
		name   string
		fields []string
		want   string
	}{
		{"exact id", []string{"name", "ID"}, "ID"},
		{"snake suffix", []string{"name", "order_id", "id_card"}, "order_id"},
		{"camel suffix first wins", []string{"customerId", "orderId"}, "customerId"},
		{"upper suffix", []string{"total", "orderID"}, "orderID"},
		{"no match", []string{"uuid", "paid", "identity"}, ""},
	}
	for _, tt := range heuristic {
		t.Run(tt.name, func(t *testing.T) {
			var fields string
			for _, f := range tt.fields {
				fields += `<xs:element name="` + f + `" type="xs:string"/>`
			}
			text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Row"><xs:complexType><xs:sequence>` + fields + `</xs:sequence></xs:complexType></xs:element>
</xs:schema>`
			row := entity(t, convertAll(t, text), "Row")
			key, ok := row.Key()
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, key.Name)
		})
	}
}

func TestIdempotence(t *testing.T) {
	sources := []document.Source{
		{Name: "orders.wsdl", Text: orderWSDL},
		{Name: "orders.xsd", Text: orderXSD},
		{Name: "supplements.xsd", Text: supplementsXSD},
	}

	for _, scope := range []Scope{ScopeRootsOnly, ScopeAll, ScopeUnion} {
		t.Run(scope.String(), func(t *testing.T) {
			first, err := Convert(sources, WithScope(scope))
			require.NoError(t, err)
			second, err := Convert(sources, WithScope(scope))
			require.NoError(t, err)

			if diff := cmp.Diff(first.Schema, second.Schema); diff != "" {
				t.Errorf("schemas differ (-first +second):\n%s", diff)
			}
			assert.Equal(t, first.Issues, second.Issues)
		})
	}
}

func TestMalformedInput(t *testing.T) {
	result, err := Convert([]document.Source{
		{Name: "orders.xsd", Text: orderXSD},
		{Name: "broken.xsd", Text: `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:element name="a">`},
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, xsderrors.ErrMalformedDocument)

	var parseErr *xsderrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "broken.xsd", parseErr.Document)
}

func TestRecursionLimit(t *testing.T) {
	text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:tns="urn:tree" targetNamespace="urn:tree">
  <xs:complexType name="Node">
    <xs:sequence>
      <xs:element name="label" type="xs:string"/>
      <xs:element name="child" type="tns:Node" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
  <xs:element name="Tree" type="tns:Node"/>
</xs:schema>`

	t.Run("default bound", func(t *testing.T) {
		result, err := ConvertText(text)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, xsderrors.ErrRecursionLimitExceeded)

		var limitErr *xsderrors.ResourceLimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, "element_depth", limitErr.ResourceType)
		assert.Equal(t, DefaultMaxDepth, limitErr.Limit)
	})

	t.Run("configured bound", func(t *testing.T) {
		_, err := ConvertText(text, WithMaxDepth(5))
		var limitErr *xsderrors.ResourceLimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, 5, limitErr.Limit)
		assert.Equal(t, 6, limitErr.Actual)
		assert.Equal(t, "Tree/child/child", limitErr.Path)
	})

	t.Run("self referencing element", func(t *testing.T) {
		loop := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:tns="urn:loop" targetNamespace="urn:loop">
  <xs:element name="Part">
    <xs:complexType><xs:sequence>
      <xs:element ref="tns:Part" minOccurs="0"/>
    </xs:sequence></xs:complexType>
  </xs:element>
</xs:schema>`
		_, err := ConvertText(loop, WithMaxDepth(10))
		assert.ErrorIs(t, err, xsderrors.ErrRecursionLimitExceeded)
	})
}

func TestScopes(t *testing.T) {
	wsdl := `<definitions xmlns="http://schemas.xmlsoap.org/wsdl/" xmlns:ns="urn:orders">
  <message name="Log"><part name="body" element="ns:Audit"/></message>
  <message name="Gone"><part name="body" element="ns:Missing"/></message>
</definitions>`
	sources := []document.Source{
		{Name: "svc.wsdl", Text: wsdl},
		{Name: "orders.xsd", Text: orderXSD},
	}

	names := func(r *Result) []string {
		var out []string
		for _, e := range r.Schema.Entities {
			out = append(out, e.Name)
		}
		return out
	}

	tests := []struct {
		scope       Scope
		want        []string
		missingWarn bool
	}{
		{ScopeRootsOnly, []string{"Audit"}, true},
		{ScopeAll, []string{"Order", "Audit"}, false},
		{ScopeUnion, []string{"Audit", "Order"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.scope.String(), func(t *testing.T) {
			result, err := Convert(sources, WithScope(tt.scope))
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(result))
			assert.Equal(t, tt.missingWarn, result.HasWarnings())
			if tt.missingWarn {
				assert.Contains(t, result.Issues[len(result.Issues)-1].Context, "Missing")
			}
		})
	}

	t.Run("roots-only falls back to every global", func(t *testing.T) {
		result, err := ConvertText(orderXSD)
		require.NoError(t, err)
		assert.Equal(t, []string{"Order", "Audit"}, names(result))
		require.Equal(t, 1, result.InfoCount)
		assert.Contains(t, result.Issues[0].Message, "no entry points")
	})

	t.Run("no schemas", func(t *testing.T) {
		result, err := ConvertText(`<definitions xmlns="http://schemas.xmlsoap.org/wsdl/"/>`)
		require.NoError(t, err)
		assert.NotNil(t, result.Schema.Entities)
		assert.Empty(t, result.Schema.Entities)
	})
}

func TestDegradation(t *testing.T) {
	text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:tns="urn:deg" targetNamespace="urn:deg">
  <xs:element name="Loose">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="typed" type="tns:Nowhere"/>
        <xs:element ref="tns:Ghost" maxOccurs="unbounded"/>
        <xs:element name="untyped"/>
        <xs:element/>
        <xs:element name="unbound" type="zz:thing"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

	result := convertAll(t, text)
	loose := entity(t, result, "Loose")
	assert.Equal(t, []schema.Attribute{
		attr("typed", schema.String, false, false),
		attr("Ghost", schema.String, true, false),
		attr("untyped", schema.String, false, false),
		attr("field", schema.String, false, false),
		attr("unbound", schema.String, false, false),
	}, loose.Attributes)

	var warnings []Issue
	for _, issue := range result.Issues {
		if issue.Severity == severity.SeverityWarning {
			warnings = append(warnings, issue)
		}
	}
	require.Len(t, warnings, 3)
	assert.Equal(t, "Loose/typed", warnings[0].Path)
	assert.Equal(t, "tns:Nowhere", warnings[0].Context)
	assert.Equal(t, "Loose/Ghost", warnings[1].Path)
	assert.Equal(t, "document", warnings[1].Document)
	assert.Equal(t, 3, result.WarningCount)
}

const supplementsXSD = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:tns="urn:sup" targetNamespace="urn:sup">
  <xs:group name="Audit">
    <xs:sequence>
      <xs:element name="createdAt" type="xs:dateTime"/>
      <xs:element name="createdBy" type="xs:string"/>
    </xs:sequence>
  </xs:group>
  <xs:attributeGroup name="Tracking">
    <xs:attribute name="trace" type="xs:string"/>
    <xs:attribute name="hops" type="xs:int"/>
  </xs:attributeGroup>
  <xs:complexType name="Money">
    <xs:simpleContent>
      <xs:extension base="xs:decimal">
        <xs:attribute name="currency" type="xs:string"/>
      </xs:extension>
    </xs:simpleContent>
  </xs:complexType>
  <xs:element name="Invoice">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="number" type="xs:string"/>
        <xs:element name="total" type="tns:Money"/>
        <xs:choice maxOccurs="unbounded">
          <xs:element name="note" type="xs:string"/>
          <xs:element name="flag" type="xs:boolean"/>
        </xs:choice>
        <xs:group ref="tns:Audit"/>
        <xs:any processContents="lax"/>
      </xs:sequence>
      <xs:attributeGroup ref="tns:Tracking"/>
      <xs:attribute name="status" type="xs:string" use="prohibited"/>
      <xs:anyAttribute/>
    </xs:complexType>
  </xs:element>
</xs:schema>`

func TestSupplementalConstructs(t *testing.T) {
	result := convertAll(t, supplementsXSD)
	invoice := entity(t, result, "Invoice")
	assert.Equal(t, []schema.Attribute{
		attr("number", schema.String, false, false),
		attr("total", schema.Int, false, false),
		attr("currency", schema.String, false, false),
		attr("note", schema.String, false, false),
		attr("flag", schema.Bool, false, false),
		attr("createdAt", schema.Datetime, false, false),
		attr("createdBy", schema.String, false, false),
		attr("trace", schema.String, false, false),
		attr("hops", schema.Int, false, false),
	}, invoice.Attributes)
	assert.False(t, result.HasWarnings())

	t.Run("restriction walks only its own content", func(t *testing.T) {
		text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:tns="urn:r" targetNamespace="urn:r">
  <xs:complexType name="Base">
    <xs:sequence>
      <xs:element name="a" type="xs:string"/>
      <xs:element name="b" type="xs:string" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="Narrow">
    <xs:complexContent>
      <xs:restriction base="tns:Base">
        <xs:sequence><xs:element name="a" type="xs:string"/></xs:sequence>
      </xs:restriction>
    </xs:complexContent>
  </xs:complexType>
  <xs:complexType name="Wide">
    <xs:complexContent>
      <xs:extension base="tns:Base">
        <xs:sequence><xs:element name="c" type="xs:int"/></xs:sequence>
        <xs:attribute name="d" type="xs:boolean"/>
      </xs:extension>
    </xs:complexContent>
  </xs:complexType>
  <xs:element name="N" type="tns:Narrow"/>
  <xs:element name="W" type="tns:Wide"/>
</xs:schema>`
		result := convertAll(t, text)
		assert.Equal(t, []schema.Attribute{
			attr("a", schema.String, false, false),
		}, entity(t, result, "N").Attributes)
		assert.Equal(t, []schema.Attribute{
			attr("a", schema.String, false, false),
			attr("b", schema.String, false, false),
			attr("c", schema.Int, false, false),
			attr("d", schema.Bool, false, false),
		}, entity(t, result, "W").Attributes)
	})
}

func TestSimpleTypes(t *testing.T) {
	text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:tns="urn:st" targetNamespace="urn:st">
  <xs:simpleType name="Qty"><xs:restriction base="xs:int"/></xs:simpleType>
  <xs:simpleType name="BigQty"><xs:restriction base="tns:Qty"/></xs:simpleType>
  <xs:simpleType name="Tags"><xs:list itemType="xs:int"/></xs:simpleType>
  <xs:element name="Stock">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="qty" type="tns:BigQty"/>
        <xs:element name="tags" type="tns:Tags"/>
        <xs:element name="when">
          <xs:simpleType><xs:restriction base="xs:date"/></xs:simpleType>
        </xs:element>
      </xs:sequence>
      <xs:attribute name="level" type="tns:Qty"/>
    </xs:complexType>
  </xs:element>
</xs:schema>`

	t.Run("default maps to String", func(t *testing.T) {
		stock := entity(t, convertAll(t, text), "Stock")
		for _, a := range stock.Attributes {
			assert.Equal(t, schema.String, a.Type, a.Name)
		}
	})

	t.Run("resolved through restrictions", func(t *testing.T) {
		stock := entity(t, convertAll(t, text, WithResolveSimpleTypes(true)), "Stock")
		assert.Equal(t, []schema.Attribute{
			attr("qty", schema.Int, false, false),
			attr("tags", schema.String, false, false),
			attr("when", schema.Datetime, false, false),
			attr("level", schema.Int, false, false),
		}, stock.Attributes)
	})
}

func TestNamespaceHandling(t *testing.T) {
	t.Run("unqualified type retried in target namespace", func(t *testing.T) {
		text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:home">
  <xs:complexType name="Address">
    <xs:sequence><xs:element name="street" type="xs:string"/></xs:sequence>
  </xs:complexType>
  <xs:element name="Home" type="Address"/>
</xs:schema>`
		result := convertAll(t, text)
		assert.Equal(t, []schema.Attribute{
			attr("street", schema.String, false, false),
		}, entity(t, result, "Home").Attributes)
		assert.False(t, result.HasWarnings())
	})

	t.Run("same local name in two namespaces", func(t *testing.T) {
		a := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:a">
  <xs:element name="Thing"><xs:complexType><xs:sequence>
    <xs:element name="x" type="xs:string"/>
  </xs:sequence></xs:complexType></xs:element>
</xs:schema>`
		b := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:b">
  <xs:element name="Thing"><xs:complexType><xs:sequence>
    <xs:element name="y" type="xs:int"/>
  </xs:sequence></xs:complexType></xs:element>
</xs:schema>`
		result, err := Convert([]document.Source{{Name: "a.xsd", Text: a}, {Name: "b.xsd", Text: b}}, WithScope(ScopeAll))
		require.NoError(t, err)
		require.Len(t, result.Schema.Entities, 1)
		assert.Equal(t, []schema.Attribute{
			attr("x", schema.String, false, false),
			attr("y", schema.Int, false, false),
		}, result.Schema.Entities[0].Attributes)
		require.Equal(t, 1, result.WarningCount)
		assert.Contains(t, result.Issues[len(result.Issues)-1].Message, "collides")
	})

	t.Run("embedded schema in service description", func(t *testing.T) {
		wsdl := `<wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
                  xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:e="urn:emb">
  <wsdl:types>
    <xs:schema targetNamespace="urn:emb">
      <xs:element name="Ping">
        <xs:complexType><xs:sequence>
          <xs:element name="sentAt" type="xs:dateTime"/>
        </xs:sequence></xs:complexType>
      </xs:element>
    </xs:schema>
  </wsdl:types>
  <wsdl:message name="PingIn"><wsdl:part name="p" element="e:Ping"/></wsdl:message>
</wsdl:definitions>`
		result, err := ConvertText(wsdl)
		require.NoError(t, err)
		require.Len(t, result.Schema.Entities, 1)
		assert.Equal(t, "Ping", result.Schema.Entities[0].Name)
		assert.Equal(t, schema.Datetime, result.Schema.Entities[0].Attributes[0].Type)
	})
}

func TestDuplicateAttributesFirstWins(t *testing.T) {
	text := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Person">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="name" type="xs:string"/>
        <xs:element name="home">
          <xs:complexType><xs:sequence>
            <xs:element name="Name" type="xs:int"/>
            <xs:element name="city" type="xs:string"/>
          </xs:sequence></xs:complexType>
        </xs:element>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`
	person := entity(t, convertAll(t, text), "Person")
	assert.Equal(t, []schema.Attribute{
		attr("name", schema.String, false, false),
		attr("city", schema.String, false, false),
	}, person.Attributes)
}
