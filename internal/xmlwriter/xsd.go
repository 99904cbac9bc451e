package xmlwriter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/transcript-parser/internal/types"
)

// =============================================================================
// XSD GENERATION
// =============================================================================

// GenerateXSD returns an XSD schema describing the documents Generate
// produces with default options. The totals kind attribute is restricted to
// the known kinds.
func GenerateXSD() []byte {
	var buffer bytes.Buffer

	buffer.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">

  <xs:element name="transcript">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="student">
          <xs:complexType>
            <xs:sequence>
`)
	writeXSDElement(&buffer, "name", "xs:string", true, 7)
	writeXSDElement(&buffer, "studentId", "xs:string", true, 7)
	writeXSDElement(&buffer, "printDate", "xs:string", true, 7)
	buffer.WriteString(`            </xs:sequence>
          </xs:complexType>
        </xs:element>
        <xs:element name="terms">
          <xs:complexType>
            <xs:sequence>
              <xs:element ref="term" minOccurs="0" maxOccurs="unbounded"/>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
        <xs:element name="careerTotals" type="totalsType"/>
        <xs:element name="warnings" minOccurs="0">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="warning" minOccurs="0" maxOccurs="unbounded">
                <xs:complexType>
                  <xs:simpleContent>
                    <xs:extension base="xs:string">
                      <xs:attribute name="n" type="xs:positiveInteger" use="required"/>
                    </xs:extension>
                  </xs:simpleContent>
                </xs:complexType>
              </xs:element>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
    </xs:complexType>
  </xs:element>

  <xs:element name="term">
    <xs:complexType>
      <xs:sequence>
`)
	writeXSDElement(&buffer, "program", "xs:string", true, 4)
	writeXSDElement(&buffer, "plan", "xs:string", true, 4)
	buffer.WriteString(`        <xs:element name="courses">
          <xs:complexType>
            <xs:sequence>
              <xs:element ref="course" minOccurs="0" maxOccurs="unbounded"/>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
        <xs:element name="totals" type="totalsType"/>
      </xs:sequence>
      <xs:attribute name="n" type="xs:positiveInteger" use="required"/>
      <xs:attribute name="label" type="xs:string" use="required"/>
    </xs:complexType>
  </xs:element>

  <xs:element name="course">
    <xs:complexType>
      <xs:sequence>
`)
	writeXSDElement(&buffer, "title", "xs:string", true, 4)
	writeXSDElement(&buffer, "attemptedUnits", "xs:decimal", true, 4)
	writeXSDElement(&buffer, "earnedUnits", "xs:decimal", true, 4)
	writeXSDElement(&buffer, "grade", "xs:string", true, 4)
	writeXSDElement(&buffer, "points", "xs:decimal", true, 4)
	buffer.WriteString(`      </xs:sequence>
      <xs:attribute name="n" type="xs:positiveInteger" use="required"/>
      <xs:attribute name="code" type="xs:string" use="required"/>
    </xs:complexType>
  </xs:element>

  <xs:complexType name="totalsType">
    <xs:sequence>
      <xs:element name="record" minOccurs="0" maxOccurs="unbounded">
        <xs:complexType>
          <xs:sequence>
`)
	writeXSDElement(&buffer, "gpa", "xs:decimal", true, 6)
	for _, name := range []string{"attempted", "earned", "gpaUnits", "points"} {
		writeXSDElement(&buffer, name, "xs:decimal", false, 6)
	}
	buffer.WriteString(`          </xs:sequence>
          <xs:attribute name="kind" type="totalsKind" use="required"/>
        </xs:complexType>
      </xs:element>
    </xs:sequence>
  </xs:complexType>

  <xs:simpleType name="totalsKind">
    <xs:restriction base="xs:string">
`)
	for _, kind := range sortedKinds() {
		buffer.WriteString(fmt.Sprintf("      <xs:enumeration value=\"%s\"/>\n", kind))
	}
	buffer.WriteString(`    </xs:restriction>
  </xs:simpleType>

</xs:schema>
`)

	return buffer.Bytes()
}

// writeXSDElement writes a simple element definition.
func writeXSDElement(buffer *bytes.Buffer, name, xsdType string, optional bool, indentLevel int) {
	indent := strings.Repeat("  ", indentLevel)

	minOccurs := "1"
	if optional {
		minOccurs = "0"
	}

	buffer.WriteString(fmt.Sprintf("%s<xs:element name=\"%s\" type=\"%s\" minOccurs=\"%s\"/>\n",
		indent, name, xsdType, minOccurs))
}

func sortedKinds() []string {
	kinds := make([]string, 0, len(types.AllTotalsKinds()))
	for _, k := range types.AllTotalsKinds() {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
