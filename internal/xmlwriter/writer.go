// =============================================================================
// Transcript Parser - XML Writer Module
// =============================================================================
//
// This module renders a parsed transcript as an XML document. The nesting
// mirrors the document tree; optional values that were not recovered are
// omitted rather than written empty.
//
// XML STRUCTURE:
//
//   <transcript>
//     <student>
//       <name>Jane Doe</name>
//       <studentId>1234567</studentId>
//       <printDate>05/10/2023</printDate>
//     </student>
//     <terms>
//       <term n="1" label="Fall 2021">
//         <program>College of Arts and Sciences</program>
//         <plan>Chemistry Major</plan>
//         <courses>
//           <course n="1" code="CHEM 101">     <!-- numbering is global -->
//             <title>General Chemistry</title>
//             <attemptedUnits>4.000</attemptedUnits>
//             <earnedUnits>4.000</earnedUnits>
//             <grade>A</grade>
//             <points>16.000</points>
//           </course>
//         </courses>
//         <totals>
//           <record kind="term">
//             <gpa>3.650</gpa>
//             <attempted>8.000</attempted> ...
//           </record>
//         </totals>
//       </term>
//     </terms>
//     <careerTotals> <record kind="cumulative">...</record> </careerTotals>
//     <warnings> <warning n="1">Course PHYS 201: terminated early.</warning> </warnings>
//   </transcript>
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/transcript-parser/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string

	// RootAttributes are additional attributes for the root element.
	// Example: {"source": "jane.pdf"}
	RootAttributes map[string]string

	// CourseNumberingGlobal determines if course numbering is global.
	// If true: courses are numbered 1, 2, 3, 4... across all terms.
	// If false: courses restart at 1 in each term.
	// Default: true
	CourseNumberingGlobal bool

	// IncludeWarnings writes the <warnings> element.
	// Default: true
	IncludeWarnings bool

	// IndexAttribute is the attribute name for term, course and warning
	// indices.
	// Default: "n"
	IndexAttribute string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
		RootAttributes:        make(map[string]string),
		CourseNumberingGlobal: true,
		IncludeWarnings:       true,
		IndexAttribute:        "n",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates an XML document from a transcript with default options.
func Generate(doc *types.TranscriptDocument) ([]byte, error) {
	return GenerateWithOptions(doc, DefaultGenerateOptions())
}

// GenerateWithOptions creates an XML document with custom options.
//
// PARAMETERS:
//   - doc: The parsed transcript.
//   - options: The generation options.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if generation fails.
func GenerateWithOptions(doc *types.TranscriptDocument, options GenerateOptions) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil transcript document")
	}

	var buffer bytes.Buffer

	// Write XML declaration if requested.
	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	root := buildDocument(doc, options)

	xmlBytes, err := marshalWithIndent(root, options.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}

	buffer.Write(xmlBytes)

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLDocument represents the root of the XML document.
type XMLDocument struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Children   []XMLElement
}

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr   `xml:",attr"`
	Value      string       `xml:",chardata"`
	Children   []XMLElement `xml:",any"`
}

// buildDocument constructs the XML document structure.
func buildDocument(doc *types.TranscriptDocument, options GenerateOptions) *XMLDocument {
	root := &XMLDocument{
		XMLName: xml.Name{Local: "transcript"},
	}

	// Root attributes in sorted order so output is reproducible.
	for _, key := range sortedKeys(options.RootAttributes) {
		root.Attributes = append(root.Attributes, xml.Attr{
			Name:  xml.Name{Local: key},
			Value: options.RootAttributes[key],
		})
	}

	root.Children = append(root.Children, buildStudentElement(doc.Student))

	terms := createContainer("terms")
	courseIndex := 1
	for i, term := range doc.Terms {
		if !options.CourseNumberingGlobal {
			courseIndex = 1
		}
		terms.Children = append(terms.Children, buildTermElement(term, i+1, &courseIndex, options))
	}
	root.Children = append(root.Children, terms)

	root.Children = append(root.Children, buildTotalsElement("careerTotals", doc.CareerTotals))

	if options.IncludeWarnings {
		warnings := createContainer("warnings")
		for i, w := range doc.Raw.Warnings {
			element := createSimpleElement("warning", w)
			element.Attributes = []xml.Attr{indexAttr(options, i+1)}
			warnings.Children = append(warnings.Children, element)
		}
		root.Children = append(root.Children, warnings)
	}

	return root
}

// buildStudentElement constructs the student header element.
func buildStudentElement(student types.Student) XMLElement {
	element := createContainer("student")
	appendOptional(&element, "name", student.Name)
	appendOptional(&element, "studentId", student.StudentID)
	appendOptional(&element, "printDate", student.PrintDate)
	return element
}

// buildTermElement constructs a term element.
//
// PARAMETERS:
//   - term: The term data.
//   - index: The term's 1-based position.
//   - courseIndex: Pointer to the running course counter.
//   - options: The generation options.
//
// STRUCTURE:
//   <term n="1" label="Fall 2021">
//     <program>...</program>
//     <plan>...</plan>
//     <courses>...</courses>
//     <totals>...</totals>
//   </term>
func buildTermElement(term types.Term, index int, courseIndex *int, options GenerateOptions) XMLElement {
	element := XMLElement{
		XMLName: xml.Name{Local: "term"},
		Attributes: []xml.Attr{
			indexAttr(options, index),
			{Name: xml.Name{Local: "label"}, Value: term.Label},
		},
	}

	appendOptional(&element, "program", term.Program)
	appendOptional(&element, "plan", term.Plan)

	courses := createContainer("courses")
	for _, course := range term.Courses {
		courses.Children = append(courses.Children, buildCourseElement(course, *courseIndex, options))
		(*courseIndex)++
	}
	element.Children = append(element.Children, courses)

	element.Children = append(element.Children, buildTotalsElement("totals", term.Totals))

	return element
}

// buildCourseElement constructs a course element.
//
// STRUCTURE:
//   <course n="1" code="CHEM 101">
//     <title>General Chemistry</title>
//     <attemptedUnits>4.000</attemptedUnits>
//     <earnedUnits>4.000</earnedUnits>
//     <grade>A</grade>
//     <points>16.000</points>
//   </course>
func buildCourseElement(course types.Course, index int, options GenerateOptions) XMLElement {
	element := XMLElement{
		XMLName: xml.Name{Local: "course"},
		Attributes: []xml.Attr{
			indexAttr(options, index),
			{Name: xml.Name{Local: "code"}, Value: course.Code},
		},
	}

	if course.Title != "" {
		element.Children = append(element.Children, createSimpleElement("title", course.Title))
	}
	appendDecimal(&element, "attemptedUnits", course.AttemptedUnits)
	appendDecimal(&element, "earnedUnits", course.EarnedUnits)
	appendOptional(&element, "grade", course.Grade)
	appendDecimal(&element, "points", course.Points)

	return element
}

// buildTotalsElement constructs a totals container with one record per kind
// present, in types.AllTotalsKinds order.
func buildTotalsElement(name string, totals map[types.TotalsKind]types.TotalsRecord) XMLElement {
	container := createContainer(name)

	for _, kind := range types.AllTotalsKinds() {
		rec, ok := totals[kind]
		if !ok {
			continue
		}

		record := XMLElement{
			XMLName:    xml.Name{Local: "record"},
			Attributes: []xml.Attr{{Name: xml.Name{Local: "kind"}, Value: string(kind)}},
		}
		appendDecimal(&record, "gpa", rec.GPA)
		record.Children = append(record.Children,
			createSimpleElement("attempted", formatDecimal(rec.Attempted)),
			createSimpleElement("earned", formatDecimal(rec.Earned)),
			createSimpleElement("gpaUnits", formatDecimal(rec.GPAUnits)),
			createSimpleElement("points", formatDecimal(rec.Points)),
		)

		container.Children = append(container.Children, record)
	}

	return container
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// createSimpleElement creates a simple XML element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// createContainer creates an element that only holds children.
func createContainer(name string) XMLElement {
	return XMLElement{XMLName: xml.Name{Local: name}}
}

func appendOptional(parent *XMLElement, name string, value *string) {
	if value == nil {
		return
	}
	parent.Children = append(parent.Children, createSimpleElement(name, *value))
}

func appendDecimal(parent *XMLElement, name string, value *float64) {
	if value == nil {
		return
	}
	parent.Children = append(parent.Children, createSimpleElement(name, formatDecimal(*value)))
}

// formatDecimal writes values with the three decimals transcripts use.
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func indexAttr(options GenerateOptions, index int) xml.Attr {
	return xml.Attr{
		Name:  xml.Name{Local: options.IndexAttribute},
		Value: strconv.Itoa(index),
	}
}

// marshalWithIndent marshals the document with indentation.
func marshalWithIndent(doc *XMLDocument, indent string) ([]byte, error) {
	var buffer bytes.Buffer

	// Write the root element opening tag.
	buffer.WriteString("<")
	buffer.WriteString(doc.XMLName.Local)

	// Write root attributes.
	for _, attr := range doc.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	buffer.WriteString(">\n")

	// Write children.
	for _, child := range doc.Children {
		writeElement(&buffer, child, indent, 1)
	}

	// Write the root element closing tag.
	buffer.WriteString("</")
	buffer.WriteString(doc.XMLName.Local)
	buffer.WriteString(">\n")

	return buffer.Bytes(), nil
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	writeIndent(buffer, indent, level)

	// Write opening tag.
	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	// Write attributes.
	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	// Empty containers self-close.
	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}

		writeIndent(buffer, indent, level)
	}

	// Write closing tag.
	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}
