// =============================================================================
// Excel to Tally XML - XML Writer Module
// =============================================================================
//
// This module renders journal vouchers as a Tally "Import Data" request.
//
// XML STRUCTURE:
//   <ENVELOPE>
//     <HEADER>
//       <TALLYREQUEST>Import Data</TALLYREQUEST>
//     </HEADER>
//     <BODY>
//       <IMPORTDATA>
//         <REQUESTDESC>
//           <REPORTNAME>Vouchers</REPORTNAME>
//         </REQUESTDESC>
//         <REQUESTDATA>
//           <TALLYMESSAGE>
//             <VOUCHER ACTION="Create" VCHTYPE="Journal">
//               <DATE>20250704</DATE>
//               <VOUCHERTYPENAME>Journal</VOUCHERTYPENAME>
//               <VOUCHERNUMBER>JV-001</VOUCHERNUMBER>
//               <NARRATION>Office rent</NARRATION>
//               <ALLLEDGERENTRIES.LIST>
//                 <LEDGERNAME>Rent</LEDGERNAME>
//                 <ISDEEMEDPOSITIVE>Yes</ISDEEMEDPOSITIVE>
//                 <AMOUNT>-1500.00</AMOUNT>
//               </ALLLEDGERENTRIES.LIST>
//               <ALLLEDGERENTRIES.LIST>
//                 <LEDGERNAME>Cash</LEDGERNAME>
//                 <ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>
//                 <AMOUNT>1500.00</AMOUNT>
//               </ALLLEDGERENTRIES.LIST>
//             </VOUCHER>
//           </TALLYMESSAGE>
//         </REQUESTDATA>
//       </IMPORTDATA>
//     </BODY>
//   </ENVELOPE>
//
// One TALLYMESSAGE is written per voucher, in input order. Every text value
// and attribute is escaped for & < > " and '.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/types"
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
	// Default: false. Tally reads the envelope without one.
	IncludeXMLDeclaration bool

	// ReportName is the REPORTNAME of the import request.
	// Default: "Vouchers"
	ReportName string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: false,
		ReportName:            "Vouchers",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates the import document for the given vouchers.
//
// PARAMETERS:
//   - vouchers: The vouchers in output order.
//
// RETURNS:
//   - The XML document as a byte slice (UTF-8).
//   - An error if generation fails.
func Generate(vouchers []types.Voucher) ([]byte, error) {
	return GenerateWithOptions(vouchers, DefaultGenerateOptions())
}

// GenerateWithOptions creates the import document with custom options.
func GenerateWithOptions(vouchers []types.Voucher, options GenerateOptions) ([]byte, error) {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	}

	doc, err := buildEnvelope(vouchers, options)
	if err != nil {
		return nil, err
	}

	writeElement(&buffer, doc, options.Indent, 0)

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element. An element with no children
// is a leaf and is always written with an explicit closing tag, even when
// its value is empty.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildEnvelope constructs the ENVELOPE element holding every voucher.
func buildEnvelope(vouchers []types.Voucher, options GenerateOptions) (XMLElement, error) {
	messages := make([]XMLElement, 0, len(vouchers))
	for i, v := range vouchers {
		voucher, err := buildVoucherElement(v)
		if err != nil {
			return XMLElement{}, fmt.Errorf("voucher %d: %w", i+1, err)
		}
		messages = append(messages, element("TALLYMESSAGE", voucher))
	}

	return element("ENVELOPE",
		element("HEADER",
			leaf("TALLYREQUEST", "Import Data"),
		),
		element("BODY",
			element("IMPORTDATA",
				element("REQUESTDESC",
					leaf("REPORTNAME", options.ReportName),
				),
				element("REQUESTDATA", messages...),
			),
		),
	), nil
}

// buildVoucherElement constructs a VOUCHER element.
//
// STRUCTURE:
//   <VOUCHER ACTION="Create" VCHTYPE="Journal">
//     <DATE/> <VOUCHERTYPENAME/> <VOUCHERNUMBER/> <NARRATION/>
//     <ALLLEDGERENTRIES.LIST>...</ALLLEDGERENTRIES.LIST>  (one per entry)
//   </VOUCHER>
func buildVoucherElement(v types.Voucher) (XMLElement, error) {
	if len(v.Entries) == 0 {
		return XMLElement{}, fmt.Errorf("voucher %q has no ledger entries", v.VoucherNumber)
	}

	el := XMLElement{
		XMLName: xml.Name{Local: "VOUCHER"},
		Attributes: []xml.Attr{
			{Name: xml.Name{Local: "ACTION"}, Value: v.Action},
			{Name: xml.Name{Local: "VCHTYPE"}, Value: v.VoucherType},
		},
		Children: []XMLElement{
			leaf("DATE", v.Date),
			leaf("VOUCHERTYPENAME", v.VoucherType),
			leaf("VOUCHERNUMBER", v.VoucherNumber),
			leaf("NARRATION", v.Narration),
		},
	}

	for _, entry := range v.Entries {
		el.Children = append(el.Children, element("ALLLEDGERENTRIES.LIST",
			leaf("LEDGERNAME", entry.LedgerName),
			leaf("ISDEEMEDPOSITIVE", yesNo(entry.IsDeemedPositive)),
			leaf("AMOUNT", FormatAmount(entry)),
		))
	}

	return el, nil
}

// FormatAmount renders an entry amount with exactly two fraction digits.
func FormatAmount(entry types.LedgerEntry) string {
	return entry.Amount.StringFixed(2)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// element creates a container element.
func element(name string, children ...XMLElement) XMLElement {
	return XMLElement{
		XMLName:  xml.Name{Local: name},
		Children: children,
	}
}

// leaf creates a simple XML element with a text value.
func leaf(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, el XMLElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(el.XMLName.Local)

	for _, attr := range el.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	buffer.WriteString(">")

	if len(el.Children) == 0 {
		buffer.WriteString(escapeXML(el.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range el.Children {
			writeElement(buffer, child, indent, level+1)
		}

		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(el.XMLName.Local)
	buffer.WriteString(">\n")
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
