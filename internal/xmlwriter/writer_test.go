package xmlwriter

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/excel-to-tally-xml/internal/types"
)

// envelope mirrors the generated document for round-trip checks.
type envelope struct {
	XMLName      xml.Name `xml:"ENVELOPE"`
	TallyRequest string   `xml:"HEADER>TALLYREQUEST"`
	ReportName   string   `xml:"BODY>IMPORTDATA>REQUESTDESC>REPORTNAME"`
	Messages     []struct {
		Voucher struct {
			Action        string `xml:"ACTION,attr"`
			VchType       string `xml:"VCHTYPE,attr"`
			Date          string `xml:"DATE"`
			TypeName      string `xml:"VOUCHERTYPENAME"`
			VoucherNumber string `xml:"VOUCHERNUMBER"`
			Narration     string `xml:"NARRATION"`
			Entries       []struct {
				LedgerName       string `xml:"LEDGERNAME"`
				IsDeemedPositive string `xml:"ISDEEMEDPOSITIVE"`
				Amount           string `xml:"AMOUNT"`
			} `xml:"ALLLEDGERENTRIES.LIST"`
		} `xml:"VOUCHER"`
	} `xml:"BODY>IMPORTDATA>REQUESTDATA>TALLYMESSAGE"`
}

func journal(date, number, narration, dr, cr, amount string) types.Voucher {
	amt := decimal.RequireFromString(amount)
	return types.Voucher{
		Action:        "Create",
		VoucherType:   "Journal",
		Date:          date,
		VoucherNumber: number,
		Narration:     narration,
		Entries: []types.LedgerEntry{
			{LedgerName: dr, IsDeemedPositive: true, Amount: amt.Neg()},
			{LedgerName: cr, IsDeemedPositive: false, Amount: amt},
		},
	}
}

func parse(t *testing.T, data []byte) envelope {
	t.Helper()
	var doc envelope
	require.NoError(t, xml.Unmarshal(data, &doc), "output must be well-formed:\n%s", data)
	return doc
}

func TestGenerate_Structure(t *testing.T) {
	data, err := Generate([]types.Voucher{
		journal("20250704", "JV-001", "Office rent", "Rent", "Cash", "1500"),
		journal("20250705", "", "", "Bank", "Sales", "-200.5"),
	})
	require.NoError(t, err)

	doc := parse(t, data)
	assert.Equal(t, "Import Data", doc.TallyRequest)
	assert.Equal(t, "Vouchers", doc.ReportName)
	require.Len(t, doc.Messages, 2)

	first := doc.Messages[0].Voucher
	assert.Equal(t, "Create", first.Action)
	assert.Equal(t, "Journal", first.VchType)
	assert.Equal(t, "Journal", first.TypeName)
	assert.Equal(t, "20250704", first.Date)
	assert.Equal(t, "JV-001", first.VoucherNumber)
	assert.Equal(t, "Office rent", first.Narration)
	require.Len(t, first.Entries, 2)
	assert.Equal(t, "Rent", first.Entries[0].LedgerName)
	assert.Equal(t, "Yes", first.Entries[0].IsDeemedPositive)
	assert.Equal(t, "-1500.00", first.Entries[0].Amount)
	assert.Equal(t, "Cash", first.Entries[1].LedgerName)
	assert.Equal(t, "No", first.Entries[1].IsDeemedPositive)
	assert.Equal(t, "1500.00", first.Entries[1].Amount)

	second := doc.Messages[1].Voucher
	assert.Equal(t, "200.50", second.Entries[0].Amount, "negative source amount is negated on the debit leg")
	assert.Equal(t, "-200.50", second.Entries[1].Amount)
}

func TestGenerate_EscapesText(t *testing.T) {
	data, err := Generate([]types.Voucher{
		journal("20250704", "A&B", `Paid "rent" <July> & 'more'`, "Smith & Co.", "O'Brien", "10"),
	})
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "<LEDGERNAME>Smith &amp; Co.</LEDGERNAME>")
	assert.Contains(t, out, "<LEDGERNAME>O&apos;Brien</LEDGERNAME>")
	assert.Contains(t, out, "<NARRATION>Paid &quot;rent&quot; &lt;July&gt; &amp; &apos;more&apos;</NARRATION>")
	assert.Contains(t, out, "<VOUCHERNUMBER>A&amp;B</VOUCHERNUMBER>")

	doc := parse(t, data)
	v := doc.Messages[0].Voucher
	assert.Equal(t, "Smith & Co.", v.Entries[0].LedgerName)
	assert.Equal(t, `Paid "rent" <July> & 'more'`, v.Narration)
}

func TestGenerate_EmptyLeavesAreNotSelfClosed(t *testing.T) {
	data, err := Generate([]types.Voucher{journal("20250704", "", "", "Cash", "Sales", "1")})
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "<VOUCHERNUMBER></VOUCHERNUMBER>")
	assert.Contains(t, out, "<NARRATION></NARRATION>")
	assert.NotContains(t, out, "/>")
}

func TestGenerate_Layout(t *testing.T) {
	data, err := Generate([]types.Voucher{journal("20250704", "1", "n", "Cash", "Sales", "1")})
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "<ENVELOPE>\n  <HEADER>\n    <TALLYREQUEST>Import Data</TALLYREQUEST>\n"))
	assert.Contains(t, out, "\n          <VOUCHER ACTION=\"Create\" VCHTYPE=\"Journal\">\n")
	assert.True(t, strings.HasSuffix(out, "</ENVELOPE>\n"))
	assert.NotContains(t, out, "<?xml")
}

func TestGenerateWithOptions_Declaration(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.IncludeXMLDeclaration = true
	opts.Indent = "\t"

	data, err := GenerateWithOptions([]types.Voucher{journal("20250704", "1", "", "Cash", "Sales", "1")}, opts)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<ENVELOPE>\n\t<HEADER>"))
	parse(t, data)
}

func TestGenerate_CountMatchesInput(t *testing.T) {
	vouchers := make([]types.Voucher, 25)
	for i := range vouchers {
		vouchers[i] = journal("20250101", "", "", "Cash", "Sales", "1.005")
	}

	data, err := Generate(vouchers)
	require.NoError(t, err)

	doc := parse(t, data)
	assert.Len(t, doc.Messages, 25)
	assert.Equal(t, 25, strings.Count(string(data), "<TALLYMESSAGE>"))
	for _, m := range doc.Messages {
		assert.Equal(t, "-1.01", m.Voucher.Entries[0].Amount)
		assert.Equal(t, "1.01", m.Voucher.Entries[1].Amount)
	}
}

func TestGenerate_NoEntries(t *testing.T) {
	_, err := Generate([]types.Voucher{{Action: "Create", VoucherType: "Journal", VoucherNumber: "X"}})
	require.Error(t, err)
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt; &quot;d&quot; &apos;e&apos;", escapeXML(`a & b <c> "d" 'e'`))
	assert.Equal(t, "plain", escapeXML("plain"))
}
