package pit38

// FieldID names a logical total computed by the aggregator. The mapping of
// logical totals to a jurisdiction's numbered form fields is static
// configuration consumed by the renderer, not engine logic.
type FieldID string

const (
	FieldProceeds        FieldID = "proceeds"          // gross sale proceeds
	FieldCosts           FieldID = "costs"             // cost of revenue
	FieldIncome          FieldID = "income"            // proceeds - costs
	FieldLoss            FieldID = "loss"              // non-negative deficit
	FieldTaxBase         FieldID = "tax-base"          // rounded taxable base
	FieldTax             FieldID = "tax"               // tax on the base
	FieldForeignCapital  FieldID = "foreign-capital"   // foreign tax credit, capital gains
	FieldTaxDue          FieldID = "tax-due"           // tax after the credit
	FieldFlatIncome      FieldID = "flat-income"       // flat-rate (dividend) income base
	FieldFlatTax         FieldID = "flat-tax"          // flat-rate tax
	FieldForeignDividend FieldID = "foreign-dividend"  // foreign tax credit, dividends
	FieldFlatTaxDue      FieldID = "flat-tax-due"      // flat-rate tax after the credit
	FieldAnnexIncome     FieldID = "annex-income"      // foreign-income annex: income
	FieldAnnexForeignTax FieldID = "annex-foreign-tax" // foreign-income annex: tax paid abroad
)

// Layout maps logical totals to the numbered fields of one tax-year's
// PIT-38 form revision.
type Layout struct {
	Since  int // first tax year the revision applies to
	Fields map[FieldID]string
}

// layouts, newest first. The PIT-38(16) numbering has been stable since
// tax year 2022.
var layouts = []Layout{
	{
		Since: 2022,
		Fields: map[FieldID]string{
			FieldProceeds:        "Poz. 22",
			FieldCosts:           "Poz. 23",
			FieldIncome:          "Poz. 26",
			FieldLoss:            "Poz. 27",
			FieldTaxBase:         "Poz. 29",
			FieldTax:             "Poz. 31",
			FieldForeignCapital:  "Poz. 32",
			FieldTaxDue:          "Poz. 33",
			FieldFlatTax:         "Poz. 45",
			FieldForeignDividend: "Poz. 46",
			FieldFlatTaxDue:      "Poz. 47",
			FieldAnnexIncome:     "PIT-ZG Poz. 29",
			FieldAnnexForeignTax: "PIT-ZG Poz. 30",
		},
	},
}

// LayoutFor returns the field layout applicable to a tax year.
func LayoutFor(year int) Layout {
	for _, l := range layouts {
		if year >= l.Since {
			return l
		}
	}
	return layouts[len(layouts)-1]
}

// Field returns the form field number for a logical total, or "" when the
// revision has no numbered field for it (unrounded subtotals, for example).
func (l Layout) Field(id FieldID) string { return l.Fields[id] }
