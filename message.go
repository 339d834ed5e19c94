package calltracker

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// mismatchMsg is the catalog key for Result.String. Its arguments are the
// name, the expected and actual counts used for plural selection, and the
// same counts preformatted so the printer does not group their digits.
const mismatchMsg = "%s: expected %d call(s), got %d call(s)"

var printer = newPrinter()

func newPrinter() *message.Printer {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	err := b.Set(language.English, mismatchMsg,
		catalog.Var("expected", plural.Selectf(2, "%d",
			plural.One, "%[4]s call",
			plural.Other, "%[4]s calls")),
		catalog.Var("actual", plural.Selectf(3, "%d",
			plural.One, "%[5]s call",
			plural.Other, "%[5]s calls")),
		catalog.String("%[1]s: expected ${expected}, got ${actual}"))
	if err != nil {
		panic(err)
	}
	return message.NewPrinter(language.English, message.Catalog(b))
}
