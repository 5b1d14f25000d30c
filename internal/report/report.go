// Package report renders a reconciliation as a plain text document.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/messmill/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Options configure the formatting of a report.
type Options struct {
	Language language.Tag
	Currency currency.Unit
	Location *time.Location
}

// DefaultOptions formats numbers in English with the Bangladeshi Taka
// as currency.
var DefaultOptions = Options{
	Language: language.English,
	Currency: currency.MustParseISO("BDT"),
	Location: time.UTC,
}

// ParseOptions parses a BCP 47 language tag and an ISO 4217 currency code.
// Empty values keep the defaults.
func ParseOptions(lang, cur string) (Options, error) {
	o := DefaultOptions

	if lang != "" {
		tag, err := language.Parse(lang)
		if err != nil {
			return Options{}, fmt.Errorf("invalid report language %q: %w", lang, err)
		}
		o.Language = tag
	}

	if cur != "" {
		unit, err := currency.ParseISO(cur)
		if err != nil {
			return Options{}, fmt.Errorf("invalid report currency %q: %w", cur, err)
		}
		o.Currency = unit
	}

	return o, nil
}

// Write renders the reconciliation to w.
func Write(w io.Writer, r models.Reconciliation, generated time.Time, o Options) error {
	if o.Location == nil {
		o.Location = time.UTC
	}

	f := newFormatter(o.Language)
	amount := func(d decimal.Decimal) string {
		return f.format(d.StringFixed(2))
	}
	meals := func(d decimal.Decimal) string {
		return f.format(d.String())
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Mess mill report")
	fmt.Fprintf(tw, "Generated:\t%s\n", generated.In(o.Location).Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(tw, "Currency:\t%s\n", o.Currency)
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Total money:\t%s\n", amount(r.TotalMoney))
	fmt.Fprintf(tw, "Total meals:\t%s\n", meals(r.TotalMeals))
	fmt.Fprintf(tw, "Total expenses:\t%s\n", amount(r.TotalExpenses))
	fmt.Fprintf(tw, "Per meal cost:\t%s\n", amount(r.PerMealCost))
	fmt.Fprintf(tw, "Remaining money:\t%s\n", amount(r.RemainingMoney))

	if len(r.Students) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Name\tMoney\tMeals\tCost\tBalance\tStatus")
		for _, s := range r.Students {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Name,
				amount(s.TotalMoney),
				meals(s.TotalMeals),
				amount(s.Cost),
				amount(s.Balance),
				s.Status,
			)
		}
	}

	return tw.Flush()
}

// formatter groups the digits of decimal strings the way the language
// does. The digits themselves are never converted to a float.
type formatter struct {
	p         *message.Printer
	separator string
}

func newFormatter(tag language.Tag) formatter {
	p := message.NewPrinter(tag)
	return formatter{
		p:         p,
		separator: strings.Trim(p.Sprintf("%.1f", 0.5), "05"),
	}
}

// format formats a decimal string like "-1234.50".
func (f formatter) format(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, fraction, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + s
	}

	out := sign + f.p.Sprintf("%d", n)
	if fraction != "" {
		out += f.separator + fraction
	}

	return out
}
