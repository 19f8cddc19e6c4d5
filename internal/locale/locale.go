package locale

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/goodsign/monday"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fullcal/internal/model"
)

// Provider formats everything user-visible: month titles, weekday labels,
// dates and prices. Renderers receive it instead of hardcoding a locale.
type Provider interface {
	Tag() language.Tag
	MonthTitle(d civil.Date) string
	WeekdayName(wd time.Weekday) string
	WeekdayHeader(weekStart time.Weekday) []string
	DayNumber(d civil.Date) string
	Date(d civil.Date) string
	DateTime(dt civil.DateTime) string
	Price(p model.Price) string
	AddLabel() string
}

// DefaultTag is the locale used when none is configured.
const DefaultTag = "pt-BR"

type localeDef struct {
	tag        language.Tag
	monday     monday.Locale
	dateLayout string
	timeLayout string
	group      string
	point      string
	addLabel   string
}

var supported = map[string]localeDef{
	"pt-BR": {tag: language.BrazilianPortuguese, monday: monday.LocalePtBR, dateLayout: "02/01/2006", timeLayout: "15:04", group: ".", point: ",", addLabel: "Adicionar"},
	"en-US": {tag: language.AmericanEnglish, monday: monday.LocaleEnUS, dateLayout: "01/02/2006", timeLayout: "3:04 PM", group: ",", point: ".", addLabel: "Add"},
}

// Supported lists the accepted locale tags.
func Supported() []string {
	return []string{"en-US", "pt-BR"}
}

// Formatter is the Provider backed by monday (names) and x/text (money).
type Formatter struct {
	def     localeDef
	printer *message.Printer
}

// New returns a Formatter for tag ("pt-BR", "en-US", also "pt_BR").
func New(tag string) (*Formatter, error) {
	key := strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	if key == "" {
		key = DefaultTag
	}
	for k, s := range supported {
		if strings.EqualFold(k, key) {
			return &Formatter{def: s, printer: message.NewPrinter(s.tag)}, nil
		}
	}
	return nil, fmt.Errorf("locale: unsupported tag %q", tag)
}

func (f *Formatter) Tag() language.Tag { return f.def.tag }

// MonthTitle renders "November 2024" / "Novembro 2024".
func (f *Formatter) MonthTitle(d civil.Date) string {
	return capitalize(monday.Format(d.In(time.UTC), "January 2006", f.def.monday))
}

func (f *Formatter) WeekdayName(wd time.Weekday) string {
	// 2024-11-03 is a Sunday; offset to reach wd.
	ref := time.Date(2024, time.November, 3+int(wd), 0, 0, 0, 0, time.UTC)
	return capitalize(monday.Format(ref, "Monday", f.def.monday))
}

// WeekdayHeader returns the seven column labels starting at weekStart.
func (f *Formatter) WeekdayHeader(weekStart time.Weekday) []string {
	out := make([]string, 7)
	for i := range out {
		out[i] = f.WeekdayName((weekStart + time.Weekday(i)) % 7)
	}
	return out
}

func (f *Formatter) DayNumber(d civil.Date) string {
	return strconv.Itoa(d.Day)
}

func (f *Formatter) Date(d civil.Date) string {
	return d.In(time.UTC).Format(f.def.dateLayout)
}

func (f *Formatter) DateTime(dt civil.DateTime) string {
	return dt.In(time.UTC).Format(f.def.dateLayout + " " + f.def.timeLayout)
}

// Price renders the amount with the currency symbol and locale separators,
// e.g. "R$ 100,00". The amount is rounded to the currency's standard scale
// and formatted from the decimal digits, never through a float.
func (f *Formatter) Price(p model.Price) string {
	scale, _ := currency.Standard.Rounding(p.Currency)
	digits := p.Value.StringFixed(int32(scale))

	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	whole, frac, _ := strings.Cut(digits, ".")
	amount := groupThousands(whole, f.def.group)
	if frac != "" {
		amount += f.def.point + frac
	}
	sym := f.printer.Sprint(currency.Symbol(p.Currency))
	return sign + sym + " " + amount
}

// AddLabel is the caption of the per-day add action.
func (f *Formatter) AddLabel() string { return f.def.addLabel }

func groupThousands(whole, sep string) string {
	if len(whole) <= 3 {
		return whole
	}
	var b strings.Builder
	head := len(whole) % 3
	if head > 0 {
		b.WriteString(whole[:head])
	}
	for i := head; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(whole[i : i+3])
	}
	return b.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
