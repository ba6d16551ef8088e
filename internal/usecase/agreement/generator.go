// Package agreement renders the loan agreement and release documents from
// loan fields. The text is generated once (at lender signature, and at
// forgiveness) and stored on the loan, immutable after.
package agreement

import (
	"strings"
	"text/template"
	"time"

	"lendpact/internal/domain/loan"
)

const agreementTmpl = `PERSONAL LOAN AGREEMENT

Loan reference: {{.LoanID}}

The lender ({{.LenderID}}) agrees to lend the borrower ({{.BorrowerID}}) the
principal amount of {{.Principal}}.

Interest: {{.Interest}}
Repayment schedule: {{.Schedule}}{{if .Maturity}}
Maturity date: {{.Maturity}}{{end}}{{if .LateFee}}
Late fee per missed period: {{.LateFee}}{{end}}

By signing electronically, both parties accept these terms. Signature
timestamps and originating addresses are recorded with the loan.

Generated on {{.Generated}}.
`

const releaseTmpl = `RELEASE OF LOAN OBLIGATION

Loan reference: {{.LoanID}}

The lender ({{.LenderID}}) forgives the outstanding balance of
{{.Balance}} owed by the borrower ({{.BorrowerID}}) under the agreement
dated {{.Agreed}}. The borrower has no further obligation under that
agreement.

Generated on {{.Generated}}.
`

type Generator struct {
	agreement *template.Template
	release   *template.Template
	now       func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{
		agreement: template.Must(template.New("agreement").Parse(agreementTmpl)),
		release:   template.Must(template.New("release").Parse(releaseTmpl)),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (g *Generator) Agreement(l *loan.Loan) (string, error) {
	interest := "none"
	if l.InterestRate.IsPositive() {
		if l.InterestType == loan.InterestFixed {
			interest = "one-time flat charge of " + l.InterestRate.StringFixed(2)
		} else {
			interest = l.InterestRate.StringFixed(2) + "% per year, accrued monthly"
		}
	}
	data := map[string]string{
		"LoanID":     l.LoanID,
		"LenderID":   l.LenderID,
		"BorrowerID": l.BorrowerID,
		"Principal":  l.Principal.StringFixed(2),
		"Interest":   interest,
		"Schedule":   string(l.Cadence),
		"Generated":  g.now().Format("2006-01-02"),
	}
	if l.MaturityDate != nil {
		data["Maturity"] = l.MaturityDate.Format("2006-01-02")
	}
	if l.LateFee.IsPositive() {
		data["LateFee"] = l.LateFee.StringFixed(2)
	}
	return render(g.agreement, data)
}

func (g *Generator) Release(l *loan.Loan) (string, error) {
	agreed := ""
	if l.LenderSignedAt != nil {
		agreed = l.LenderSignedAt.Format("2006-01-02")
	}
	return render(g.release, map[string]string{
		"LoanID":     l.LoanID,
		"LenderID":   l.LenderID,
		"BorrowerID": l.BorrowerID,
		"Balance":    l.RemainingBalance.StringFixed(2),
		"Agreed":     agreed,
		"Generated":  g.now().Format("2006-01-02"),
	})
}

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
