package export

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/releve-dev/releve/internal/record"
)

// OFX 1.02 SGML. Credit-card statements render a CCSTMTRS block,
// checking accounts a STMTRS block; the shared transaction list sits
// in BANKTRANLIST either way.
const ofxTemplate = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:UTF-8
CHARSET:NONE
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>{{ofxdate .Now}}
<LANGUAGE>FRA
</SONRS>
</SIGNONMSGSRSV1>
{{- if .Credit}}
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>{{.TrnUID}}
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>{{.Currency}}
<CCACCTFROM>
<ACCTID>{{.Account}}
</CCACCTFROM>
{{- else}}
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>{{.TrnUID}}
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>{{.Currency}}
<BANKACCTFROM>
<BANKID>UNKNOWN
<ACCTID>{{.Account}}
<ACCTTYPE>CHECKING
</BANKACCTFROM>
{{- end}}
<BANKTRANLIST>
<DTSTART>{{ofxdate .Start}}
<DTEND>{{ofxdate .End}}
{{- range .Transactions}}
<STMTTRN>
<TRNTYPE>{{.Type}}
<DTPOSTED>{{ofxdate .Date}}
<TRNAMT>{{.Amount}}
<FITID>{{.FITID}}
<NAME>{{.Name}}
{{- if .Memo}}
<MEMO>{{.Memo}}
{{- end}}
</STMTTRN>
{{- end}}
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>{{.Balance}}
<DTASOF>{{ofxdate .End}}
</LEDGERBAL>
{{- if not .Credit}}
<AVAILBAL>
<BALAMT>{{.Balance}}
<DTASOF>{{ofxdate .End}}
</AVAILBAL>
{{- end}}
{{- if .Credit}}
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
{{- else}}
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
{{- end}}
</OFX>
`

var ofxTmpl = template.Must(template.New("ofx").Funcs(template.FuncMap{
	"ofxdate": func(t time.Time) string { return t.Format("20060102") },
}).Parse(ofxTemplate))

type ofxTransaction struct {
	Type   string
	Date   time.Time
	Amount string
	FITID  string
	Name   string
	Memo   string
}

type ofxDocument struct {
	Now          time.Time
	TrnUID       string
	Credit       bool
	Currency     string
	Account      string
	Start        time.Time
	End          time.Time
	Balance      string
	Transactions []ofxTransaction
}

// WriteOFX renders the statement as an OFX 1.02 document. Credit-card
// amounts flip sign on the way out: the statement reports charges
// positive, OFX wants debits negative.
func WriteOFX(w io.Writer, st Statement) error {
	isCredit := true
	for _, r := range st.Records {
		if r.Kind == record.KindAccountOp {
			isCredit = false
			break
		}
	}

	doc := ofxDocument{
		Now:      time.Now().UTC(),
		TrnUID:   uuid.NewString(),
		Credit:   isCredit,
		Currency: st.Currency,
		Account:  st.Account,
		Start:    st.Date,
		End:      st.Date,
		Balance:  st.Summary.FinalBalance.StringFixed(2),
	}
	if st.HasPeriod {
		doc.Start, doc.End = st.PeriodStart, st.PeriodEnd
	}
	if doc.Account == "" {
		doc.Account = "UNKNOWN"
	}

	for i, r := range st.Records {
		amount := r.Amount
		if isCredit {
			amount = amount.Neg()
		}
		trnType := "CREDIT"
		if amount.LessThan(decimal.Zero) {
			trnType = "DEBIT"
		}

		tr := ofxTransaction{
			Type:   trnType,
			Date:   r.Date,
			Amount: amount.StringFixed(2),
			FITID:  st.fitid(i),
			Name:   r.Description,
			Memo:   r.Location,
		}
		if tr.Memo == "" && r.Code != "" {
			tr.Memo = r.Code
		}
		doc.Transactions = append(doc.Transactions, tr)
	}

	if err := ofxTmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("rendering OFX: %w", err)
	}
	return nil
}
