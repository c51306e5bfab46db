package journal

import (
	"bytes"
	"text/template"
	"time"

	"github.com/rustyeddy/maxoi/market"
)

var orgFuncs = template.FuncMap{
	"clock": func(t time.Time) string { return t.Format("15:04") },
	"cell": func(v market.Value) string {
		if !v.Valid {
			return "-"
		}
		return v.String()
	},
}

var orgTemplate = template.Must(template.New("run").Funcs(orgFuncs).Parse(RunOrgTemplate))

type orgView struct {
	Run
	Records []Record
}

// FormatRunOrg renders a run and its rows as an Org-mode section.
func FormatRunOrg(run Run, recs []Record) (string, error) {
	var buf bytes.Buffer
	if err := orgTemplate.Execute(&buf, orgView{Run: run, Records: recs}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const RunOrgTemplate = `* MAX OI: {{.Symbol}} {{.Date}} {{.Label}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:SYMBOL:      {{.Symbol}}
:DATE:        {{.Date}}
:TIMEFRAME:   {{.Timeframe}}
:BUCKETS:     {{.Buckets}}
:POPULATED:   {{.Populated}}
:CREATED:     [{{.Created.Format "2006-01-02 Mon 15:04"}}]
:END:

| Time | Open | High | Low | Close | CE Strike | CE OI | PE Strike | PE OI |{{range .Overlays}} {{.}} |{{end}}
|------+------+------+-----+-------+-----------+-------+-----------+-------|{{range .Overlays}}---|{{end}}
{{- range .Records}}
| {{clock .Time}} | {{cell .Open}} | {{cell .High}} | {{cell .Low}} | {{cell .Close}} | {{cell .CEStrike}} | {{cell .CEOI}} | {{cell .PEStrike}} | {{cell .PEOI}} |{{range .Overlays}} {{cell .}} |{{end}}
{{- end}}
`
