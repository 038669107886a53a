package mail

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
	texttemplate "text/template"
)

type templateData struct {
	Nome           string
	Club           string
	NumeroRicevuta string
	Scadenza       string
}

var textTemplates = texttemplate.Must(texttemplate.New("mail").Parse(`
{{- define "scheda" -}}
Gentile {{.Nome}},

in allegato troverà la sua scheda socio di {{.Club}}.

Cordiali saluti,
{{.Club}}
{{- end}}
{{- define "ricevuta" -}}
Gentile {{.Nome}},

in allegato troverà la ricevuta N° {{.NumeroRicevuta}} di {{.Club}}.

Cordiali saluti,
{{.Club}}
{{- end}}
{{- define "certificato" -}}
Gentile {{.Nome}},

il suo certificato medico scade il {{.Scadenza}}.
La preghiamo di consegnarne uno nuovo in segreteria prima della scadenza.

Cordiali saluti,
{{.Club}}
{{- end}}`))

var htmlTemplates = template.Must(template.New("mail").Parse(`
{{- define "scheda" -}}
<html>
  <body style="font-family: Arial, sans-serif; font-size: 14px; line-height: 1.6;">
    <p>Gentile <strong>{{.Nome}}</strong>,</p>
    <p>in allegato troverà la sua scheda socio di {{.Club}}.</p>
    <br>
    <p>Cordiali saluti,<br><strong>{{.Club}}</strong></p>
  </body>
</html>
{{- end}}
{{- define "ricevuta" -}}
<html>
  <body style="font-family: Arial, sans-serif; font-size: 14px; line-height: 1.6;">
    <p>Gentile <strong>{{.Nome}}</strong>,</p>
    <p>in allegato troverà la ricevuta N° <strong>{{.NumeroRicevuta}}</strong> di {{.Club}}.</p>
    <br>
    <p>Cordiali saluti,<br><strong>{{.Club}}</strong></p>
  </body>
</html>
{{- end}}
{{- define "certificato" -}}
<html>
  <body style="font-family: Arial, sans-serif; font-size: 14px; line-height: 1.6;">
    <p>Gentile <strong>{{.Nome}}</strong>,</p>
    <p>il suo certificato medico scade il <strong>{{.Scadenza}}</strong>.</p>
    <p>La preghiamo di consegnarne uno nuovo in segreteria prima della scadenza.</p>
    <br>
    <p>Cordiali saluti,<br><strong>{{.Club}}</strong></p>
  </body>
</html>
{{- end}}`))

// render возвращает текстовую и HTML-версии шаблона name.
func render(name string, data templateData) (string, string, error) {
	var text, html bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, name, data); err != nil {
		return "", "", err
	}
	if err := htmlTemplates.ExecuteTemplate(&html, name, data); err != nil {
		return "", "", err
	}
	return text.String(), html.String(), nil
}

var (
	styleOrScript = regexp.MustCompile(`(?is)<(style|script)[^>]*>.*?</(style|script)>`)
	tag           = regexp.MustCompile(`<[^>]+>`)
	spaces        = regexp.MustCompile(`\s+`)
)

// stripHTML возвращает текст HTML-документа без тегов.
func stripHTML(s string) string {
	s = styleOrScript.ReplaceAllString(s, "")
	s = tag.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}
