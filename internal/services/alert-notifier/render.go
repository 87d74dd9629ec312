package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/NordCoder/CloudCorrect/internal/domain/alert"
	"github.com/NordCoder/CloudCorrect/internal/domain/notification"
)

var alertHTML = template.Must(template.New("alert").Parse(`
<h2>Architectural Invariant Groups Failure</h2>
<p>The following checks failed for group: <strong>{{.Group}}</strong></p>
<table border="1" cellpadding="10" cellspacing="0" style="border-collapse: collapse; width: 100%;">
  <thead>
    <tr style="background-color: #f8f9fa;">
      <th>Alias</th>
      <th>Type</th>
      <th>Observed</th>
      <th>Expected</th>
      <th>Reason</th>
    </tr>
  </thead>
  <tbody>
{{- range .Checks}}
    <tr>
      <td>{{if .Alias}}{{.Alias}}{{else}}N/A{{end}}</td>
      <td>{{.Type}}</td>
      <td>{{.Observed}}</td>
      <td>{{.Expected}}</td>
      <td style="color: #dc3545;">{{.Reason}}</td>
    </tr>
{{- end}}
  </tbody>
</table>
<p>View full details in the <a href="{{.Link}}">Dashboard</a>.</p>
`))

type alertView struct {
	Group  string
	Checks []alert.FailedCheck
	Link   string
}

func Subject(a alert.Alert) string { return a.Group + " Evaluation Failed" }

func DashboardLink(appURL string, a alert.Alert) string {
	return fmt.Sprintf("%s/groups/%s", strings.TrimRight(appURL, "/"), a.GroupID)
}

// Render builds the email for a failed group. Recipients come from the alert.
func Render(appURL string, a alert.Alert) (notification.Email, error) {
	var buf bytes.Buffer
	err := alertHTML.Execute(&buf, alertView{
		Group:  a.Group,
		Checks: a.FailedChecks,
		Link:   DashboardLink(appURL, a),
	})
	if err != nil {
		return notification.Email{}, fmt.Errorf("render alert: %w", err)
	}
	return notification.Email{
		To:      a.Recipients,
		Subject: Subject(a),
		HTML:    buf.String(),
		Text:    fmt.Sprintf("The evaluation for group %s failed. Check details in the dashboard.", a.Group),
	}, nil
}
