package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// BillDueEmail holds the fields rendered into the reminder email body.
type BillDueEmail struct {
	UserName     string
	CardName     string
	DueDate      string
	DashboardURL string
}

var billDueTemplate = template.Must(template.New("bill-due").Parse(`<html>
  <body style="background-color:#ffffff;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif">
    <div style="margin:0 auto;padding:20px 0 48px;max-width:560px">
      <h1 style="font-size:24px;font-weight:600;line-height:1.25;color:#1a1a1a;margin-bottom:24px">Bill Due Reminder</h1>
      <p style="font-size:16px;line-height:26px;color:#4a4a4a;margin-bottom:16px">Hi {{if .UserName}}{{.UserName}}{{else}}there{{end}},</p>
      <p style="font-size:16px;line-height:26px;color:#4a4a4a;margin-bottom:16px">This is a reminder that your bill for <strong>{{.CardName}}</strong> is due on <strong>{{.DueDate}}</strong> by 5 PM ET.</p>
      <div style="text-align:center;margin-top:32px;margin-bottom:32px">
        <a href="{{.DashboardURL}}" style="background-color:#000000;border-radius:6px;color:#ffffff;font-size:16px;font-weight:600;text-decoration:none;display:block;padding:12px 24px">View Dashboard</a>
      </div>
      <p style="font-size:12px;line-height:24px;color:#8898aa;margin-top:48px">Securely powered by Cardkeeper.</p>
    </div>
  </body>
</html>`))

// RenderBillDueEmail renders the reminder email HTML body.
func RenderBillDueEmail(data BillDueEmail) (string, error) {
	var buf bytes.Buffer
	if err := billDueTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render bill-due email: %w", err)
	}
	return buf.String(), nil
}
