package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/formgate/formgate-backend/types"
)

// Rendering is pure: a submission record in, a self-contained HTML document
// out. All values pass through html/template's contextual escaping, so markup
// in user input never reaches the mail body unescaped, regardless of what the
// validator did upstream.

var (
	adminContactTmpl = template.Must(template.New("admin_contact").Parse(adminContactTemplate))
	userContactTmpl  = template.Must(template.New("user_contact").Parse(userContactTemplate))
	adminSignupTmpl  = template.Must(template.New("admin_signup").Parse(adminSignupTemplate))
	userSignupTmpl   = template.Must(template.New("user_signup").Parse(userSignupTemplate))
)

// RenderAdminNotification produces the admin-facing HTML document for a submission.
func RenderAdminNotification(sub *types.Submission) (string, error) {
	tmpl := adminContactTmpl
	if sub.Form == types.FormSignup {
		tmpl = adminSignupTmpl
	}
	return render(tmpl, sub)
}

// RenderUserConfirmation produces the submitter-facing HTML document for a submission.
func RenderUserConfirmation(sub *types.Submission) (string, error) {
	tmpl := userContactTmpl
	if sub.Form == types.FormSignup {
		tmpl = userSignupTmpl
	}
	return render(tmpl, sub)
}

func render(tmpl *template.Template, sub *types.Submission) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, sub); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

const emailStyles = `
        body {
            font-family: 'Helvetica Neue', Arial, sans-serif;
            background-color: #f4f4f7;
            color: #333333;
            margin: 0;
            padding: 20px;
        }
        .container {
            max-width: 600px;
            margin: 20px auto;
            background-color: #ffffff;
            padding: 30px;
            border-radius: 12px;
            box-shadow: 0 4px 8px rgba(0, 0, 0, 0.05);
        }
        h1 {
            color: #2B6CB0;
            font-size: 24px;
            margin-bottom: 20px;
        }
        p {
            font-size: 16px;
            line-height: 1.6;
            margin-bottom: 16px;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 20px;
        }
        th {
            text-align: left;
            padding: 8px 12px;
            background-color: #EDF2F7;
            color: #2D3748;
            width: 35%;
        }
        td {
            padding: 8px 12px;
            border-bottom: 1px solid #E2E8F0;
        }
        .footer {
            margin-top: 20px;
            font-size: 13px;
            color: #777777;
        }
`

const adminContactTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>` + emailStyles + `    </style>
</head>
<body>
    <div class="container">
        <h1>New Contact Form Submission</h1>
        <p>A new message arrived through the contact form.</p>
        <table>
            <tr><th>Name</th><td>{{.Name}}</td></tr>
            <tr><th>Email</th><td>{{.Email}}</td></tr>
            {{if .Phone}}<tr><th>Phone</th><td>{{.Phone}}</td></tr>{{end}}
            {{if .Category}}<tr><th>Category</th><td>{{.Category}}</td></tr>{{end}}
            {{if .Age}}<tr><th>Age</th><td>{{.Age}}</td></tr>{{end}}
            {{if .Message}}<tr><th>Message</th><td>{{.Message}}</td></tr>{{end}}
            <tr><th>Received</th><td>{{.Date.Format "2006-01-02 15:04:05 MST"}}</td></tr>
            {{if .IP}}<tr><th>Client address</th><td>{{.IP}}</td></tr>{{end}}
        </table>
        <p class="footer">Submission ID: {{.ID}}</p>
    </div>
</body>
</html>`

const userContactTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>` + emailStyles + `    </style>
</head>
<body>
    <div class="container">
        <h1>We received your message</h1>
        <p>Hi {{.Name}},</p>
        <p>Thank you for getting in touch. Your message has been received and a
        member of our team will reply as soon as possible, usually within one
        business day.</p>
        {{if .Message}}
        <p>For your records, this is what you sent us:</p>
        <table>
            <tr><th>Message</th><td>{{.Message}}</td></tr>
        </table>
        {{end}}
        <p class="footer">If you did not submit this request, you can safely ignore this email.</p>
    </div>
</body>
</html>`

const adminSignupTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>` + emailStyles + `    </style>
</head>
<body>
    <div class="container">
        <h1>New Signup</h1>
        <p>Someone just signed up through the website.</p>
        <table>
            <tr><th>Name</th><td>{{.Name}}</td></tr>
            <tr><th>Email</th><td>{{.Email}}</td></tr>
            {{if .Phone}}<tr><th>Phone</th><td>{{.Phone}}</td></tr>{{end}}
            <tr><th>Received</th><td>{{.Date.Format "2006-01-02 15:04:05 MST"}}</td></tr>
        </table>
        <p class="footer">Submission ID: {{.ID}}</p>
    </div>
</body>
</html>`

const userSignupTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>` + emailStyles + `    </style>
</head>
<body>
    <div class="container">
        <h1>Welcome aboard!</h1>
        <p>Hi {{.Name}},</p>
        <p>Thanks for signing up. We have registered your details and will be in
        touch shortly with the next steps.</p>
        <p>If anything in your details changes, just reply to this email.</p>
        <p class="footer">If you did not sign up, you can safely ignore this email.</p>
    </div>
</body>
</html>`
