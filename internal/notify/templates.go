package notify

import (
	"bytes"
	"html/template"

	"github.com/navkeep/submitd/internal/domain"
	"github.com/navkeep/submitd/internal/sources/sitemeta"
)

// The templates mirror the review console's look: inline styles only, since
// mail clients strip stylesheets.

var adminTmpl = template.Must(template.New("admin").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #2563eb; color: white; padding: 24px; text-align: center; border-radius: 8px 8px 0 0;">
    <h1 style="margin: 0; font-size: 22px;">New website submission</h1>
  </div>
  <div style="padding: 24px; background-color: #f9fafb; border-radius: 0 0 8px 8px;">
    <p style="color: #374151;">A new website is waiting for your review.</p>
    <table style="width: 100%; background-color: white; border-radius: 8px; padding: 12px; border-collapse: collapse;">
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280; width: 120px;">Name</td><td style="padding: 6px 12px;">{{.Site.Name}}</td></tr>
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280;">URL</td><td style="padding: 6px 12px;"><a href="{{.Site.URL}}" style="color: #2563eb;">{{.Site.URL}}</a></td></tr>
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280;">Description</td><td style="padding: 6px 12px;">{{.Site.Description}}</td></tr>
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280;">Category</td><td style="padding: 6px 12px;">{{.Site.Category}}</td></tr>
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280;">Tags</td><td style="padding: 6px 12px;">{{if .Site.Tags}}{{.Site.Tags}}{{else}}-{{end}}</td></tr>
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280;">Contact</td><td style="padding: 6px 12px;">{{.Site.ContactEmail}}</td></tr>
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280;">Submitter</td><td style="padding: 6px 12px;">{{if .Site.SubmitterName}}{{.Site.SubmitterName}}{{else}}-{{end}}</td></tr>
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280;">Submitted</td><td style="padding: 6px 12px;">{{.Site.SubmittedAt}}</td></tr>
    </table>
    <div style="text-align: center; margin: 24px 0;">
      <a href="{{.AdminURL}}" style="display: inline-block; background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: bold;">Open the review console</a>
    </div>
  </div>
  <div style="text-align: center; padding: 16px; color: #9ca3af; font-size: 12px;">
    Sent automatically by {{.Meta.SiteName}}, please do not reply.
  </div>
</div>
`))

var submitterTmpl = template.Must(template.New("submitter").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #10b981; color: white; padding: 24px; text-align: center; border-radius: 8px 8px 0 0;">
    <h1 style="margin: 0; font-size: 22px;">Submission received</h1>
  </div>
  <div style="padding: 24px; background-color: #f9fafb; border-radius: 0 0 8px 8px;">
    <p style="color: #374151;">{{if .Site.SubmitterName}}Dear {{.Site.SubmitterName}}, {{end}}thank you for submitting your website to {{.Meta.SiteName}}.</p>
    <table style="width: 100%; background-color: white; border-radius: 8px; padding: 12px; border-collapse: collapse;">
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280; width: 120px;">Name</td><td style="padding: 6px 12px;">{{.Site.Name}}</td></tr>
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280;">URL</td><td style="padding: 6px 12px;"><a href="{{.Site.URL}}" style="color: #2563eb;">{{.Site.URL}}</a></td></tr>
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280;">Category</td><td style="padding: 6px 12px;">{{.Site.Category}}</td></tr>
      <tr><td style="padding: 6px 12px; font-weight: bold; color: #6b7280;">Submission ID</td><td style="padding: 6px 12px;">#{{.Site.ID}}</td></tr>
    </table>
    <div style="background-color: #ecfdf5; border-left: 4px solid #10b981; padding: 12px 16px; margin: 20px 0; color: #065f46;">
      We will review your submission within {{.Meta.ReviewWindow}} and let you know the result by email.
    </div>
    <div style="text-align: center; margin: 24px 0;">
      <a href="{{.Meta.BaseURL}}" style="display: inline-block; background-color: #10b981; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: bold;">Visit {{.Meta.SiteName}}</a>
    </div>
  </div>
  <div style="text-align: center; padding: 16px; color: #9ca3af; font-size: 12px;">
    Sent automatically by {{.Meta.SiteName}}, please do not reply.
  </div>
</div>
`))

type templateData struct {
	Meta     sitemeta.Meta
	Site     domain.PendingWebsite
	AdminURL string
}

func renderAdminEmail(meta sitemeta.Meta, site domain.PendingWebsite) (string, error) {
	return render(adminTmpl, templateData{Meta: meta, Site: site, AdminURL: meta.AdminURL()})
}

func renderSubmitterEmail(meta sitemeta.Meta, site domain.PendingWebsite) (string, error) {
	return render(submitterTmpl, templateData{Meta: meta, Site: site})
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
