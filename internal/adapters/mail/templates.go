package mail

import (
	"strings"
	"text/template"

	"github.com/simpleai/community-invites/internal/core/domain"
)

// templateData is what every locale's subject and body can reference.
type templateData struct {
	InviteURL        string
	BillingPortalURL string
	SupportContact   string
}

type localeTemplate struct {
	subject string
	body    *template.Template
}

var localeSources = map[domain.Locale]struct{ subject, body string }{
	domain.LocaleDE: {
		subject: "Herzlich Willkommen in der Community 🎉",
		body: `Danke für dein Vertrauen in unsere Tools!

Hier ist dein persönlicher Discord-Einladungslink (gültig für 24 Stunden, nur einmal nutzbar):
{{.InviteURL}}

Zusätzlich kannst du jederzeit über dein persönliches Kundenportal deine Rechnungen einsehen und dein Abo verwalten:
{{.BillingPortalURL}}

Ich wünsche dir viel Spaß! Falls du Fragen oder Schwierigkeiten hast, kannst du Alex jederzeit auch privat auf Discord kontaktieren.

Falls der Link nicht funktioniert, schreibe bitte eine private Mail an: {{.SupportContact}}

Liebe Grüße
Greta | SimpleAI`,
	},
	domain.LocaleEN: {
		subject: "Welcome to the Community 🎉",
		body: `Thank you for trusting our tools!

Here is your personal Discord invite link (valid for 24 hours, single use only):
{{.InviteURL}}

In addition, you can access your personal Stripe customer portal here:
{{.BillingPortalURL}}

In the portal you can download invoices and manage your subscription at any time.

I wish you lots of fun! If you have any questions or run into issues, feel free to reach out to Alex directly anytime.

If the link does not work, please send a private email at: {{.SupportContact}}

Best regards,
Greta | SimpleAI`,
	},
}

// parseTemplates compiles every locale once.
func parseTemplates() map[domain.Locale]localeTemplate {
	out := make(map[domain.Locale]localeTemplate, len(localeSources))
	for locale, src := range localeSources {
		out[locale] = localeTemplate{
			subject: src.subject,
			body:    template.Must(template.New(string(locale)).Option("missingkey=error").Parse(src.body)),
		}
	}
	return out
}

func (t localeTemplate) render(data templateData) (subject, body string, err error) {
	var sb strings.Builder
	if err := t.body.Execute(&sb, data); err != nil {
		return "", "", err
	}
	return t.subject, sb.String(), nil
}
