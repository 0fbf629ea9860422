package views

import (
	pongo2 "github.com/flosch/pongo2/v6"
	"github.com/pkg/errors"
)

const layout = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ title }}</title>
  {% if refresh %}<meta http-equiv="refresh" content="{{ refresh }}">{% endif %}
  <style>
    body { font-family: sans-serif; text-align: center; margin-top: 48px; color: #222; }
    .muted { color: #777; }
    img { margin: 24px auto; }
  </style>
</head>
<body>
`

const footer = `
</body>
</html>
`

var (
	statusTpl = pongo2.Must(pongo2.FromString(layout + `
  <h1>🤖 WhatsApp Auto-Responder</h1>
  {% if connected %}
  <p>✅ Connected to WhatsApp{% if connected_at %} since {{ connected_at }}{% endif %}.</p>
  {% elif auth_failure %}
  <p>❌ Authentication failed: {{ auth_failure }}</p>
  <p><a href="/get-qr">Try pairing again</a></p>
  {% elif has_code %}
  <p>📱 Waiting for pairing. <a href="/get-qr">Scan the QR code</a>.</p>
  {% else %}
  <p class="muted">⏳ Starting up, QR code not generated yet.</p>
  {% endif %}
` + footer))

	qrTpl = pongo2.Must(pongo2.FromString(layout + `
  <h1>📱 Scan with WhatsApp</h1>
  <p>Open WhatsApp → Linked devices → Link a device.</p>
  <img src="data:image/png;base64,{{ image }}" alt="WhatsApp QR code" width="{{ size }}" height="{{ size }}">
  <p class="muted">This page refreshes every {{ refresh }} seconds.</p>
` + footer))

	messageTpl = pongo2.Must(pongo2.FromString(layout + `
  <h1>{{ heading }}</h1>
  <p>{{ message }}</p>
` + footer))
)

// StatusPage renders the bot landing page
func StatusPage(ctx pongo2.Context) (string, error) {
	ctx = with(ctx, "title", "WhatsApp Auto-Responder")
	return render(statusTpl, ctx)
}

// QRPage renders a page embedding a base64 PNG QR code
func QRPage(imageBase64 string, size, refreshSeconds int) (string, error) {
	return render(qrTpl, pongo2.Context{
		"title":   "Scan QR Code",
		"image":   imageBase64,
		"size":    size,
		"refresh": refreshSeconds,
	})
}

// MessagePage renders a page with a heading and a single message
func MessagePage(heading, message string, refreshSeconds int) (string, error) {
	ctx := pongo2.Context{
		"title":   heading,
		"heading": heading,
		"message": message,
	}
	if refreshSeconds > 0 {
		ctx["refresh"] = refreshSeconds
	}
	return render(messageTpl, ctx)
}

func render(tpl *pongo2.Template, ctx pongo2.Context) (string, error) {
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to render template")
	}
	return out, nil
}

func with(ctx pongo2.Context, key string, value interface{}) pongo2.Context {
	if ctx == nil {
		ctx = pongo2.Context{}
	}
	if _, ok := ctx[key]; !ok {
		ctx[key] = value
	}
	return ctx
}
