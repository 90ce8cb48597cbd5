package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const styles = `
body{font-family:system-ui,sans-serif;background:#f8fafc;color:#0f172a;margin:0}
header{display:flex;justify-content:space-between;align-items:center;padding:1rem 2rem;background:#fff;border-bottom:1px solid #e2e8f0}
main{max-width:960px;margin:2rem auto;padding:0 1rem}
textarea{width:100%;min-height:10rem;font:inherit;padding:.75rem;border:1px solid #cbd5e1;border-radius:.5rem}
select,input[type=text]{font:inherit;padding:.4rem;border:1px solid #cbd5e1;border-radius:.4rem}
button{font:inherit;padding:.6rem 1.2rem;border:0;border-radius:.5rem;background:#4f46e5;color:#fff;cursor:pointer}
.card{background:#fff;border:1px solid #e2e8f0;border-radius:.75rem;padding:1.25rem;margin-bottom:1.5rem}
.error{background:#fef2f2;border-color:#fecaca;color:#991b1b}
.options{display:flex;gap:1rem;flex-wrap:wrap;margin:1rem 0}
pre{white-space:pre-wrap;background:#f1f5f9;padding:1rem;border-radius:.5rem}
`

// write emits already-safe fragments in order, stopping at the first error
func write(w io.Writer, parts ...string) error {
	for _, part := range parts {
		if _, err := io.WriteString(w, part); err != nil {
			return err
		}
	}
	return nil
}

func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w,
			`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, templ.EscapeString(title), `</title><style>`, styles, `</style></head><body>`,
		); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</body></html>`)
	})
}
