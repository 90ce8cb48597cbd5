package templates

import (
	"context"
	"io"
	"time"

	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/a-h/templ"
)

const appName = "Alpacka Prompt Optimizer"

// FormValues echoes the last submission back into the form
type FormValues struct {
	Text        string
	Tone        models.Tone
	Complexity  models.Complexity
	TargetModel string
}

// DefaultForm is the form state of a fresh page
func DefaultForm() FormValues {
	return FormValues{
		Tone:        models.DefaultTone,
		Complexity:  models.DefaultComplexity,
		TargetModel: models.DefaultTargetModel,
	}
}

// HistoryEntry is one row of the recent optimizations list
type HistoryEntry struct {
	Original  string
	Optimized string
	CreatedAt time.Time
}

// OptimizerPageData is everything the optimizer page shows
type OptimizerPageData struct {
	User            models.Identity
	Form            FormValues
	Result          *models.GenerationResult
	ExplanationHTML string
	Error           string
	History         []HistoryEntry
}

// LoginPage is shown to signed-out visitors
func LoginPage() templ.Component {
	return layout(appName, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w,
			`<main><div class="card"><h1>`, appName, `</h1>`,
			`<p>Convierte una idea vaga o un borrador en un prompt claro y listo para usar.</p>`,
			`<a href="/api/auth/google"><button type="button">Iniciar sesión con Google</button></a>`,
			`</div></main>`,
		)
	}))
}

// OptimizerPage is the main page for signed-in users
func OptimizerPage(data OptimizerPageData) templ.Component {
	return layout(appName, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := header(data.User).Render(ctx, w); err != nil {
			return err
		}
		if err := write(w, `<main>`); err != nil {
			return err
		}
		if data.Error != "" {
			if err := write(w, `<div class="card error" role="alert">`, templ.EscapeString(data.Error), `</div>`); err != nil {
				return err
			}
		}
		if err := optimizeForm(data.Form).Render(ctx, w); err != nil {
			return err
		}
		if data.Result != nil {
			if err := resultCard(data.Result, data.ExplanationHTML).Render(ctx, w); err != nil {
				return err
			}
		}
		if len(data.History) > 0 {
			if err := historyList(data.History).Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, `</main>`)
	}))
}

func header(user models.Identity) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := write(w, `<header><strong>`, appName, `</strong><div>`); err != nil {
			return err
		}
		if user.AvatarURL != "" {
			if err := write(w, `<img src="`, templ.EscapeString(user.AvatarURL), `" alt="" width="28" height="28" style="border-radius:50%;vertical-align:middle"> `); err != nil {
				return err
			}
		}
		return write(w,
			`<span>`, templ.EscapeString(user.DisplayName), `</span> `,
			`<form method="post" action="/api/auth/logout" style="display:inline"><button type="submit">Cerrar sesión</button></form>`,
			`</div></header>`,
		)
	})
}

func optimizeForm(form FormValues) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := write(w,
			`<form class="card" method="post" action="/optimize">`,
			`<label for="text">Tu idea o prompt</label>`,
			`<textarea id="text" name="text" placeholder="Ej: escribe un correo para pedir vacaciones">`,
			templ.EscapeString(form.Text), `</textarea><div class="options">`,
			`<label>Tono <select name="tone">`,
		); err != nil {
			return err
		}
		for _, tone := range models.Tones() {
			if err := option(w, string(tone), tone == form.Tone); err != nil {
				return err
			}
		}
		if err := write(w, `</select></label><label>Complejidad <select name="complexity">`); err != nil {
			return err
		}
		for _, complexity := range models.Complexities() {
			if err := option(w, string(complexity), complexity == form.Complexity); err != nil {
				return err
			}
		}
		return write(w,
			`</select></label><label>Modelo destino <input type="text" name="target_model" value="`,
			templ.EscapeString(form.TargetModel), `"></label></div>`,
			`<button type="submit">Optimizar prompt</button></form>`,
		)
	})
}

func option(w io.Writer, value string, selected bool) error {
	attr := ""
	if selected {
		attr = " selected"
	}
	escaped := templ.EscapeString(value)
	return write(w, `<option value="`, escaped, `"`, attr, `>`, escaped, `</option>`)
}

func resultCard(result *models.GenerationResult, explanationHTML string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w,
			`<section class="card"><h2>Prompt optimizado</h2><pre id="optimized">`,
			templ.EscapeString(result.Optimized), `</pre>`,
			`<h3>Por qué funciona</h3><div class="explanation">`, explanationHTML, `</div>`,
			`<small>`, result.Timestamp.Format("02/01/2006 15:04"), `</small></section>`,
		)
	})
}

func historyList(entries []HistoryEntry) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := write(w, `<section class="card"><h2>Historial reciente</h2><ul>`); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := write(w,
				`<li><strong>`, templ.EscapeString(entry.Original), `</strong><br>`,
				`<span>`, templ.EscapeString(entry.Optimized), `</span> `,
				`<small>`, entry.CreatedAt.Format("02/01/2006 15:04"), `</small></li>`,
			); err != nil {
				return err
			}
		}
		return write(w, `</ul></section>`)
	})
}
