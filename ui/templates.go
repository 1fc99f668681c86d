package ui

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/apper-canvas/studyflow-beta-ether/core"
	"github.com/apper-canvas/studyflow-beta-ether/middleware/auth"
	"github.com/apper-canvas/studyflow-beta-ether/notify"

	"github.com/a-h/templ"
)

func esc(s string) string {
	return html.EscapeString(s)
}

// Layout wraps page content with the shared chrome: header, toasts, styles
func Layout(title string, user *auth.AuthUser, toasts []notify.Notification, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1c2733}
header{background:#1c2733;color:#fff;padding:0.75rem 1.5rem;display:flex;justify-content:space-between;align-items:center}
header a{color:#9fc3ff;text-decoration:none}
main{max-width:64rem;margin:1.5rem auto;padding:0 1rem}
table{width:100%%;border-collapse:collapse;background:#fff}
th,td{text-align:left;padding:0.5rem 0.75rem;border-bottom:1px solid #e3e7eb}
th a{color:inherit;text-decoration:none}
.toast{padding:0.5rem 0.75rem;border-radius:4px;margin-bottom:0.5rem}
.toast-success{background:#e2f5e8;color:#14532d}
.toast-error{background:#fdecec;color:#7f1d1d}
.btn{display:inline-block;padding:0.35rem 0.75rem;border:1px solid #cbd2d9;border-radius:4px;background:#fff;cursor:pointer;text-decoration:none;color:#1c2733}
.btn-primary{background:#2563eb;border-color:#2563eb;color:#fff}
.btn-danger{border-color:#b91c1c;color:#b91c1c}
form.inline{display:inline}
label{display:block;margin:0.75rem 0 0.25rem;font-weight:600}
input,select{padding:0.4rem;border:1px solid #cbd2d9;border-radius:4px;min-width:16rem}
</style>
</head>
<body>
<header><a href="/admin">%s</a>`, esc(title), esc(title))

		if user != nil {
			fmt.Fprintf(w, `<span>%s · <a href="/admin/logout">Log out</a></span>`, esc(user.Username))
		}
		io.WriteString(w, `</header><main>`)

		if err := Toasts(toasts).Render(ctx, w); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// Toasts renders drained notifications as one-shot messages
func Toasts(items []notify.Notification) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, n := range items {
			class := "toast-success"
			if n.Level == notify.LevelError {
				class = "toast-error"
			}
			fmt.Fprintf(w, `<div class="toast %s">%s</div>`, class, esc(n.Message))
		}
		return nil
	})
}

// Index renders the resource directory
func Index(resources []*core.Resource) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, `<h1>Resources</h1><ul>`)
		for _, res := range resources {
			fmt.Fprintf(w, `<li><a href="%s">%s</a></li>`,
				esc(NewAdminURL(res.Name).String()), esc(res.PluralName))
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}

// listView carries everything the resource list page needs
type listView struct {
	Resource *core.Resource
	Records  []core.Record
	Query    *core.Query
	Total    int64
	HasMore  bool
	Search   string
}

// ResourceList renders the paginated, sortable record table
func ResourceList(view listView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		res := view.Resource

		fmt.Fprintf(w, `<h1>%s</h1>`, esc(res.PluralName))

		if fields := res.SearchableFields(); len(fields) > 0 {
			fmt.Fprintf(w, `<form method="get" action="%s" class="inline">
<input type="search" name="q" value="%s" placeholder="Search %s">
<button class="btn" type="submit">Search</button>
</form> `, esc(NewAdminURL(res.Name).String()), esc(view.Search), esc(fields[0].Label))
		}
		if !res.ReadOnly {
			fmt.Fprintf(w, `<a class="btn btn-primary" href="/admin/%s/new">New %s</a>`,
				esc(res.Name), esc(res.DisplayName))
		}

		fmt.Fprintf(w, `<form method="post" action="/admin/%s/delete">`, esc(res.Name))
		io.WriteString(w, `<table><thead><tr>`)
		if !res.ReadOnly {
			io.WriteString(w, `<th></th>`)
		}
		for _, field := range res.Fields {
			if err := sortHeader(view, field).Render(ctx, w); err != nil {
				return err
			}
		}
		io.WriteString(w, `<th></th></tr></thead><tbody id="record-rows">`)

		if err := RecordRows(res, view.Records).Render(ctx, w); err != nil {
			return err
		}
		io.WriteString(w, `</tbody></table>`)
		if !res.ReadOnly {
			io.WriteString(w, `<p><button class="btn btn-danger" type="submit">Delete selected</button></p>`)
		}
		io.WriteString(w, `</form>`)

		if view.HasMore && view.Query != nil {
			next := view.Query.NextPage()
			loadMoreURL := NewAdminURL(res.Name).
				WithSearch(view.Search).
				WithPagination(next.Pagination.Offset, next.Pagination.Limit).
				WithLoadMore()
			if sort := view.Query.GetPrimarySort(); sort != nil {
				loadMoreURL.WithSort(sort.Field, sort.Direction.String())
			}
			fmt.Fprintf(w, `<button class="btn" hx-get="%s" hx-target="#record-rows" hx-swap="beforeend">Load more</button>`,
				esc(loadMoreURL.String()))
		}

		fmt.Fprintf(w, `<p>%d of %d</p>`, len(view.Records), view.Total)
		return nil
	})
}

func sortHeader(view listView, field core.FieldInfo) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		res := view.Resource
		if !res.IsFieldSortable(field.Name) {
			fmt.Fprintf(w, `<th>%s</th>`, esc(field.Label))
			return nil
		}

		direction := core.SortAsc
		marker := ""
		if sort := view.Query.GetPrimarySort(); sort != nil && sort.Field == field.Name {
			direction = sort.Direction.Opposite()
			if sort.Direction == core.SortAsc {
				marker = " ▲"
			} else {
				marker = " ▼"
			}
		}

		u := NewAdminURL(res.Name).
			WithSearch(view.Search).
			WithSort(field.Name, direction.String())
		fmt.Fprintf(w, `<th><a href="%s">%s%s</a></th>`, esc(u.String()), esc(field.Label), marker)
		return nil
	})
}

// RecordRows renders only the table rows, used for full pages and for
// load-more partial responses
func RecordRows(res *core.Resource, records []core.Record) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, record := range records {
			id, _ := record.ID()
			io.WriteString(w, `<tr>`)
			if !res.ReadOnly {
				fmt.Fprintf(w, `<td><input type="checkbox" name="ids" value="%d"></td>`, id)
			}
			for _, field := range res.Fields {
				fmt.Fprintf(w, `<td>%s</td>`, esc(FormatFieldValue(record, &field)))
			}
			fmt.Fprintf(w, `<td><a href="/admin/%s/%d">View</a></td>`, esc(res.Name), id)
			io.WriteString(w, `</tr>`)
		}
		return nil
	})
}

// RecordForm renders the create/edit form for a resource
func RecordForm(res *core.Resource, record core.Record, actionURL, heading string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1><form method="post" action="%s">`, esc(heading), esc(actionURL))

		for _, field := range res.Fields {
			if field.Identifier || field.ReadOnly {
				continue
			}

			value := ""
			if record != nil {
				value = FormatFieldValue(record, &field)
			}

			required := ""
			if field.Required {
				required = " required"
			}

			fmt.Fprintf(w, `<label for="%s">%s</label>`, esc(field.Name), esc(field.Label))
			switch field.Type {
			case core.FieldPicklist:
				fmt.Fprintf(w, `<select id="%s" name="%s"%s>`, esc(field.Name), esc(field.Name), required)
				if !field.Required {
					io.WriteString(w, `<option value=""></option>`)
				}
				for _, choice := range field.Choices {
					selected := ""
					if choice == value {
						selected = " selected"
					}
					fmt.Fprintf(w, `<option value="%s"%s>%s</option>`, esc(choice), selected, esc(choice))
				}
				io.WriteString(w, `</select>`)
			case core.FieldBoolean:
				checked := ""
				if value == "true" {
					checked = " checked"
				}
				fmt.Fprintf(w, `<input type="checkbox" id="%s" name="%s"%s>`, esc(field.Name), esc(field.Name), checked)
			case core.FieldNumber:
				fmt.Fprintf(w, `<input type="number" step="any" id="%s" name="%s" value="%s"%s>`,
					esc(field.Name), esc(field.Name), esc(value), required)
			case core.FieldDate:
				fmt.Fprintf(w, `<input type="date" id="%s" name="%s" value="%s"%s>`,
					esc(field.Name), esc(field.Name), esc(value), required)
			case core.FieldDateTime:
				fmt.Fprintf(w, `<input type="datetime-local" id="%s" name="%s" value="%s"%s>`,
					esc(field.Name), esc(field.Name), esc(value), required)
			default:
				fmt.Fprintf(w, `<input type="text" id="%s" name="%s" value="%s"%s>`,
					esc(field.Name), esc(field.Name), esc(value), required)
			}
		}

		fmt.Fprintf(w, `<p><button class="btn btn-primary" type="submit">Save</button> <a class="btn" href="%s">Cancel</a></p></form>`,
			esc(NewAdminURL(res.Name).String()))
		return nil
	})
}

// RecordDetail renders one record with its actions
func RecordDetail(res *core.Resource, record core.Record) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id, _ := record.ID()
		fmt.Fprintf(w, `<h1>%s %d</h1><table><tbody>`, esc(res.DisplayName), id)
		for _, field := range res.Fields {
			fmt.Fprintf(w, `<tr><th>%s</th><td>%s</td></tr>`,
				esc(field.Label), esc(FormatFieldValue(record, &field)))
		}
		io.WriteString(w, `</tbody></table><p>`)

		if !res.ReadOnly {
			fmt.Fprintf(w, `<a class="btn" href="/admin/%s/%d/edit">Edit</a> `, esc(res.Name), id)
			fmt.Fprintf(w, `<form class="inline" method="post" action="/admin/%s/%d">
<input type="hidden" name="_method" value="DELETE">
<button class="btn btn-danger" type="submit">Delete</button>
</form> `, esc(res.Name), id)
		}
		for _, action := range res.Actions {
			fmt.Fprintf(w, `<form class="inline" method="post" action="/admin/%s/%d/actions/%s">
<button class="btn" type="submit">%s</button>
</form> `, esc(res.Name), id, esc(action.ID), esc(action.Title))
		}

		fmt.Fprintf(w, `<a class="btn" href="%s">Back</a></p>`, esc(NewAdminURL(res.Name).String()))
		return nil
	})
}

// LoginPage renders the login form
func LoginPage(loginURL, returnURL, errorMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, `<h1>Sign in</h1>`)
		if errorMsg != "" {
			fmt.Fprintf(w, `<div class="toast toast-error">%s</div>`, esc(errorMsg))
		}
		fmt.Fprintf(w, `<form method="post" action="%s">`, esc(loginURL))
		if returnURL != "" {
			fmt.Fprintf(w, `<input type="hidden" name="return" value="%s">`, esc(returnURL))
		}
		_, err := io.WriteString(w, `<label for="username">Username</label>
<input type="text" id="username" name="username" required>
<label for="password">Password</label>
<input type="password" id="password" name="password" required>
<p><button class="btn btn-primary" type="submit">Sign in</button></p>
</form>`)
		return err
	})
}

// FormatFieldValue formats a record value for display, truncating long text
// previews when the field is configured with a preview length
func FormatFieldValue(record core.Record, field *core.FieldInfo) string {
	value, ok := record[field.Name]
	if !ok || value == nil {
		return ""
	}

	str := ""
	switch v := value.(type) {
	case string:
		str = v
	case float64:
		// JSON numbers decode as float64; render integral values without a
		// trailing ".0"
		if v == float64(int64(v)) {
			str = fmt.Sprintf("%d", int64(v))
		} else {
			str = fmt.Sprintf("%v", v)
		}
	case bool:
		if v {
			str = "true"
		} else {
			str = "false"
		}
	default:
		str = fmt.Sprintf("%v", v)
	}

	if field.MaxPreviewLength > 0 {
		str = truncateText(str, field.MaxPreviewLength)
	}
	return str
}

// truncateText truncates text to maxLength and adds ellipsis if needed
func truncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}

	// Try to break at word boundary
	truncated := text[:maxLength]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLength/2 {
		truncated = text[:lastSpace]
	}

	return truncated + "..."
}
