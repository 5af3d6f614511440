// Package page holds the server-rendered page shells. Components are
// written directly against the templ component interface; the page body is
// a static shell that static/js/app.js hydrates from the JSON API.
package page

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Dashboard renders the single-page shell for the tracker.
func Dashboard(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%[1]s</title>
<link rel="stylesheet" href="/static/css/app.css">
</head>
<body>
<header class="topbar">
	<h1>%[1]s</h1>
	<nav>
		<button id="view-tasks" class="active">Tasks</button>
		<button id="view-analytics">Analytics</button>
		<a id="export-link" href="/api/tasks/export">Export CSV</a>
	</nav>
</header>
<main>
	<section id="tasks-panel">
		<div id="week-nav"></div>
		<form id="add-task-form">
			<input id="new-task-name" placeholder="New weekly task" autocomplete="off">
			<input id="new-task-interval" type="number" min="1" placeholder="Every N days">
			<button type="submit">Add</button>
		</form>
		<table id="task-table"></table>
	</section>
	<section id="analytics-panel" hidden>
		<div id="summary-cards"></div>
		<div id="trend-chart"></div>
	</section>
</main>
<script src="/static/js/app.js"></script>
</body>
</html>
`, templ.EscapeString(title))
		return err
	})
}
