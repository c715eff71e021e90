package report

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/opsforge/ecr-janitor/internal/util"
	"github.com/opsforge/ecr-janitor/pkg/types"
)

// errRenderReport indicates a failure while executing the report template.
var errRenderReport = errors.New("failed to render report")

// pushedAtFormat is the timestamp layout used in the "pushed at" column.
const pushedAtFormat = "2006-01-02 15:04:05 -0700 MST"

// reportTemplate is the published inventory page: one sortable DataTables
// table listing every kept or ignored image of the run.
const reportTemplate = `<html>
    <head>
        <link rel="stylesheet"
            href="https://stackpath.bootstrapcdn.com/bootstrap/4.4.1/css/bootstrap.min.css"
            integrity="sha384-Vkoo8x4CGsO3+Hhxv8T/Q5PaXtkKtu6ug5TOeNV6gBiFeWPGFN9MuhOf23Q9Ifjh"
            crossorigin="anonymous">
        <link rel="stylesheet" type="text/css" href="https://cdn.datatables.net/1.10.20/css/jquery.dataTables.css">
        <script src="https://ajax.googleapis.com/ajax/libs/jquery/3.4.1/jquery.min.js"></script>
        <script type="text/javascript" charset="utf8" src="https://cdn.datatables.net/1.10.20/js/jquery.dataTables.js"></script>
        <title>{{.Label}} nightly and permanent docker image info</title>
    </head>
    <body>
        <table class="table table-striped table-hover" id="docker">
        <thead class="thead-dark">
            <tr>
            <th scope="col">repo</th>
            <th scope="col">tag</th>
            <th scope="col">keep window</th>
            <th scope="col">age</th>
            <th scope="col">pushed at</th>
            </tr>
        </thead>
        <tbody>
            {{range .Rows}}<tr><td>{{.Repository}}</td><td>{{.Tag}}</td><td>{{.Window}}</td><td>{{.Age}}</td><td>{{.PushedAt}}</td></tr>{{end}}
        </tbody>
        </table>
    </body>
    <script>
        $(document).ready( function () {
            $('#docker').DataTable({paging: false});
        } );
    </script>
</html>
`

// rowView is one pre-formatted table row.
type rowView struct {
	Repository string
	Tag        string
	Window     string
	Age        string
	PushedAt   string
}

// reportView is the template input for one rendered report.
type reportView struct {
	Label string
	Rows  []rowView
}

// Render produces the HTML inventory document for the given rows.
//
// Ignored tags render with an empty keep-window column; every other row
// shows the retention window that kept it. Ages and windows are formatted as
// human-readable durations.
//
// Parameters:
//   - label: The report label used in the page title, typically the
//     repository prefix of the run.
//   - rows: The accumulated report rows, rendered in insertion order.
//
// Returns:
//   - string: The rendered HTML document.
//   - error: Non-nil if template execution fails.
func Render(label string, rows []types.ReportRow) (string, error) {
	view := reportView{Label: label, Rows: make([]rowView, 0, len(rows))}

	for _, row := range rows {
		window := ""
		if !row.Ignored {
			window = util.FormatDuration(row.Window)
		}

		view.Rows = append(view.Rows, rowView{
			Repository: row.Repository,
			Tag:        row.Tag,
			Window:     window,
			Age:        util.FormatDuration(row.Age),
			PushedAt:   row.PushedAt.Format(pushedAtFormat),
		})
	}

	var buf strings.Builder
	if err := template.Must(template.New("report").Parse(reportTemplate)).Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %w", errRenderReport, err)
	}

	return buf.String(), nil
}
