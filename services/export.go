package services

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/studyplanner/StudyPlannerBackend/models"
)

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 40px; }
    h1 { color: #2c3e50; text-align: center; }
    h2 { color: #34495e; margin-top: 20px; }
    .goal-list { margin-left: 20px; }
    .goal-item { margin: 10px 0; }
    .status-completed { color: #27ae60; }
    .status-in-progress { color: #f39c12; }
    .status-not-started { color: #95a5a6; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>

  <h2>Completed Goals</h2>
  <div class="goal-list">
    {{range .Completed}}<div class="goal-item status-completed">
      {{.Title}} - completed on {{.UpdatedAt.Format "2006-01-02"}}
    </div>
    {{end}}
  </div>

  <h2>Goals In Progress</h2>
  <div class="goal-list">
    {{range .InProgress}}<div class="goal-item status-in-progress">
      {{.Title}} - progress: {{.Progress}}%
    </div>
    {{end}}
  </div>

  <h2>Not Started Goals</h2>
  <div class="goal-list">
    {{range .NotStarted}}<div class="goal-item status-not-started">
      {{.Title}} - planned start {{.StartDate.Format "2006-01-02"}}
    </div>
    {{end}}
  </div>
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

type reportData struct {
	Title      string
	Completed  []models.Goal
	InProgress []models.Goal
	NotStarted []models.Goal
}

// RenderHTML partitions goals by status into the three report sections. The
// same document feeds both the html and the pdf format.
func RenderHTML(goals []models.Goal, reportType string) (string, error) {
	data := reportData{Title: "Monthly Report"}
	if reportType == "weekly" {
		data.Title = "Weekly Report"
	}

	for _, goal := range goals {
		switch goal.Status {
		case models.StatusCompleted:
			data.Completed = append(data.Completed, goal)
		case models.StatusInProgress:
			data.InProgress = append(data.InProgress, goal)
		default:
			data.NotStarted = append(data.NotStarted, goal)
		}
	}

	var sb strings.Builder
	if err := reportTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return sb.String(), nil
}

// RenderPDF rasterizes the report through headless chrome. The caller's
// context bounds the whole print; there is no retry on failure.
func RenderPDF(ctx context.Context, html string) ([]byte, error) {
	cctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(cctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// A4 with ~20px margins.
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.2).
				WithMarginBottom(0.2).
				WithMarginLeft(0.2).
				WithMarginRight(0.2).
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdf, nil
}
