package app

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gorcr/domain/enrichment"
	"gorcr/domain/inference"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"
)

// StatsHeader is the column order of the statistics table
var StatsHeader = []string{
	"gene", "total_weight", "direction", "n", "changed", "correct",
	"contrast", "ambiguous", "unclassified", "concordance", "richness",
}

// WriteStatsTSV writes one row per upstream gene; absent scores are NA
func WriteStatsTSV(w io.Writer, a *Analysis) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(StatsHeader); err != nil {
		return err
	}
	for _, s := range a.scores.Scores {
		if err := cw.Write(statsRow(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func statsRow(s enrichment.Score) []string {
	return []string{
		s.Gene,
		strconv.Itoa(s.Weight),
		string(inference.DirectionOf(s.Weight)),
		strconv.Itoa(s.Counts.Downstream),
		strconv.Itoa(s.Counts.Changed),
		strconv.Itoa(s.Counts.Correct),
		strconv.Itoa(s.Counts.Contrast),
		strconv.Itoa(s.Counts.Ambiguous),
		strconv.Itoa(s.Counts.Unclassified),
		s.Concordance.String(),
		s.Richness.String(),
	}
}

// ExpressionProfile summarizes the fold changes of an expression snapshot
type ExpressionProfile struct {
	Records   int     `json:"records"`
	Increased int     `json:"increased"`
	Decreased int     `json:"decreased"`
	Measured  int     `json:"measured"`
	Mean      float64 `json:"mean_log_fc"`
	Median    float64 `json:"median_log_fc"`
	StdDev    float64 `json:"stddev_log_fc"`
	Q25       float64 `json:"q25_log_fc"`
	Q75       float64 `json:"q75_log_fc"`
	Min       float64 `json:"min_log_fc"`
	Max       float64 `json:"max_log_fc"`
}

// ProfileExpression computes DE counts and log fold change quantiles over the
// whole snapshot, ignoring missing values
func ProfileExpression(a *Analysis) (ExpressionProfile, error) {
	records := a.snapshot.Records()
	up, down := a.states.Count()
	p := ExpressionProfile{Records: len(records), Increased: up, Decreased: down}

	data := make([]float64, 0, len(records))
	for _, r := range records {
		if !math.IsNaN(r.LogFoldChange) && !math.IsInf(r.LogFoldChange, 0) {
			data = append(data, r.LogFoldChange)
		}
	}
	p.Measured = len(data)
	if len(data) == 0 {
		return p, nil
	}

	var err error
	if p.Mean, err = stats.Mean(data); err != nil {
		return p, err
	}
	if p.Median, err = stats.Median(data); err != nil {
		return p, err
	}
	if p.StdDev, err = stats.StandardDeviation(data); err != nil {
		return p, err
	}
	// nearest rank is defined for any non-empty sample
	if p.Q25, err = stats.PercentileNearestRank(data, 25); err != nil {
		return p, err
	}
	if p.Q75, err = stats.PercentileNearestRank(data, 75); err != nil {
		return p, err
	}
	if p.Min, err = stats.Min(data); err != nil {
		return p, err
	}
	if p.Max, err = stats.Max(data); err != nil {
		return p, err
	}
	return p, nil
}

// MarkdownReport renders the run summary, expression profile and statistics table
func MarkdownReport(a *Analysis) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# Reverse causal reasoning report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", a.runID)
	fmt.Fprintf(&b, "- Fingerprint: `%s`\n", a.fingerprint.Short())
	fmt.Fprintf(&b, "- Thresholds: p < %g, |logFC| > %g\n", a.thresholds.PValue, a.thresholds.FoldChange)
	fmt.Fprintf(&b, "- Causal graph: %d genes, %d edges (%d ambiguous)\n\n",
		a.graph.NodeCount(), a.graph.EdgeCount(), a.graph.AmbiguousEdgeCount())

	fmt.Fprintf(&b, "## Expression profile\n\n")
	if profile, err := ProfileExpression(a); err != nil {
		fmt.Fprintf(&b, "Profile unavailable: %v\n\n", err)
	} else {
		fmt.Fprintf(&b, "| records | increased | decreased | mean logFC | median logFC | sd | q25 | q75 |\n")
		fmt.Fprintf(&b, "|---|---|---|---|---|---|---|---|\n")
		fmt.Fprintf(&b, "| %d | %d | %d | %.3f | %.3f | %.3f | %.3f | %.3f |\n\n",
			profile.Records, profile.Increased, profile.Decreased,
			profile.Mean, profile.Median, profile.StdDev, profile.Q25, profile.Q75)
	}

	fmt.Fprintf(&b, "## Regulators\n\n")
	fmt.Fprintf(&b, "Background: N = %d genes, m = %d changed.\n\n", a.scores.Background.Genes, a.scores.Background.Changed)
	fmt.Fprintf(&b, "| %s |\n", strings.Join(StatsHeader, " | "))
	fmt.Fprintf(&b, "|%s\n", strings.Repeat("---|", len(StatsHeader)))
	for _, s := range a.scores.Scores {
		if s.Counts.Downstream == 0 {
			continue
		}
		row := statsRow(s)
		row[9] = formatScore(s.Concordance)
		row[10] = formatScore(s.Richness)
		fmt.Fprintf(&b, "| %s |\n", strings.Join(row, " | "))
	}
	return b.Bytes(), nil
}

func formatScore(v enrichment.Value) string {
	p, ok := v.Get()
	if !ok {
		return "NA"
	}
	return strconv.FormatFloat(p, 'g', 4, 64)
}

// HTMLReport renders a Markdown report as a complete HTML page
func HTMLReport(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Reverse causal reasoning report",
	})
	return markdown.ToHTML(md, p, renderer)
}

// ReportFiles names the files written by WriteReports
type ReportFiles struct {
	Stats    string
	Markdown string
	HTML     string
}

// WriteReports writes stats.tsv, report.md and report.html into dir
func WriteReports(a *Analysis, dir string) (ReportFiles, error) {
	files := ReportFiles{
		Stats:    filepath.Join(dir, "stats.tsv"),
		Markdown: filepath.Join(dir, "report.md"),
		HTML:     filepath.Join(dir, "report.html"),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return files, fmt.Errorf("failed to create output directory: %w", err)
	}

	var tsv bytes.Buffer
	if err := WriteStatsTSV(&tsv, a); err != nil {
		return files, err
	}
	md, err := MarkdownReport(a)
	if err != nil {
		return files, err
	}

	for path, data := range map[string][]byte{
		files.Stats:    tsv.Bytes(),
		files.Markdown: md,
		files.HTML:     HTMLReport(md),
	} {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return files, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return files, nil
}
