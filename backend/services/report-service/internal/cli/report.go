package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fcreport/backend/services/report-service/internal/ingest"
	"fcreport/backend/services/report-service/internal/models"
	"fcreport/backend/services/report-service/internal/pipeline"
)

// fileFlags are shared by every command that reads an export.
type fileFlags struct {
	file   string
	format string
}

func (f *fileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Session export (.csv or .xlsx)")
	cmd.Flags().StringVar(&f.format, "format", "", "Override the format detected from the extension (csv, xlsx)")
	_ = cmd.MarkFlagRequired("file")
}

func (f *fileFlags) read() ([]byte, ingest.Format, error) {
	var (
		format ingest.Format
		err    error
	)
	if f.format != "" {
		format, err = ingest.ParseFormat(f.format)
	} else {
		format, err = ingest.DetectFormat(f.file)
	}
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(f.file)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", f.file, err)
	}
	return data, format, nil
}

func newPipeline(load configLoader) (*pipeline.Pipeline, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	pipeCfg, err := cfg.Pipeline()
	if err != nil {
		return nil, err
	}
	return pipeline.New(pipeCfg), nil
}

type DatesCmd struct {
	fileFlags
	load configLoader
}

func NewDatesCmd(load configLoader) *cobra.Command {
	dc := &DatesCmd{load: load}
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List the report dates present in an export",
		RunE:  dc.run,
	}
	dc.register(cmd)
	return cmd
}

func (dc *DatesCmd) run(cmd *cobra.Command, _ []string) error {
	p, err := newPipeline(dc.load)
	if err != nil {
		return err
	}
	data, format, err := dc.read()
	if err != nil {
		return err
	}
	table, err := p.Load(data, format)
	if err != nil {
		return err
	}
	for _, d := range table.Dates() {
		fmt.Fprintln(cmd.OutOrStdout(), d)
	}
	for _, w := range table.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: row %d %s %q: %s\n", w.Row, w.Column, w.Value, w.Message)
	}
	return nil
}

type SummaryCmd struct {
	fileFlags
	date string
	load configLoader
}

func NewSummaryCmd(load configLoader) *cobra.Command {
	sc := &SummaryCmd{load: load}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the KPIs and category summaries of one date as JSON",
		RunE:  sc.run,
	}
	sc.register(cmd)
	cmd.Flags().StringVarP(&sc.date, "date", "d", "", "Report date (YYYY-MM-DD); defaults to the first date")
	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	p, err := newPipeline(sc.load)
	if err != nil {
		return err
	}
	data, format, err := sc.read()
	if err != nil {
		return err
	}
	res, err := p.Summarize(pipeline.Request{FileBytes: data, Format: format, Date: sc.date})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res.Summary)
}

type GenerateCmd struct {
	fileFlags
	date string
	out  string
	html string
	load configLoader
}

func NewGenerateCmd(load configLoader) *cobra.Command {
	gc := &GenerateCmd{load: load}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the PDF report for one date",
		RunE:  gc.run,
	}
	gc.register(cmd)
	cmd.Flags().StringVarP(&gc.date, "date", "d", "", "Report date (YYYY-MM-DD); defaults to the first date")
	cmd.Flags().StringVarP(&gc.out, "out", "o", ".", "Output directory or .pdf path")
	cmd.Flags().StringVar(&gc.html, "html", "", "Also write the interactive chart page to this path")
	return cmd
}

func (gc *GenerateCmd) run(cmd *cobra.Command, _ []string) error {
	p, err := newPipeline(gc.load)
	if err != nil {
		return err
	}
	data, format, err := gc.read()
	if err != nil {
		return err
	}
	req := pipeline.Request{FileBytes: data, Format: format, Date: gc.date}

	res, err := p.Generate(req)
	if err != nil {
		return err
	}

	path := gc.out
	if filepath.Ext(path) != ".pdf" {
		path = filepath.Join(path, res.Document.FileName)
	}
	if err := os.WriteFile(path, res.Document.Bytes, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if gc.html != "" {
		page, err := os.Create(gc.html)
		if err != nil {
			return fmt.Errorf("create chart page: %w", err)
		}
		defer page.Close()
		req.Date = res.Date
		if _, err := p.Charts(page, req); err != nil {
			return err
		}
	}

	k := res.Summary.KPIs
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d sessions, %s kWh, %d pages\n",
		path, k.TotalSessions, models.FormatKWh(k.TotalEnergyKWh), res.Document.Pages)
	return nil
}
