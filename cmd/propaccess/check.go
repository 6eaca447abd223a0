package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"

	"property-mapper/access"
	"property-mapper/internal/analyze"
	"property-mapper/internal/config"
	"property-mapper/internal/logger"
	"property-mapper/mapper"
)

type checkFlags struct {
	pkg        string
	typeName   string
	configPath string
	mode       string
	output     string
	logLevel   string
	logFormat  string
}

// classReport is the JSON shape of one checked class.
type classReport struct {
	Class      string           `json:"class"`
	Mode       string           `json:"mode"`
	Properties []propertyReport `json:"properties"`
	Errors     []string         `json:"errors,omitempty"`
}

type propertyReport struct {
	Name   string `json:"name"`
	Column string `json:"column"`
	Read   string `json:"read"`
	Write  string `json:"write"`
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	var f checkFlags

	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.pkg, "pkg", ".", "Package pattern to load")
	fs.StringVar(&f.typeName, "type", "", "Struct to check (default: every exported struct)")
	fs.StringVar(&f.configPath, "config", "", "Path to a YAML mapping configuration")
	fs.StringVar(&f.mode, "mode", "", "Access mode override (fields, accessors, both)")
	fs.StringVar(&f.output, "output", "text", "Report format (text, json)")
	fs.StringVar(&f.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}

		return ExitUsageError
	}

	var mode access.AccessMode
	if f.mode != "" {
		m, err := access.ParseAccessMode(f.mode)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitUsageError
		}

		mode = m
	}

	if f.output != "text" && f.output != "json" {
		fmt.Fprintf(stderr, "Error: unknown output format %q\n", f.output)
		return ExitUsageError
	}

	log := logger.New(f.logLevel, f.logFormat, stderr)

	cfg := &config.File{Version: "1", AccessMode: access.Both}
	if f.configPath != "" {
		loaded, err := config.LoadFile(f.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitFailure
		}

		if d := loaded.Validate(); !d.IsValid() {
			fmt.Fprintf(stderr, "Error: %v\n", d.Error())
			return ExitFailure
		}

		cfg = loaded
	}

	analyzer := analyze.NewAnalyzer()
	if err := analyzer.LoadPackages(f.pkg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	}

	reports, failed, err := check(analyzer, cfg, f.typeName, mode, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	}

	if err := writeReports(stdout, f.output, reports); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	}

	if failed {
		for _, r := range reports {
			for _, e := range r.Errors {
				fmt.Fprintln(stderr, e)
			}
		}

		return ExitFailure
	}

	return ExitSuccess
}

func check(a *analyze.Analyzer, cfg *config.File, typeName string, mode access.AccessMode, log *slog.Logger) ([]classReport, bool, error) {
	var (
		reports []classReport
		failed  bool
	)

	for _, pkg := range a.Packages() {
		names := a.Structs(pkg)
		if typeName != "" {
			names = []string{typeName}
		}

		for _, name := range names {
			class, err := a.Class(pkg, name)
			if typeName != "" && errors.Is(err, analyze.ErrTypeNotFound) {
				continue
			}

			if err != nil {
				return nil, false, err
			}

			strategy := cfg.Strategy(class.Name(), nil)
			if mode != 0 {
				strategy = access.WithMode(strategy, mode)
			}

			opts := append(cfg.Options(class.Name()), mapper.WithLogger(log))

			plan, err := mapper.NewPlan(class, strategy, opts...)
			report := reportOf(plan)
			if err != nil {
				failed = true
			}

			reports = append(reports, report)
		}
	}

	if typeName != "" && len(reports) == 0 {
		return nil, false, fmt.Errorf("%w: %s in %s", analyze.ErrTypeNotFound, typeName, strings.Join(a.Packages(), ", "))
	}

	return reports, failed, nil
}

func reportOf(plan *mapper.Plan) classReport {
	r := classReport{Class: plan.Class, Mode: plan.Mode.String()}

	for _, res := range plan.Resolutions {
		r.Properties = append(r.Properties, propertyReport{
			Name:   res.Property.Name,
			Column: res.Column,
			Read:   describe(res.ReadVia, res.Getter, res),
			Write:  describe(res.WriteVia, res.Setter, res),
		})
	}

	for _, d := range plan.Diagnostics.Errors {
		r.Errors = append(r.Errors, d.String())
	}

	return r
}

func describe(via mapper.Via, m *access.Method, r mapper.Resolution) string {
	switch via {
	case mapper.ViaMethod:
		return m.Name
	case mapper.ViaField:
		return "field " + r.Field.Name
	default:
		return "-"
	}
}

func writeReports(w io.Writer, format string, reports []classReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(reports)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tMODE\tPROPERTY\tCOLUMN\tREAD\tWRITE")

	for _, r := range reports {
		for _, p := range r.Properties {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Class, r.Mode, p.Name, p.Column, p.Read, p.Write)
		}
	}

	return tw.Flush()
}
