// Command coning runs the coning correlations offline.
//
//	coning eval -in wells.xlsx [-out processed_results.xlsx] [-chart chart.html]
//	coning calc -method schols [-hp 20 ...]
//	coning token -sub NAME [-ttl 720h] [-config coning.yaml]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"Coning/internal/auth"
	"Coning/internal/calc/chart"
	"Coning/internal/calc/coning"
	"Coning/internal/calc/premium/batch"
	"Coning/internal/calc/premium/importer"
	"Coning/internal/config"
)

const usage = `usage: coning <command> [flags]

commands:
  eval    evaluate a well spreadsheet with the batch correlations
  calc    run one correlation for a single well
  token   print an API token signed with the configured key
`

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	var err error
	switch args[0] {
	case "eval":
		err = runEval(args[1:], stdout, stderr)
	case "calc":
		err = runCalc(args[1:], stdout, stderr)
	case "token":
		err = runToken(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		var mc *batch.MissingColumnError
		if errors.As(err, &mc) {
			fmt.Fprintln(stderr, "missing columns:")
			for _, c := range mc.Columns {
				fmt.Fprintf(stderr, "  %s\n", c)
			}
			return 1
		}
		fmt.Fprintf(stderr, "coning %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func runEval(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "well spreadsheet (.xlsx)")
	out := fs.String("out", "", "write the processed workbook here")
	chartPath := fs.String("chart", "", "write the rate chart (HTML) here")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in is required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()

	table, err := importer.Read(f)
	if err != nil {
		return err
	}
	processed, err := batch.Evaluate(table)
	if err != nil {
		return err
	}
	rates, err := batch.Rates(processed)
	if err != nil {
		return err
	}

	printRates(stdout, rates)

	if *out != "" {
		if err := writeFile(*out, func(w io.Writer) error { return importer.Write(w, processed) }); err != nil {
			return fmt.Errorf("write %s: %w", *out, err)
		}
		slog.Info("wrote workbook", "path", *out)
	}
	if *chartPath != "" {
		if err := writeFile(*chartPath, func(w io.Writer) error { return chart.Render(w, rates) }); err != nil {
			return fmt.Errorf("write %s: %w", *chartPath, err)
		}
		slog.Info("wrote chart", "path", *chartPath)
	}
	return nil
}

func printRates(w io.Writer, rates []batch.WellRates) {
	header := []string{batch.ColWell}
	for _, m := range batch.Methods {
		header = append(header, m.Title())
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, wr := range rates {
		row := []string{wr.Well}
		for _, v := range wr.Rates {
			row = append(row, coning.FormatRate(v))
		}
		table.Append(row)
	}
	table.Render()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runCalc(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	method := fs.String("method", string(coning.MethodMeyerGardner), "correlation to run")

	overrides := map[string]float64{}
	for _, key := range []string{"ko", "kh", "kv", "h", "hp", "mu", "bo", "re", "rw", "deno", "denw", "qo", "kro", "krw", "mw", "phi"} {
		key := key
		fs.Func(key, "override the default "+key, func(s string) error {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return err
			}
			overrides[key] = v
			return nil
		})
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := coning.Defaults(coning.Method(*method))
	if err != nil {
		return err
	}
	for k, v := range overrides {
		if err := in.Set(k, v); err != nil {
			return err
		}
	}

	res, err := coning.Calculate(in)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s\n", res.Method.Title())
	for _, p := range in.Params() {
		fmt.Fprintf(stdout, "  %-36s %12g %s\n", p.Label, p.Value, p.Unit)
	}
	fmt.Fprintf(stdout, "Critical Flow Rate (Qoc): %s STB/d\n", res.Qoc)
	if res.Tbt != nil {
		fmt.Fprintf(stdout, "Time to water breakthrough (Tbt): %s days\n", *res.Tbt)
	}
	if !res.Finite {
		fmt.Fprintln(stdout, res.Notes)
	}
	return nil
}

func runToken(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sub := fs.String("sub", "", "token subject")
	ttl := fs.Duration("ttl", 30*24*time.Hour, "token lifetime")
	configPath := fs.String("config", "", "config file naming the key variable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sub == "" {
		return errors.New("-sub is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	token, err := auth.IssueToken(cfg.Auth.Key(), *sub, *ttl)
	if err != nil {
		return fmt.Errorf("%w (set %s)", err, cfg.Auth.TokenKeyEnv)
	}
	fmt.Fprintln(stdout, token)
	return nil
}
