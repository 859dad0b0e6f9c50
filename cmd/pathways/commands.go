package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pavelanni/pathways/internal/assessment"
	"github.com/pavelanni/pathways/internal/model"
	"github.com/pavelanni/pathways/internal/scorer"
	"github.com/pavelanni/pathways/internal/store"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "score [answer...]",
		Short:   "Score a list of answer letters (R, I, A, S, E, C) and print the matches",
		Example: "  pathways score R R I A R S",
		RunE:    runScore,
	}
	f := cmd.Flags()
	addDataFlags(f)
	f.Bool("json", false, "Print the result as JSON")
	addLogFlags(f)
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	svc, _, err := loadService(v)
	if err != nil {
		return err
	}

	// Accept both "R R I" and "RRI".
	var raw []string
	for _, a := range args {
		for _, r := range strings.TrimSpace(a) {
			raw = append(raw, string(r))
		}
	}
	answers, err := scorer.ParseAnswers(raw)
	if err != nil {
		return err
	}
	res, err := svc.Evaluate(answers)
	if err != nil {
		return err
	}

	if v.GetBool("json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printResult(cmd.OutOrStdout(), res)
}

func printResult(w io.Writer, res assessment.Result) error {
	names := make([]string, 0, scorer.CodeLength)
	for _, c := range res.Code.Categories() {
		names = append(names, c.Name())
	}
	counts := make([]string, 0, len(res.Ranking))
	for _, c := range res.Ranking {
		counts = append(counts, fmt.Sprintf("%s=%d", c, res.Tally[c]))
	}

	_, err := fmt.Fprintf(w, "Code:    %s (%s)\nTally:   %s\nMajors:  %s\nCareers: %s\n",
		res.Code, strings.Join(names, ", "),
		strings.Join(counts, " "),
		orNone(res.Majors), orNone(res.Careers))
	return err
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export assessment sessions as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "", "SQLite database path (required)")
	addDataFlags(f)
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(f)

	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	svc, info, err := loadService(v)
	if err != nil {
		return err
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	results, err := db.ExportAllSessions(svc)
	if err != nil {
		return fmt.Errorf("export sessions: %w", err)
	}

	export := model.AssessmentExport{
		GeneratedAt:     time.Now().UTC(),
		QuestionsSHA256: info.QuestionsSHA256,
		MatchesSHA256:   info.MatchesSHA256,
		NumSessions:     len(results),
		Results:         results,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = cmd.OutOrStdout()
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
