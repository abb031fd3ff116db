// Package main is the entry point for the calcpad server and CLI.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/calcpad/config"
	"github.com/lemonberrylabs/calcpad/pkg/expr"
	"github.com/lemonberrylabs/calcpad/pkg/keypad"
	"github.com/lemonberrylabs/calcpad/pkg/store"
	"github.com/lemonberrylabs/calcpad/web"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "calcpad",
	Short: "Formula calculator server",
	Long:  "calcpad serves a web calculator with a persisted formula library.",
	RunE:  runServe,
}

var evalCmd = &cobra.Command{
	Use:   "eval EXPRESSION...",
	Short: "Evaluate expressions from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEval,
}

var varsCmd = &cobra.Command{
	Use:   "vars EXPRESSION",
	Short: "Print the free variables of an expression",
	Args:  cobra.ExactArgs(1),
	RunE:  runVars,
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("calcpad version {{.Version}}\n")

	rootCmd.Flags().String("config", "", "YAML config file (env CALCPAD_CONFIG)")
	rootCmd.Flags().String("listen", "", "HTTP listen address (default 0.0.0.0:8787, env LISTEN)")
	rootCmd.Flags().String("formulas-file", "", "JSON snapshot path for the formula store (env FORMULAS_FILE)")
	rootCmd.Flags().String("seed-file", "", "YAML file of name: expression pairs loaded at startup (env SEED_FILE)")

	evalCmd.Flags().StringArray("given", nil, "name=value variable binding (repeatable)")

	rootCmd.AddCommand(evalCmd, varsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath := os.Getenv("CALCPAD_CONFIG")
	if v, _ := cmd.Flags().GetString("config"); v != "" {
		configPath = v
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("listen"); v != "" {
		cfg.Listen = v
	}
	if v, _ := cmd.Flags().GetString("formulas-file"); v != "" {
		cfg.FormulasFile = v
	}
	if v, _ := cmd.Flags().GetString("seed-file"); v != "" {
		cfg.SeedFile = v
	}

	if cfg.MaxExpressionLength > 0 {
		expr.SetMaxExpressionLength(cfg.MaxExpressionLength)
	}

	var s *store.Store
	if cfg.FormulasFile != "" {
		s, err = store.Open(cfg.FormulasFile)
		if err != nil {
			return err
		}
		log.Printf("Formula store: %s (%d formulas)", cfg.FormulasFile, len(s.List()))
	} else {
		s = store.New()
		log.Printf("Formula store: in-memory only")
	}

	if cfg.SeedFile != "" {
		n, err := s.Seed(cfg.SeedFile)
		if err != nil {
			return err
		}
		log.Printf("Seeded %d formulas from %s", n, cfg.SeedFile)
	}

	server := web.New(s)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down calcpad...")
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("calcpad listening on %s", cfg.Listen)
	return server.Listen(cfg.Listen)
}

func runEval(cmd *cobra.Command, args []string) error {
	given, _ := cmd.Flags().GetStringArray("given")
	vars := make(map[string]float64, len(given))
	for _, g := range given {
		name, value, ok := strings.Cut(g, "=")
		if !ok {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, g)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", strings.TrimSpace(name), err)
		}
		vars[strings.TrimSpace(name)] = v
	}

	for _, arg := range args {
		v, err := expr.Evaluate(arg, vars)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), keypad.FormatResult(v))
	}
	return nil
}

func runVars(cmd *cobra.Command, args []string) error {
	for _, name := range expr.ExtractVariables(args[0]) {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
