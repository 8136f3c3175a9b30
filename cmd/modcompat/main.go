package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/hostbridge/modcompat/hostapi"
	"github.com/hostbridge/modcompat/metadata"
	"github.com/hostbridge/modcompat/modbin"
	"github.com/hostbridge/modcompat/repcache"
	"github.com/hostbridge/modcompat/rewrite"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	phraseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	fatalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "modcompat",
		Short:         "Compatibility rewriting engine for compiled host mods",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInspectCmd(), newRewriteCmd())
	return root
}

func newInspectCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "inspect <mod.modbin>",
		Short: "Dump a compiled module's types, members and instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mod, err := readModule(args[0])
			if err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("module " + mod.Name))
			for _, t := range mod.Types {
				fmt.Printf("  type %s (scope %s): %d fields, %d properties, %d methods\n",
					t.Name, t.Scope, len(t.Fields), len(t.Properties), len(t.Methods))
				if !full {
					continue
				}
				for _, m := range t.Methods {
					if m.Body == nil {
						fmt.Printf("    %s.%s: no body\n", t.Name, m.Name)
						continue
					}
					fmt.Printf("    %s.%s:\n", t.Name, m.Name)
					for _, ins := range m.Body.Instructions {
						fmt.Printf("      %s\n", dimStyle.Render(ins.String()))
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Include per-method instruction listings")
	return cmd
}

func newRewriteCmd() *cobra.Command {
	var (
		configPath  string
		hostPaths   []string
		targetStr   string
		outPath     string
		cacheDir    string
		interactive bool
		verbose     bool
		paranoid    bool
	)
	cmd := &cobra.Command{
		Use:   "rewrite <mod.modbin>",
		Short: "Run the rewrite pipeline over a compiled module and report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync() //nolint:errcheck
				rewrite.SetLogger(logger)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			mod, err := modbin.Decode(data)
			if err != nil {
				return err
			}
			file, err := hostapi.Load(configPath)
			if err != nil {
				return err
			}

			index := metadata.NewIndex(mod)
			hostDigests := make([]string, 0, len(hostPaths))
			for _, path := range hostPaths {
				hostData, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				host, err := modbin.Decode(hostData)
				if err != nil {
					return err
				}
				index.Register(host)
				sum := sha256.Sum256(hostData)
				hostDigests = append(hostDigests, hex.EncodeToString(sum[:]))
			}

			var target *semver.Version
			if targetStr != "" {
				target, err = semver.NewVersion(targetStr)
				if err != nil {
					return fmt.Errorf("parse target version: %w", err)
				}
			}

			cfg := rewrite.ConfigFromFile(file, index, target)
			if cmd.Flags().Changed("paranoid") {
				cfg.ParanoidScan = paranoid
			}

			// Scan-only invocations can answer from the cache; producing a
			// rewritten module always requires a real run. The key covers
			// the effective configuration and the registered host metadata,
			// so a flag or host change never hits a stale entry.
			var cache *repcache.Cache
			var cacheKey string
			if cacheDir != "" && outPath == "" {
				cache, err = repcache.OpenAt(cacheDir)
				if err != nil {
					return err
				}
				cacheKey = repcache.Key(data, append([]string{cfg.Fingerprint()}, hostDigests...)...)
				if report, ok, err := cache.Load(cacheKey); err == nil && ok {
					return emitReport(mod.Name+" (cached)", report, interactive)
				}
			}

			report := rewrite.NewPipeline(rewrite.NewRegistry(cfg)).Run(mod)
			if cache != nil {
				if err := cache.Store(cacheKey, report); err != nil {
					fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				}
			}

			if outPath != "" {
				encoded, err := modbin.Encode(mod)
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
					return err
				}
			}
			return emitReport(mod.Name, report, interactive)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Host API config file (TOML)")
	cmd.Flags().StringArrayVar(&hostPaths, "host", nil, "Host metadata module (modbin), repeatable")
	cmd.Flags().StringVar(&targetStr, "target", "", "Host version the mod was built against")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the rewritten module here")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Enable the report cache at this directory")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the report in a TUI")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log handler activity")
	cmd.Flags().BoolVar(&paranoid, "paranoid", false, "Override the config's paranoid-scan flag")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func readModule(path string) (*metadata.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return modbin.Decode(data)
}

// emitReport prints or browses the report and turns a rejection into a
// command error so the exit code reflects the disposition.
func emitReport(name string, report *rewrite.Report, interactive bool) error {
	if interactive && term.IsTerminal(int(os.Stdout.Fd())) {
		if err := browseReport(name, report); err != nil {
			return err
		}
	} else {
		printReport(name, report)
	}
	if report.Disposition() == rewrite.DispositionReject {
		return fmt.Errorf("module %s rejected: %s", name, resultLine(report))
	}
	return nil
}

func printReport(name string, report *rewrite.Report) {
	fmt.Println(headerStyle.Render("rewrite report: " + name))
	if report.Empty() {
		fmt.Println(dimStyle.Render("  fully compatible, nothing to do"))
		return
	}
	for _, phrase := range report.Phrases {
		fmt.Println("  " + phraseStyle.Render(phrase))
	}
	fmt.Println("  " + resultLine(report))
	switch report.Disposition() {
	case rewrite.DispositionReject:
		fmt.Println("  " + fatalStyle.Render("disposition: reject"))
	case rewrite.DispositionWarn:
		fmt.Println("  " + warnStyle.Render("disposition: warn"))
	default:
		fmt.Println("  " + dimStyle.Render("disposition: accept"))
	}
}

func resultLine(report *rewrite.Report) string {
	line := "results:"
	for _, o := range report.Results.List() {
		line += " " + o.String()
	}
	if report.Results.Empty() {
		line += " none"
	}
	return line
}
