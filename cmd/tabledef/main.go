package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/kadirbelkuyu/tabledef/internal/app"
	"github.com/kadirbelkuyu/tabledef/internal/config"
	"github.com/kadirbelkuyu/tabledef/internal/export"

	"github.com/spf13/cobra"
)

const appName = "Table Definition Exporter"

const asciiBanner = `
 _        _     _           _       __ 
| |_ __ _| |__ | | ___   __| | ___ / _|
| __/ _' | '_ \| |/ _ \ / _' |/ _ \ |_ 
| || (_| | |_) | |  __/| (_| |  __/  _|
 \__\__,_|_.__/|_|\___| \__,_|\___|_|  

`

var rootCmd = &cobra.Command{
	Use:   "tabledef",
	Short: "Export PostgreSQL table definitions to Excel workbooks",
	Long:  `A developer-friendly CLI that reads a database catalog and writes one worksheet per table with its columns, indexes and DDL.`,
	RunE:  runInteractive,
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the guided interactive workflow",
	RunE:  runInteractive,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export table definitions to an xlsx workbook",
	RunE:  runExport,
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables a report would contain",
	RunE:  runTables,
}

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Browse table definitions with the interactive console",
	RunE:  runExplore,
}

var workflowService = app.NewService(os.Stdout)

var (
	configPath string
	outputDir  string
	fileName   string
	style      string
	verbose    bool
)

func init() {
	exportCmd.Flags().StringVar(&configPath, "config", "", "Path to the database configuration file")
	exportCmd.Flags().StringVar(&outputDir, "dir", "", "Directory the workbook is written to")
	exportCmd.Flags().StringVar(&fileName, "name", "", "Workbook file name; .xlsx is appended when missing")
	exportCmd.Flags().StringVar(&style, "style", "", "Report style: simple or generic")
	exportCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	exportCmd.MarkFlagRequired("config")

	tablesCmd.Flags().StringVar(&configPath, "config", "", "Path to the database configuration file")
	tablesCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	tablesCmd.MarkFlagRequired("config")

	exploreCmd.Flags().StringVar(&configPath, "config", "", "Path to the database configuration file")
	exploreCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(exploreCmd)

	cobra.OnInitialize(func() {
		rootCmd.SilenceUsage = true
		rootCmd.SilenceErrors = true
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	application := app.NewApplication(os.Stdin, printBanner)
	return application.RunInteractive(cmd.Context())
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	req := app.DefaultRequest(cfg).Merge(export.Request{
		Directory: outputDir,
		FileName:  fileName,
		Style:     style,
	})
	return workflowService.Export(cmd.Context(), cfg, req, verbose)
}

func runTables(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	return workflowService.ListTables(cmd.Context(), cfg, verbose)
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	return workflowService.Explore(cmd.Context(), cfg, false)
}

func printBanner() {
	fmt.Print(asciiBanner)
	fmt.Println(appName)
	fmt.Println(strings.Repeat("-", len(appName)))
}
