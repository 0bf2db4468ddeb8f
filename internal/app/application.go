package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kadirbelkuyu/tabledef/internal/config"
	"github.com/kadirbelkuyu/tabledef/internal/export"
	"github.com/kadirbelkuyu/tabledef/internal/profiles"
	"github.com/kadirbelkuyu/tabledef/internal/report"
)

const defaultConfigDir = "configs"

type Application struct {
	reader         *bufio.Reader
	out            io.Writer
	printBanner    func()
	profileManager *profiles.Manager
	service        *Service
}

func NewApplication(r io.Reader, printBanner func()) *Application {
	if r == nil {
		r = os.Stdin
	}

	var reader *bufio.Reader
	if br, ok := r.(*bufio.Reader); ok {
		reader = br
	} else {
		reader = bufio.NewReader(r)
	}

	return &Application{
		reader:         reader,
		out:            os.Stdout,
		printBanner:    printBanner,
		profileManager: profiles.NewManager(defaultConfigDir),
		service:        NewService(os.Stdout),
	}
}

func (a *Application) RunInteractive(ctx context.Context) error {
	if a.printBanner != nil {
		a.printBanner()
	}
	fmt.Fprintln(a.out, "Interactive mode is ready. Press Ctrl+C or choose option 4 to exit.")

	for {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Select an operation:")
		fmt.Fprintln(a.out, "  1) Export table definitions")
		fmt.Fprintln(a.out, "  2) List tables")
		fmt.Fprintln(a.out, "  3) Explore tables with the TUI")
		fmt.Fprintln(a.out, "  4) Exit")

		fmt.Fprint(a.out, "\nChoice: ")
		choice, err := a.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return a.exit()
			}
			return err
		}

		var action func(context.Context) error
		var failure string
		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "1", "export":
			action, failure = a.handleExport, ""
		case "2", "tables", "list":
			action, failure = a.handleList, "Listing failed: "
		case "3", "explore":
			action, failure = a.handleExplore, "Explorer failed: "
		case "4", "exit", "quit", "q":
			return a.exit()
		default:
			fmt.Fprintln(a.out, "Invalid selection. Try again.")
			continue
		}

		if err := action(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return a.exit()
			}
			fmt.Fprintf(a.out, "%s%v\n", failure, err)
		}
	}
}

func (a *Application) exit() error {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Exiting interactive mode.")
	return nil
}

func (a *Application) handleExport(ctx context.Context) error {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Export table definitions")

	cfg, err := a.loadOrPromptConfig()
	if err != nil {
		return err
	}

	req, err := a.promptExportRequest(DefaultRequest(cfg))
	if err != nil {
		return err
	}

	verboseFlag, err := a.promptYesNo("Enable verbose logging?", false)
	if err != nil {
		return err
	}

	return a.service.Export(ctx, cfg, req, verboseFlag)
}

func (a *Application) handleList(ctx context.Context) error {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "List tables of a database")

	cfg, err := a.loadOrPromptConfig()
	if err != nil {
		return err
	}

	return a.service.ListTables(ctx, cfg, false)
}

func (a *Application) handleExplore(ctx context.Context) error {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Explore table definitions in the console UI")

	cfg, err := a.loadOrPromptConfig()
	if err != nil {
		return err
	}

	return a.service.Explore(ctx, cfg, false)
}

// promptExportRequest asks for the output location and style until they
// form a valid request.
func (a *Application) promptExportRequest(defaults export.Request) (export.Request, error) {
	for {
		directory, err := a.promptStringWithDefault("Output directory", defaults.Directory)
		if err != nil {
			return export.Request{}, err
		}
		fileName, err := a.promptStringWithDefault("File name", defaults.FileName)
		if err != nil {
			return export.Request{}, err
		}
		style, err := a.promptStyle(defaults.Style)
		if err != nil {
			return export.Request{}, err
		}

		req := export.Request{Directory: directory, FileName: fileName, Style: style.String()}
		if err := req.Validate(); err != nil {
			fmt.Fprintf(a.out, "Error: %s\n", export.UserMessage(err))
			continue
		}

		fmt.Fprintf(a.out, "The report will be written to %s\n", req.OutputPath())
		return req, nil
	}
}

func (a *Application) promptStyle(current string) (report.Style, error) {
	fallback, err := report.ParseStyle(current)
	if err != nil {
		fallback = report.StyleSimple
	}

	styles := report.Styles()
	for {
		fmt.Fprintln(a.out, "Report style:")
		for i, style := range styles {
			fmt.Fprintf(a.out, "  %d) %s\n", i+1, style)
		}
		fmt.Fprintf(a.out, "Selection [%s]: ", fallback)

		input, err := a.readLine()
		if err != nil {
			return 0, err
		}
		if input == "" {
			return fallback, nil
		}

		if index, err := strconv.Atoi(input); err == nil && index >= 1 && index <= len(styles) {
			return styles[index-1], nil
		}
		if style, err := report.ParseStyle(input); err == nil {
			return style, nil
		}
		fmt.Fprintln(a.out, "Please choose a listed style.")
	}
}

func (a *Application) promptString(label string, required bool) (string, error) {
	for {
		fmt.Fprintf(a.out, "%s: ", label)
		input, err := a.readLine()
		if err != nil {
			return "", err
		}
		if input == "" && required {
			fmt.Fprintln(a.out, "Please provide a value.")
			continue
		}
		return input, nil
	}
}

func (a *Application) promptYesNo(question string, defaultValue bool) (bool, error) {
	suffix := "(y/N)"
	if defaultValue {
		suffix = "(Y/n)"
	}

	for {
		fmt.Fprintf(a.out, "%s %s ", question, suffix)
		input, err := a.readLine()
		if err != nil {
			return false, err
		}

		if input == "" {
			return defaultValue, nil
		}

		switch strings.ToLower(input) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(a.out, "Please answer with y or n.")
		}
	}
}

func (a *Application) promptInt(question string, defaultValue int) (int, error) {
	for {
		fmt.Fprintf(a.out, "%s [%d]: ", question, defaultValue)
		input, err := a.readLine()
		if err != nil {
			return 0, err
		}

		if input == "" {
			return defaultValue, nil
		}

		value, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintln(a.out, "Please enter a valid number.")
			continue
		}

		return value, nil
	}
}

func (a *Application) loadOrPromptConfig() (*config.Config, error) {
	for {
		fmt.Fprintln(a.out, "\nConfigure the database connection")

		if cfg, ok, err := a.selectProfile(); err != nil {
			return nil, err
		} else if ok {
			return cfg, nil
		}

		cfg, err := a.promptManualConfig()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, err
			}
			fmt.Fprintf(a.out, "Error: %v\n", err)
			continue
		}

		if err := a.persistConfig(cfg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, err
			}
			fmt.Fprintf(a.out, "Warning: failed to save config: %v\n", err)
		}

		return cfg, nil
	}
}

func (a *Application) promptManualConfig() (*config.Config, error) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type: "postgres",
		},
	}

	fmt.Fprintln(a.out, "\nEnter PostgreSQL connection details:")

	host, err := a.promptStringWithDefault("Host", "localhost")
	if err != nil {
		return nil, err
	}
	port, err := a.promptInt("Port", 5432)
	if err != nil {
		return nil, err
	}
	dbName, err := a.promptStringWithDefault("Database name", "postgres")
	if err != nil {
		return nil, err
	}
	username, err := a.promptString("Username (leave blank for none)", false)
	if err != nil {
		return nil, err
	}
	password, err := a.promptString("Password (leave blank for none)", false)
	if err != nil {
		return nil, err
	}
	sslMode, err := a.promptStringWithDefault("SSL mode", "disable")
	if err != nil {
		return nil, err
	}
	driver, err := a.promptStringWithDefault("Driver (postgres or pgx)", "postgres")
	if err != nil {
		return nil, err
	}
	schemas, err := a.promptString("Schemas to include (comma separated, blank for all)", false)
	if err != nil {
		return nil, err
	}

	cfg.Database.Host = host
	cfg.Database.Port = port
	cfg.Database.Database = dbName
	cfg.Database.Username = username
	cfg.Database.Password = password
	cfg.Database.SSLMode = strings.TrimSpace(sslMode)
	cfg.Database.Driver = driver
	cfg.Database.Schemas = splitList(schemas)

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *Application) promptStringWithDefault(label, defaultValue string) (string, error) {
	for {
		if defaultValue != "" {
			fmt.Fprintf(a.out, "%s [%s]: ", label, defaultValue)
		} else {
			fmt.Fprintf(a.out, "%s: ", label)
		}

		input, err := a.readLine()
		if err != nil {
			return "", err
		}

		if input == "" {
			if defaultValue != "" {
				return defaultValue, nil
			}
			fmt.Fprintln(a.out, "Please provide a value.")
			continue
		}

		return input, nil
	}
}

func (a *Application) readLine() (string, error) {
	line, err := a.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *Application) selectProfile() (*config.Config, bool, error) {
	saved, err := a.profileManager.List()
	if err != nil {
		return nil, false, err
	}

	if len(saved) == 0 {
		return nil, false, nil
	}

	for {
		fmt.Fprintln(a.out, "Saved configurations:")
		for i, profile := range saved {
			fmt.Fprintf(a.out, "  %d) %s (%s, %s)\n", i+1, profile.Name, profile.Target, profile.Driver)
		}
		fmt.Fprintln(a.out, "  n) Create a new configuration")

		choice, err := a.promptString("Select a configuration (number) or 'n'", true)
		if err != nil {
			return nil, false, err
		}

		choice = strings.ToLower(strings.TrimSpace(choice))
		if choice == "n" || choice == "new" {
			return nil, false, nil
		}

		index, err := strconv.Atoi(choice)
		if err != nil || index < 1 || index > len(saved) {
			fmt.Fprintln(a.out, "Please choose a valid option.")
			continue
		}

		cfg, err := config.LoadConfig(saved[index-1].Path)
		if err != nil {
			fmt.Fprintf(a.out, "Failed to load %s: %v\n", saved[index-1].Name, err)
			continue
		}

		return cfg, true, nil
	}
}

func (a *Application) persistConfig(cfg *config.Config) error {
	save, err := a.promptYesNo("Save this configuration for future use?", true)
	if err != nil || !save {
		return err
	}

	defaultName := fmt.Sprintf("%s-%s_%s", cfg.Database.Database, cfg.Database.Host, time.Now().Format("20060102_150405"))
	name, err := a.promptStringWithDefault("Configuration name", defaultName)
	if err != nil {
		return err
	}

	profile, err := a.profileManager.Save(name, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved configuration to %s\n", profile.Path)
	return nil
}

func splitList(input string) []string {
	var items []string
	for _, item := range strings.Split(input, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
