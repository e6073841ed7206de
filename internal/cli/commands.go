package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leotrv/dcf-calculator/internal/config"
	"github.com/leotrv/dcf-calculator/internal/server"
	"github.com/leotrv/dcf-calculator/internal/valuation"
	"github.com/leotrv/dcf-calculator/pkg/constants"
	"github.com/leotrv/dcf-calculator/pkg/output"
	"github.com/leotrv/dcf-calculator/pkg/validation"
)

// Version is reported by the version command and the API version endpoint.
const Version = "0.0.1"

// Process exit codes, matching the calculate command's error classes.
const (
	exitCodeValidation  = 2
	exitCodeCalculation = 3
)

// exitError carries a specific process exit code out of a command run.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

// appState holds the configuration and logger shared by subcommands.
type appState struct {
	conf     *config.Configuration
	logger   *zap.Logger
	logLevel string
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	state := &appState{}
	rootCmd := NewRootCmd(state)

	err := rootCmd.Execute()
	if state.logger != nil {
		_ = state.logger.Sync()
	}
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}

// NewRootCmd creates the root command
func NewRootCmd(state *appState) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dcf-calculator",
		Short: "Discounted cash flow valuation calculator",
		Long: `dcf-calculator values a company from its projected free cash flows using
the discounted cash flow method. It runs one-shot valuations from the command
line or serves the same calculation over an HTTP JSON API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")

			conf, err := config.LoadConfiguration(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", configPath, err)
			}

			logger, err := initializeLogger(conf.Logging, logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			state.conf = conf
			state.logger = logger
			state.logLevel = logLevel
			return nil
		},
	}

	// Add subcommands
	rootCmd.AddCommand(newCalculateCmd(state))
	rootCmd.AddCommand(newServeCmd(state))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().String("config", constants.DefaultConfigFile, "Configuration file path")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override (debug, info, warn, error)")

	return rootCmd
}

// newCalculateCmd creates the calculate command
func newCalculateCmd(state *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [REQUEST_JSON]",
		Short: "Run a DCF valuation for a JSON request",
		Long: `Run a discounted cash flow valuation for a JSON request document.
The request is read from the argument if given, otherwise from stdin.
Example: dcf-calculator calculate '{"starting_fcf": 72.764, "fcf_growth_rate": 12.0, "years": 10, "discount_rate": 8.0, "terminal_growth_rate": 3.0, "net_debt": -54.3}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readRequestPayload(cmd, args)
			if err != nil {
				return err
			}

			formatFlag, _ := cmd.Flags().GetString("output-format")
			outputFormat := state.conf.OutputFormatOrDefault(formatFlag)
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			return runCalculateCommand(state.logger, raw, outputFormat)
		},
	}

	// Calculate command flags
	cmd.Flags().String("output-format", "", "Output format: json, pretty, or csv")

	return cmd
}

// newServeCmd creates the serve command
func newServeCmd(state *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the valuation HTTP API server",
		Long: `Start the HTTP API server exposing the valuation endpoint at
POST /dcf/calculate. Server settings are read from the server configuration
file when present, otherwise built-in defaults apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("server-config")
			address, _ := cmd.Flags().GetString("address")

			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}

			logger := state.logger
			if cfg.Logging != (config.LoggingConfig{}) {
				// The server config carries its own logging section.
				logger, err = initializeLogger(cfg.Logging, state.logLevel)
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				defer func() { _ = logger.Sync() }()
			}

			return server.Run(cfg, logger, Version)
		},
	}

	// Serve command flags
	cmd.Flags().String("server-config", constants.DefaultServerConfigFile, "Server configuration file path")
	cmd.Flags().String("address", "", "Listen address override (e.g. :8080)")

	return cmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("dcf-calculator v" + Version)
		},
	}
}

// readRequestPayload returns the request JSON from the argument or stdin.
func readRequestPayload(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read request from stdin: %w", err)
	}
	return string(data), nil
}

// runCalculateCommand executes the valuation workflow for one request
func runCalculateCommand(logger *zap.Logger, raw string, outputFormat string) error {
	var input valuation.RequestInput
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		msg := fmt.Sprintf("Invalid JSON input: %v", err)
		fmt.Println(msg)
		return &exitError{code: exitCodeValidation, msg: msg}
	}

	req, err := valuation.NewRequest(input)
	if err != nil {
		msg := fmt.Sprintf("Validation error: %v", err)
		fmt.Println(msg)
		return &exitError{code: exitCodeValidation, msg: msg}
	}

	engine := valuation.NewEngine(logger)
	result, err := engine.Calculate(req)
	if err != nil {
		msg := fmt.Sprintf("Calculation error: %v", err)
		fmt.Println(msg)
		return &exitError{code: exitCodeCalculation, msg: msg}
	}

	resp := output.BuildResponse(result)
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(resp)
	case constants.OutputFormatCSV:
		output.CsvFormat(resp)
	default:
		return output.JSONFormat(resp)
	}

	return nil
}
