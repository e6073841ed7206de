package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const exampleRequest = `{"starting_fcf": 72.764, "fcf_growth_rate": 12.0, "years": 10, "discount_rate": 8.0, "terminal_growth_rate": 3.0, "net_debt": -54.3}`

// captureStdout redirects os.Stdout for the duration of fn and returns what was written.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = orig

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return string(data)
}

func newTestRootCmd() *cobra.Command {
	return NewRootCmd(&appState{})
}

func TestRunCalculateCommandInvalidJSON(t *testing.T) {
	var err error
	out := captureStdout(t, func() {
		err = runCalculateCommand(zap.NewNop(), "{not json", "json")
	})

	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected an exit error, got %v", err)
	}
	if exitErr.code != exitCodeValidation {
		t.Errorf("expected exit code %d, got %d", exitCodeValidation, exitErr.code)
	}
	if !strings.HasPrefix(out, "Invalid JSON input:") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRunCalculateCommandValidationError(t *testing.T) {
	payload := `{"starting_fcf": 100.0, "fcf_growth_rate": 5.0, "years": 5}`

	var err error
	out := captureStdout(t, func() {
		err = runCalculateCommand(zap.NewNop(), payload, "json")
	})

	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected an exit error, got %v", err)
	}
	if exitErr.code != exitCodeValidation {
		t.Errorf("expected exit code %d, got %d", exitCodeValidation, exitErr.code)
	}
	if !strings.HasPrefix(out, "Validation error:") {
		t.Errorf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "DISCOUNT_RATE_REQUIRED") {
		t.Errorf("expected the error code in the output, got %q", out)
	}
}

func TestRunCalculateCommandSuccessJSON(t *testing.T) {
	var err error
	out := captureStdout(t, func() {
		err = runCalculateCommand(zap.NewNop(), exampleRequest, "json")
	})
	if err != nil {
		t.Fatalf("runCalculateCommand returned error: %v", err)
	}

	var resp struct {
		EnterpriseValue         float64   `json:"enterprise_value"`
		EquityValue             float64   `json:"equity_value"`
		DiscountedFCFs          []float64 `json:"discounted_fcfs"`
		DiscountedTerminalValue float64   `json:"discounted_terminal_value"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	if len(resp.DiscountedFCFs) != 10 {
		t.Errorf("expected 10 discounted cash flows, got %d", len(resp.DiscountedFCFs))
	}
	if resp.EnterpriseValue <= 0 {
		t.Errorf("expected positive enterprise value, got %f", resp.EnterpriseValue)
	}
	if resp.DiscountedTerminalValue <= 0 {
		t.Errorf("expected positive discounted terminal value, got %f", resp.DiscountedTerminalValue)
	}
	// Negative net debt adds to the equity value.
	if diff := resp.EquityValue - resp.EnterpriseValue; math.Abs(diff-54.3) > 0.011 {
		t.Errorf("expected equity value to exceed enterprise value by 54.3, got %f", diff)
	}
}

func TestRunCalculateCommandPrettyFormat(t *testing.T) {
	var err error
	out := captureStdout(t, func() {
		err = runCalculateCommand(zap.NewNop(), exampleRequest, "pretty")
	})
	if err != nil {
		t.Fatalf("runCalculateCommand returned error: %v", err)
	}

	if !strings.Contains(out, "DCF Valuation") {
		t.Errorf("expected pretty header in output: %q", out)
	}
	if !strings.Contains(out, "Enterprise value:") {
		t.Errorf("expected enterprise value line in output: %q", out)
	}
}

func TestRunCalculateCommandCsvFormat(t *testing.T) {
	var err error
	out := captureStdout(t, func() {
		err = runCalculateCommand(zap.NewNop(), exampleRequest, "csv")
	})
	if err != nil {
		t.Fatalf("runCalculateCommand returned error: %v", err)
	}

	if !strings.Contains(out, `"metric","year","value"`) {
		t.Errorf("expected CSV header in output: %q", out)
	}
	if !strings.Contains(out, `"enterprise_value"`) {
		t.Errorf("expected enterprise value row in output: %q", out)
	}
}

func TestCalculateCommandThroughRoot(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.SetArgs([]string{"calculate", exampleRequest})

	var err error
	out := captureStdout(t, func() {
		err = rootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("calculate command returned error: %v", err)
	}
	if !strings.Contains(out, `"equity_value"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}

func TestCalculateCommandReadsStdin(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.SetIn(strings.NewReader(exampleRequest))
	rootCmd.SetArgs([]string{"calculate"})

	var err error
	out := captureStdout(t, func() {
		err = rootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("calculate command returned error: %v", err)
	}
	if !strings.Contains(out, `"enterprise_value"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}

func TestCalculateCommandOutputFormatFlag(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.SetArgs([]string{"calculate", exampleRequest, "--output-format", "pretty"})

	var err error
	out := captureStdout(t, func() {
		err = rootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("calculate command returned error: %v", err)
	}
	if !strings.Contains(out, "DCF Valuation") {
		t.Errorf("expected pretty output, got %q", out)
	}
}

func TestCalculateCommandInvalidOutputFormat(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.SetArgs([]string{"calculate", exampleRequest, "--output-format", "xml"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid output format")
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		t.Errorf("format errors should not carry a dedicated exit code, got %d", exitErr.code)
	}
	if !strings.Contains(err.Error(), "expected output format") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestCalculateCommandExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantCode int
	}{
		{name: "malformed JSON", payload: "{", wantCode: exitCodeValidation},
		{name: "validation failure", payload: `{"starting_fcf": -1.0, "fcf_growth_rate": 2.0, "years": 5, "discount_rate": 8.0}`, wantCode: exitCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd := newTestRootCmd()
			rootCmd.SetArgs([]string{"calculate", tt.payload})

			var err error
			captureStdout(t, func() {
				err = rootCmd.Execute()
			})

			var exitErr *exitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("expected an exit error, got %v", err)
			}
			if exitErr.code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, exitErr.code)
			}
		})
	}
}

func TestExitErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("command failed: %w", &exitError{code: exitCodeCalculation, msg: "Calculation error: boom"})

	var exitErr *exitError
	if !errors.As(wrapped, &exitErr) {
		t.Fatal("expected errors.As to unwrap the exit error")
	}
	if exitErr.code != exitCodeCalculation {
		t.Errorf("expected exit code %d, got %d", exitCodeCalculation, exitErr.code)
	}
}

func TestReadRequestPayload(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{name: "argument wins", args: []string{`{"years": 5}`}, stdin: "ignored", want: `{"years": 5}`},
		{name: "dash reads stdin", args: []string{"-"}, stdin: `{"years": 7}`, want: `{"years": 7}`},
		{name: "no argument reads stdin", args: nil, stdin: `{"years": 9}`, want: `{"years": 9}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.SetIn(strings.NewReader(tt.stdin))

			got, err := readRequestPayload(cmd, tt.args)
			if err != nil {
				t.Fatalf("readRequestPayload returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected payload %q, got %q", tt.want, got)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.SetArgs([]string{"version"})

	var err error
	out := captureStdout(t, func() {
		err = rootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("version command returned error: %v", err)
	}
	if strings.TrimSpace(out) != "dcf-calculator v"+Version {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestServeCommandInvalidConfig(t *testing.T) {
	badConfig := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(badConfig, []byte("address: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	rootCmd := newTestRootCmd()
	rootCmd.SetArgs([]string{"serve", "--server-config", badConfig})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for malformed server config")
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		t.Errorf("config errors should not carry a dedicated exit code, got %d", exitErr.code)
	}
}
