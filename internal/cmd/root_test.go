package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeApp(t, &DispatchApp{}, stdin, args...)
}

func executeApp(t *testing.T, app *DispatchApp, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	err := app.execute(root)
	return out.String(), err
}

func TestDeparturesCommandUsesDemoTimetable(t *testing.T) {
	out, err := execute(t, "", "departures")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := strings.Index(out, "Arendal")
	last := strings.Index(out, "20:05")
	if first < 0 || last < 0 || first > last {
		t.Fatalf("departures not sorted by effective time:\n%s", out)
	}
}

func TestDepartCommandKeepsWrappedTrain(t *testing.T) {
	out, err := execute(t, "", "--config", "testdata/night.toml", "depart", "--at", "23:59")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	departed, remaining, found := strings.Cut(out, "Remaining departures")
	if !found {
		t.Fatalf("missing remaining section:\n%s", out)
	}
	if !strings.Contains(departed, "Lillehammer") || !strings.Contains(departed, "Skien") {
		t.Errorf("expected 12 and 14 to depart:\n%s", departed)
	}
	if !strings.Contains(remaining, "Oslo S") {
		t.Errorf("wrapped train 61 should remain:\n%s", remaining)
	}

	out, err = execute(t, "", "--config", "testdata/night.toml", "depart", "--at", "00:01", "--next-day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Remaining departures: none") {
		t.Errorf("every train should have left by next day 00:01:\n%s", out)
	}
}

func TestDepartCommandRejectsEarlierClock(t *testing.T) {
	_, err := execute(t, "", "--config", "testdata/night.toml", "depart", "--at", "21:00")
	if err == nil || !strings.Contains(err.Error(), "before current time") {
		t.Fatalf("want clock error, got %v", err)
	}
}

func TestSearchCommand(t *testing.T) {
	out, err := execute(t, "", "search", "--destination", "Oslo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(out, "|  Oslo ") != 2 {
		t.Errorf("want two Oslo departures:\n%s", out)
	}

	out, err = execute(t, "", "search", "--train", "4242")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Train number 4242 not found") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := execute(t, "", "search"); err == nil {
		t.Errorf("search without a flag should fail")
	}
}

func TestRunCommandReadsStdin(t *testing.T) {
	out, err := execute(t, "1\n9\n", "run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Main Menu:") || !strings.Contains(out, "Tromsø") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if info["version"] != "dev" {
		t.Errorf("version = %q, want dev", info["version"])
	}
}

func TestBadConfigFails(t *testing.T) {
	if _, err := execute(t, "", "--config", "testdata/missing.toml", "departures"); err == nil {
		t.Fatalf("missing config should fail")
	}
}

func TestFailedCommandStillStopsTelemetry(t *testing.T) {
	app := &DispatchApp{}
	root := NewRootCmd(app)
	// the clock in night.toml is 22:00, so moving it back to 21:00 fails
	root.SetArgs([]string{"--telemetry", "127.0.0.1:0", "--config", "testdata/night.toml", "depart", "--at", "21:00"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	var addr string
	depart, _, err := root.Find([]string{"depart"})
	if err != nil {
		t.Fatal(err)
	}
	run := depart.RunE
	depart.RunE = func(cmd *cobra.Command, args []string) error {
		addr = app.telemetry.Addr()
		return run(cmd, args)
	}

	if err := app.execute(root); err == nil {
		t.Fatal("expected moving the clock backwards to fail")
	}
	if addr == "" {
		t.Fatal("telemetry server never started")
	}
	if app.telemetry != nil {
		t.Error("telemetry server should be released after a failed command")
	}
	client := &http.Client{Timeout: time.Second}
	if resp, err := client.Get("http://" + addr + "/metrics"); err == nil {
		resp.Body.Close()
		t.Fatalf("metrics endpoint %s still serving after the command failed", addr)
	}
}

func TestConfigFlagNamesEveryFormat(t *testing.T) {
	usage := NewRootCmd(&DispatchApp{}).PersistentFlags().Lookup("config").Usage
	for _, format := range []string{"TOML", "YAML", "CSV"} {
		if !strings.Contains(usage, format) {
			t.Errorf("--config help %q does not mention %s", usage, format)
		}
	}
}
