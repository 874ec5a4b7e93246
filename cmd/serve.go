package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/hbt/internal/config"
	"github.com/theirongolddev/hbt/internal/server"
)

// serverState is written next to the pid file so `serve status` can find
// the address of a server started with different flags.
type serverState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
}

var (
	flagServeAddr         string
	flagServeInterval     time.Duration
	flagServePIDFile      string
	flagServeEventsBuffer int
	flagServeReminder     string
	flagServeLogText      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the habit API with SSE events and metrics",
	Long: `Serve the JSON API used by web dashboards, plus:

  /v1/status   server state and the latest progress snapshot
  /v1/events   recent events
  /v1/stream   live events (server-sent events)
  /metrics     Prometheus metrics

Progress is re-read every --interval, so checks made from the CLI show up
as events too. A reminder listing open habits fires on --reminder.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the server is running and its latest snapshot",
	RunE:  runServeStatus,
}

var serveStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running server",
	RunE:  runServeStop,
}

func init() {
	defaultPID := filepath.Join(config.DataDir(), "hbt-serve.pid")

	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.PersistentFlags().StringVar(&flagServePIDFile, "pid-file", defaultPID, "PID file path")
	serveCmd.Flags().DurationVar(&flagServeInterval, "interval", 30*time.Second, "Progress polling interval")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")
	serveCmd.Flags().StringVar(&flagServeReminder, "reminder", "", `Reminder cron schedule, "off" to disable (default from config)`)
	serveCmd.Flags().BoolVar(&flagServeLogText, "log-text", false, "Console logs instead of JSON")

	serveCmd.AddCommand(serveStatusCmd, serveStopCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	pf := pidFile(flagServePIDFile)
	if err := pf.claim(); err != nil {
		return err
	}
	defer pf.release()

	flagLogJSON = !flagServeLogText
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := server.Config{
		Addr:         a.cfg.Server.Addr,
		Interval:     flagServeInterval,
		EventsBuffer: a.cfg.Server.EventsBuffer,
		ReminderCron: a.cfg.Server.ReminderCron,
		DefaultGoal:  a.cfg.General.DefaultGoal,
	}
	if flagServeAddr != "" {
		cfg.Addr = flagServeAddr
	}
	if flagServeEventsBuffer > 0 {
		cfg.EventsBuffer = flagServeEventsBuffer
	}
	switch flagServeReminder {
	case "":
	case "off":
		cfg.ReminderCron = ""
	default:
		cfg.ReminderCron = flagServeReminder
	}

	_ = pf.writeState(serverState{
		PID:       os.Getpid(),
		Addr:      cfg.Addr,
		StartedAt: time.Now(),
		DBPath:    config.DBPath(a.cfg),
	})

	fmt.Fprintf(os.Stderr, "  hbt listening on http://%s\n", cfg.Addr)
	fmt.Fprintf(os.Stderr, "  Stop with: hbt serve stop --pid-file %s\n", flagServePIDFile)

	err = server.New(cfg, a.svc, a.log).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	pf := pidFile(flagServePIDFile)
	pid, err := pf.read()
	if err != nil {
		fmt.Println("  Server: not running")
		return nil
	}
	if !processAlive(pid) {
		fmt.Printf("  Server: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := flagServeAddr
	if st, err := pf.readState(); err == nil && addr == "" {
		addr = st.Addr
	}
	if addr == "" {
		addr = config.DefaultConfig().Server.Addr
	}

	fmt.Printf("  Server PID: %d\n", pid)
	fmt.Printf("  Address:    http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API:        unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API:        HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st server.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API:        malformed response (%v)\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Println("  Last poll:  pending")
	} else {
		fmt.Printf("  Last poll:  %s (%d polls)\n", st.LastPollAt.Local().Format(time.RFC3339), st.PollCount)
	}
	fmt.Printf("  Period:     %s\n", st.Summary.Period)
	fmt.Printf("  Habits:     %d\n", st.Summary.Habits)
	fmt.Printf("  Done today: %d\n", st.Summary.TotalChecks)
	fmt.Printf("  Events:     %d (%d subscribers)\n", st.EventCount, st.SubscriberCount)
	if st.ReminderCron != "" {
		fmt.Printf("  Reminder:   %s\n", st.ReminderCron)
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runServeStop(_ *cobra.Command, _ []string) error {
	pf := pidFile(flagServePIDFile)
	pid, err := pf.read()
	if err != nil {
		return errors.New("server is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding server process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signalling server process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			pf.release()
			confirm("Stopped server (pid %d)", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("server (pid %d) did not exit in time", pid)
}

// pidFile is the path of a server's pid file. Its state lives at path+".json".
type pidFile string

func (p pidFile) statePath() string { return string(p) + ".json" }

// claim writes this process's pid, failing if another live server holds the file.
func (p pidFile) claim() error {
	if pid, err := p.read(); err == nil && processAlive(pid) {
		return fmt.Errorf("server already running (pid %d)", pid)
	}
	if err := os.MkdirAll(filepath.Dir(string(p)), 0o750); err != nil {
		return fmt.Errorf("creating pid directory: %w", err)
	}
	return os.WriteFile(string(p), []byte(strconv.Itoa(os.Getpid())+"\n"), 0o600)
}

func (p pidFile) release() {
	_ = os.Remove(string(p))
	_ = os.Remove(p.statePath())
}

func (p pidFile) read() (int, error) {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", p)
	}
	return pid, nil
}

func (p pidFile) writeState(st serverState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.statePath(), append(data, '\n'), 0o600)
}

func (p pidFile) readState() (serverState, error) {
	var st serverState
	data, err := os.ReadFile(p.statePath())
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
