// Das Monitor-Binary ist die Operator-Konsole der Discovery-Pipeline: ein
// interaktiver Befehls-Loop (oder ein nicht-interaktiver Watch-Modus), der
// Store-Snapshots rendert und Läufe über die Service-API anstößt.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tool-radar/services"
	"tool-radar/storage"
)

// MonitorConfig ist die eigenständige Konfiguration des Monitor-Binaries.
type MonitorConfig struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	ServiceURL   string        `envconfig:"SERVICE_URL" default:"http://localhost:4242"`
	APISecretKey string        `envconfig:"API_SECRET_KEY"`
	Refresh      time.Duration `envconfig:"MONITOR_REFRESH" default:"30s"`
}

func (c *MonitorConfig) dsn() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

type monitor struct {
	cfg     *MonitorConfig
	monitor *services.MonitorService
	client  *http.Client
}

func main() {
	watch := flag.Bool("watch", false, "nicht-interaktiver Modus: Status-Ansicht im Refresh-Intervall ausgeben")
	flag.Parse()

	_ = godotenv.Load()
	var cfg MonitorConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.dsn()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Fehler bei der Datenbank-Verbindung: %v", err)
	}

	m := &monitor{
		cfg:     &cfg,
		monitor: services.NewMonitorService(storage.NewStore(db), zapLogger),
		client:  &http.Client{Timeout: 30 * time.Second},
	}

	if *watch {
		m.runWatch()
		return
	}
	m.runInteractive()
}

// runWatch gibt die Status-Ansicht im festen Intervall aus, bis das Prozess-
// Signal kommt. Der Refresh-Timer ist unabhängig vom Discovery-Timer des
// Services; beide lesen nur denselben Store.
func (m *monitor) runWatch() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	m.printSnapshot()
	ticker := time.NewTicker(m.cfg.Refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.printSnapshot()
		case <-stop:
			fmt.Println("\nMonitor beendet.")
			return
		}
	}
}

// runInteractive startet den Befehls-Loop.
func (m *monitor) runInteractive() {
	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cyan("tool-radar> "),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		log.Fatalf("Fehler beim Erstellen der Konsole: %v", err)
	}
	defer rl.Close()

	fmt.Println(color.CyanString("tool-radar Monitor"))
	fmt.Println("Befehle: status, refresh, fetch-now, continuous [minuten], help, quit")
	fmt.Println()
	m.printSnapshot()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println("Monitor beendet.")
				return
			}
			log.Fatalf("Konsolen-Fehler: %v", err)
		}

		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "refresh", "status", "r", "s":
			m.printSnapshot()
		case "fetch-now", "fetch", "f":
			m.triggerRun()
		case "continuous", "c":
			minutes := 0
			if len(fields) > 1 {
				minutes, _ = strconv.Atoi(fields[1])
			}
			m.startContinuous(minutes)
		case "help", "?":
			fmt.Println("status       Status-Ansicht neu laden (Alias: refresh)")
			fmt.Println("fetch-now    einmaligen Discovery-Lauf anstoßen")
			fmt.Println("continuous   Dauerbetrieb starten (optional: Intervall in Minuten)")
			fmt.Println("quit         Monitor beenden")
		case "quit", "exit", "q":
			fmt.Println("Monitor beendet.")
			return
		default:
			fmt.Printf("Unbekannter Befehl: %s (help für Übersicht)\n", fields[0])
		}
	}
}

// printSnapshot rendert die aktuelle Momentaufnahme des Stores.
func (m *monitor) printSnapshot() {
	snapshot, err := m.monitor.Snapshot()
	if err != nil {
		color.Red("Snapshot fehlgeschlagen: %v", err)
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("\n%s  (%s)\n", bold("DISCOVERY STATUS"), snapshot.GeneratedAt.Format("15:04:05"))
	fmt.Printf("Tools gesamt: %d   Neu in 24h: %d\n\n", snapshot.TotalTools, snapshot.AddedLast24h)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "QUELLE\tSTATUS\tGEFUNDEN\tNEU\tLETZTER FETCH")
	for _, src := range snapshot.Sources {
		lastFetch := "-"
		if src.LastFetch != nil {
			lastFetch = src.LastFetch.Local().Format("02.01. 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			src.SourceName, colorStatus(src.Status), src.ToolsFound, src.ToolsAdded, lastFetch)
	}
	w.Flush()

	if len(snapshot.Trending) > 0 {
		fmt.Printf("\n%s\n", bold("TRENDING"))
		for i, tool := range snapshot.Trending {
			if i >= 5 {
				break
			}
			fmt.Printf("  %d. %s %s (%.2f)\n", i+1, tool.Logo, tool.Name, tool.TrendingScore)
		}
	}
	if len(snapshot.Recent) > 0 {
		fmt.Printf("\n%s\n", bold("ZULETZT ENTDECKT"))
		for i, tool := range snapshot.Recent {
			if i >= 5 {
				break
			}
			fmt.Printf("  - %s [%s] via %s\n", tool.Name, tool.Category, tool.SourceName)
		}
	}
	fmt.Println()
}

func colorStatus(status string) string {
	switch status {
	case "success":
		return color.GreenString(status)
	case "error":
		return color.RedString(status)
	case "fetching":
		return color.YellowString(status)
	default:
		return status
	}
}

// triggerRun stößt über die Service-API einen einmaligen Lauf an.
func (m *monitor) triggerRun() {
	if err := m.post("/discovery/run", nil); err != nil {
		color.Red("Lauf konnte nicht angestoßen werden: %v", err)
		return
	}
	color.Green("Discovery-Lauf angestoßen.")
}

// startContinuous startet den Dauerbetrieb über die Service-API.
func (m *monitor) startContinuous(minutes int) {
	var body map[string]any
	if minutes > 0 {
		body = map[string]any{"interval_minutes": minutes}
	}
	if err := m.post("/discovery/continuous", body); err != nil {
		color.Red("Dauerbetrieb konnte nicht gestartet werden: %v", err)
		return
	}
	color.Green("Dauerbetrieb gestartet.")
}

func (m *monitor) post(path string, body map[string]any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, m.cfg.ServiceURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if m.cfg.APISecretKey != "" {
		req.Header.Set("X-API-KEY", m.cfg.APISecretKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("service returned status %d: %s", resp.StatusCode, string(payload))
	}
	return nil
}
