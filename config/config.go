package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Product Hunt (GraphQL)
	ProductHuntAPIURL string `envconfig:"PRODUCTHUNT_API_URL" default:"https://api.producthunt.com/v2/api/graphql"`
	ProductHuntToken  string `envconfig:"PRODUCTHUNT_TOKEN"`
	ProductHuntPages  int    `envconfig:"PRODUCTHUNT_PAGES" default:"2"`

	// GitHub Repository Search
	GitHubAPIURL string `envconfig:"GITHUB_API_URL" default:"https://api.github.com"`
	GitHubToken  string `envconfig:"GITHUB_TOKEN"`

	// Reddit Board-Listings
	RedditBaseURL string `envconfig:"REDDIT_BASE_URL" default:"https://www.reddit.com"`
	RedditBoards  string `envconfig:"REDDIT_BOARDS" default:"artificial,ArtificialInteligence,MachineLearning,ChatGPT"`
	RedditLimit   int    `envconfig:"REDDIT_LIMIT" default:"25"`

	// Hacker News (zweiphasig: Top-IDs, dann Items)
	HackerNewsBaseURL  string `envconfig:"HACKERNEWS_BASE_URL" default:"https://hacker-news.firebaseio.com/v0"`
	HackerNewsTopLimit int    `envconfig:"HACKERNEWS_TOP_LIMIT" default:"50"`

	// Discovery-Zeitplan für den Dauerbetrieb
	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"@every 6h"`

	// Quellen-Konfiguration
	EnabledSources string `envconfig:"ENABLED_SOURCES" default:"producthunt,github,reddit,hackernews"`

	// S3 für Snapshot-Artefakte nach jedem Lauf
	SnapshotS3Key    string `envconfig:"SNAPSHOT_S3_KEY" required:"true"`
	SnapshotS3Secret string `envconfig:"SNAPSHOT_S3_SECRET" required:"true"`
	SnapshotS3URL    string `envconfig:"SNAPSHOT_S3_URL" required:"true"`
	SnapshotS3Region string `envconfig:"SNAPSHOT_S3_REGION" required:"true"`
	SnapshotS3Bucket string `envconfig:"SNAPSHOT_S3_BUCKET" required:"true"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
