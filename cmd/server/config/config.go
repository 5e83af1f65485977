package config

import (
	"time"

	"github.com/goliatone/go-persistence-bun"
)

// BaseConfig holds all configuration for the timeline server
type BaseConfig struct {
	Server      ServerConfig      `json:"server"`
	Persistence PersistenceConfig `json:"persistence"`
	Timeline    TimelineConfig    `json:"timeline"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string `json:"port" env:"SERVER_PORT" default:"8978"`
	Host string `json:"host" env:"SERVER_HOST" default:"localhost"`
}

// PersistenceConfig implements persistence.Config interface
type PersistenceConfig struct {
	Debug          bool          `json:"debug" default:"true"`
	Driver         string        `json:"driver" default:"sqlite"`
	Server         string        `json:"server" env:"DB_SERVER" default:"file:timeline.db?_journal_mode=WAL&cache=shared&_fk=1"`
	PingTimeout    time.Duration `json:"ping_timeout" default:"5s"`
	OtelIdentifier string        `json:"otel_identifier" default:"go-timeline-server"`
}

func (c PersistenceConfig) GetDebug() bool                { return c.Debug }
func (c PersistenceConfig) GetDriver() string             { return c.Driver }
func (c PersistenceConfig) GetServer() string             { return c.Server }
func (c PersistenceConfig) GetPingTimeout() time.Duration { return c.PingTimeout }
func (c PersistenceConfig) GetOtelIdentifier() string     { return c.OtelIdentifier }

// TimelineConfig holds feed and cache behavior settings
type TimelineConfig struct {
	PageSize     int  `json:"page_size" env:"TIMELINE_PAGE_SIZE" default:"50"`
	CacheEnabled bool `json:"cache_enabled" env:"TIMELINE_CACHE_ENABLED" default:"true"`
	SeedDemoData bool `json:"seed_demo_data" env:"TIMELINE_SEED_DEMO_DATA" default:"true"`
}

// GetPersistence returns persistence config
func (c *BaseConfig) GetPersistence() persistence.Config {
	return c.Persistence
}

// GetServer returns server config
func (c *BaseConfig) GetServer() ServerConfig {
	return c.Server
}

// GetTimeline returns timeline behavior config
func (c *BaseConfig) GetTimeline() TimelineConfig {
	return c.Timeline
}

// Validate implements config.Validable interface
func (c *BaseConfig) Validate() error {
	return nil
}
