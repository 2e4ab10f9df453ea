// Switch Studio Core - mmWave presence switch bridge
//
// This is the main entry point for the Switch Studio bridge. It sits
// between a zigbee2mqtt deployment of Inovelli VZM32-SN switches and the
// browser UI: MQTT traffic in, WebSocket events out, validated writes back.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/switch-studio-core/internal/api"
	"github.com/nerrad567/switch-studio-core/internal/device"
	"github.com/nerrad567/switch-studio-core/internal/infrastructure/config"
	"github.com/nerrad567/switch-studio-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/switch-studio-core/internal/infrastructure/logging"
	"github.com/nerrad567/switch-studio-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/switch-studio-core/internal/schema"
	"github.com/nerrad567/switch-studio-core/internal/session"
	"github.com/nerrad567/switch-studio-core/internal/studio"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Switch Studio Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Load the device capability model. A missing manifest degrades to the
	// built-in fallback, it never blocks startup.
	schemaService := schema.New(cfg.Schema.DefinitionPaths, log)

	// Device registry and session router hold all runtime state in memory.
	registry := device.NewRegistry()
	registry.SetLogger(log)
	sessions := session.NewRouter()

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT, log.With("component", "mqtt"))
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var telemetry studio.Telemetry
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		telemetry = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	// The hub is built before the bridge service because the service
	// broadcasts through it; the service is wired back as the hub's
	// inbound handler once it exists.
	hub := api.NewHub(cfg.WebSocket, log)

	bridge := studio.New(studio.Deps{
		Registry:  registry,
		Sessions:  sessions,
		Schema:    schemaService,
		Emitter:   hub,
		Publisher: mqttClient,
		Telemetry: telemetry,
		Logger:    log,
		BaseTopic: cfg.Studio.BaseTopic,
		QoS:       byte(cfg.MQTT.QoS),
	})
	hub.SetHandler(bridge)

	// Subscribe to the whole zigbee2mqtt tree; the service sorts out
	// discovery, raw frames, and config reports per message.
	var topics mqtt.Topics
	wildcard := topics.DeviceWildcard(cfg.Studio.BaseTopic)
	if err := mqttClient.Subscribe(wildcard, byte(cfg.MQTT.QoS), bridge.HandleMessage); err != nil {
		return fmt.Errorf("subscribing to %s: %w", wildcard, err)
	}
	log.Info("subscribed to device tree", "topic", wildcard)

	// Evict devices that stop publishing.
	go bridge.RunSweeper(ctx, cfg.SweepIntervalDuration(), cfg.StaleAfterDuration())

	// Start the HTTP and WebSocket front end.
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Registry: registry,
		Schema:   schemaService,
		Hub:      hub,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, mqttClient, influxClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server (drains WebSocket sessions)
	// 2. InfluxDB (if enabled)
	// 3. MQTT

	log.Info("Switch Studio Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SWITCHSTUDIO_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SWITCHSTUDIO_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//   - apiServer: API server to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) error {
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
