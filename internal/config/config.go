package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the explicit configuration object handed to the wiring code.
// Everything the node needs at runtime lives here; nothing reads viper after
// Load returns.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	Server ServerConfig
	Time   TimeConfig
	Node   NodeConfig
	Sim    SimConfig
	Auth   AuthConfig
}

// ServerConfig describes the remote ingest endpoint.
type ServerConfig struct {
	BaseURL     string
	IngestPath  string
	InsecureTLS bool
	Timeout     time.Duration
}

// TimeConfig controls the network time resolver and timestamp formatting.
type TimeConfig struct {
	Servers      []string
	ProbeAddr    string // TCP address used for the connectivity check
	OffsetHours  int
	AppendUTC    bool
	Region       string // IANA label sent as tz_region, overridable at boot
	ConnectWait  time.Duration
	ClockWait    time.Duration
}

// NodeConfig carries per-sensor identity and sampling parameters.
type NodeConfig struct {
	DistanceName   string
	SoundName      string
	Debounce       time.Duration
	PollInterval   time.Duration
	EchoTimeout    time.Duration
	SoundSamples   int
	SampleSpacing  time.Duration
	PinTrig        int
	PinEcho        int
	PinBtnDistance int
	PinBtnSound    int
	PinSound       int
}

// SimConfig tunes the simulated board.
type SimConfig struct {
	Enabled       bool
	Tick          time.Duration
	AutoPress     bool
	PressInterval time.Duration
}

// AuthConfig holds API auth settings.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// Load reads configs/config.yml and returns the populated Config.
func Load() (*Config, error) {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	setDefaults()

	cfg := &Config{
		Port:     viper.GetString("port"),
		DBPath:   viper.GetString("db.path"),
		LogLevel: viper.GetString("log.level"),
		Server: ServerConfig{
			BaseURL:     viper.GetString("server.base_url"),
			IngestPath:  viper.GetString("server.ingest_path"),
			InsecureTLS: viper.GetBool("server.insecure_tls"),
			Timeout:     viper.GetDuration("server.timeout"),
		},
		Time: TimeConfig{
			Servers:     viper.GetStringSlice("time.servers"),
			ProbeAddr:   viper.GetString("time.probe_addr"),
			OffsetHours: viper.GetInt("time.offset_hours"),
			AppendUTC:   viper.GetBool("time.append_utc"),
			Region:      viper.GetString("time.region"),
			ConnectWait: viper.GetDuration("time.connect_wait"),
			ClockWait:   viper.GetDuration("time.clock_wait"),
		},
		Node: NodeConfig{
			DistanceName:   viper.GetString("node.distance_name"),
			SoundName:      viper.GetString("node.sound_name"),
			Debounce:       viper.GetDuration("node.debounce"),
			PollInterval:   viper.GetDuration("node.poll_interval"),
			EchoTimeout:    viper.GetDuration("node.echo_timeout"),
			SoundSamples:   viper.GetInt("node.sound_samples"),
			SampleSpacing:  viper.GetDuration("node.sample_spacing"),
			PinTrig:        viper.GetInt("node.pins.trig"),
			PinEcho:        viper.GetInt("node.pins.echo"),
			PinBtnDistance: viper.GetInt("node.pins.btn_distance"),
			PinBtnSound:    viper.GetInt("node.pins.btn_sound"),
			PinSound:       viper.GetInt("node.pins.sound"),
		},
		Sim: SimConfig{
			Enabled:       viper.GetBool("sim.enabled"),
			Tick:          viper.GetDuration("sim.tick"),
			AutoPress:     viper.GetBool("sim.auto_press"),
			PressInterval: viper.GetDuration("sim.press_interval"),
		},
		Auth: AuthConfig{
			SigningKey: viper.GetString("auth.signing_key"),
			TokenTTL:   viper.GetDuration("auth.token_ttl"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("port", "8080")
	viper.SetDefault("db.path", "node.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("server.timeout", 15*time.Second)
	viper.SetDefault("time.servers", []string{"pool.ntp.org", "time.nist.gov", "time.google.com"})
	viper.SetDefault("time.probe_addr", "1.1.1.1:53")
	viper.SetDefault("time.offset_hours", -8)
	viper.SetDefault("time.region", "America/Los_Angeles")
	viper.SetDefault("time.connect_wait", 8*time.Second)
	viper.SetDefault("time.clock_wait", 12*time.Second)
	viper.SetDefault("node.distance_name", "Ultrasonic_Sensor")
	viper.SetDefault("node.sound_name", "Sound_Sensor_MAX4466")
	viper.SetDefault("node.debounce", 250*time.Millisecond)
	viper.SetDefault("node.poll_interval", 25*time.Millisecond)
	viper.SetDefault("node.echo_timeout", 30*time.Millisecond)
	viper.SetDefault("node.sound_samples", 200)
	viper.SetDefault("node.sample_spacing", 200*time.Microsecond)
	viper.SetDefault("sim.tick", time.Second)
	viper.SetDefault("sim.press_interval", 45*time.Second)
	viper.SetDefault("auth.token_ttl", time.Hour)
}

func (c *Config) validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	if c.Auth.SigningKey == "" {
		return fmt.Errorf("auth.signing_key is required")
	}
	if c.Node.SoundSamples <= 0 {
		return fmt.Errorf("node.sound_samples must be positive, got %d", c.Node.SoundSamples)
	}
	return nil
}
