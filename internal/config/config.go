package config

import "time"

// Config holds client and relay configuration values.
//
// URL templates accept the placeholders {roomID}, {userID}, {username} and {token};
// substituted values are query-escaped.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Client side.
	SocketURL      string        `mapstructure:"socket_url" yaml:"socket_url"`
	HistoryURL     string        `mapstructure:"history_url" yaml:"history_url"`
	APIURL         string        `mapstructure:"api_url" yaml:"api_url"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	HistoryTimeout time.Duration `mapstructure:"history_timeout" yaml:"history_timeout"`

	// Relay side.
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	JWTSecret         string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer         string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience       string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	JWTTTL            time.Duration `mapstructure:"jwt_ttl" yaml:"jwt_ttl"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	RateLimit         int           `mapstructure:"rate_limit" yaml:"rate_limit"`
	HistoryLimit      int           `mapstructure:"history_limit" yaml:"history_limit"`
}

// Default returns configuration pointing the client at a relay on localhost.
func Default() Config {
	return Config{
		LogLevel:          "info",
		SocketURL:         "ws://localhost:8080/ws?id={roomID}&userID={userID}&username={username}&token={token}",
		HistoryURL:        "http://localhost:8080/api/messages?roomID={roomID}",
		APIURL:            "http://localhost:8080/api",
		DialTimeout:       10 * time.Second,
		HistoryTimeout:    10 * time.Second,
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "haikuchat.db",
		JWTIssuer:         "haikuchat",
		JWTAudience:       "haikuchat",
		JWTTTL:            24 * time.Hour,
		MaxMessageBytes:   16 << 10,
		RateLimit:         60,
		HistoryLimit:      200,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.SocketURL != "" {
		c.SocketURL = other.SocketURL
	}
	if other.HistoryURL != "" {
		c.HistoryURL = other.HistoryURL
	}
	if other.APIURL != "" {
		c.APIURL = other.APIURL
	}
	if other.DialTimeout != 0 {
		c.DialTimeout = other.DialTimeout
	}
	if other.HistoryTimeout != 0 {
		c.HistoryTimeout = other.HistoryTimeout
	}
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.JWTSecret != "" {
		c.JWTSecret = other.JWTSecret
	}
	if other.JWTIssuer != "" {
		c.JWTIssuer = other.JWTIssuer
	}
	if other.JWTAudience != "" {
		c.JWTAudience = other.JWTAudience
	}
	if other.JWTTTL != 0 {
		c.JWTTTL = other.JWTTTL
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.RateLimit != 0 {
		c.RateLimit = other.RateLimit
	}
	if other.HistoryLimit != 0 {
		c.HistoryLimit = other.HistoryLimit
	}
}
