package config

import (
	"fmt"
	"time"
)

// BaseConfig is the root application configuration container
type BaseConfig struct {
	App         App         `json:"app" yaml:"app"`
	Auth        Auth        `json:"auth" yaml:"auth"`
	Persistence Persistence `json:"persistence" yaml:"persistence"`
	Server      Server      `json:"server" yaml:"server"`
}

func (a BaseConfig) Validate() error {
	if a.Auth.SigningKey == "" {
		return fmt.Errorf("auth.signing_key is required")
	}
	return nil
}

func (a BaseConfig) GetApp() App {
	return a.App
}

func (a BaseConfig) GetAuth() Auth {
	return a.Auth
}

func (a BaseConfig) GetPersistence() Persistence {
	return a.Persistence
}

func (a BaseConfig) GetServer() Server {
	return a.Server
}

type App struct {
	Name  string `json:"name" yaml:"name"`
	Debug bool   `json:"debug" yaml:"debug"`
}

func (a App) GetName() string {
	return a.Name
}

func (a App) GetDebug() bool {
	return a.Debug
}

// Auth configures session cookies, signed tokens and redirect handling
type Auth struct {
	SigningKey            string `json:"signing_key" yaml:"signing_key"`
	SessionKey            string `json:"session_key" yaml:"session_key"`
	TokenExpiration       int    `json:"token_expiration" yaml:"token_expiration"`
	ExtendedTokenDuration int    `json:"extended_token_duration" yaml:"extended_token_duration"`
	Issuer                string `json:"issuer" yaml:"issuer"`
	BaseURL               string `json:"base_url" yaml:"base_url"`
	RejectedRouteKey      string `json:"rejected_route_key" yaml:"rejected_route_key"`
	RejectedRouteDefault  string `json:"rejected_route_default" yaml:"rejected_route_default"`
}

func (a Auth) GetSigningKey() string {
	return a.SigningKey
}

func (a Auth) GetSessionKey() string {
	if a.SessionKey == "" {
		return "session"
	}
	return a.SessionKey
}

func (a Auth) GetTokenExpiration() int {
	return a.TokenExpiration
}

func (a Auth) GetExtendedTokenDuration() int {
	return a.ExtendedTokenDuration
}

func (a Auth) GetIssuer() string {
	if a.Issuer == "" {
		return "registration"
	}
	return a.Issuer
}

func (a Auth) GetBaseURL() string {
	return a.BaseURL
}

func (a Auth) GetRejectedRouteKey() string {
	if a.RejectedRouteKey == "" {
		return "rejected_route"
	}
	return a.RejectedRouteKey
}

func (a Auth) GetRejectedRouteDefault() string {
	if a.RejectedRouteDefault == "" {
		return "/"
	}
	return a.RejectedRouteDefault
}

// Persistence configures the database client
type Persistence struct {
	Debug                 bool   `json:"debug" yaml:"debug"`
	Driver                string `json:"driver" yaml:"driver"`
	Server                string `json:"server" yaml:"server"`
	Database              string `json:"database" yaml:"database"`
	Username              string `json:"username" yaml:"username"`
	Password              string `json:"password" yaml:"password"`
	DSN                   string `json:"dsn" yaml:"dsn"`
	PingTimeoutExpression string `json:"ping_timeout" yaml:"ping_timeout"`
}

func (p Persistence) GetDebug() bool {
	return p.Debug
}

func (p Persistence) GetDriver() string {
	return p.Driver
}

func (p Persistence) GetServer() string {
	return p.Server
}

func (p Persistence) GetDatabase() string {
	return p.Database
}

func (p Persistence) GetUsername() string {
	return p.Username
}

func (p Persistence) GetPassword() string {
	return p.Password
}

func (p Persistence) GetDSN() string {
	if p.DSN == "" {
		return "file::memory:?cache=shared"
	}
	return p.DSN
}

func (p Persistence) GetPingTimeout() time.Duration {
	if p.PingTimeoutExpression == "" {
		return time.Second * 5
	}
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}

// Server configures the HTTP listener
type Server struct {
	Address string `json:"address" yaml:"address"`
}

func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":8572"
	}
	return s.Address
}
