package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port                    int      `yaml:"port"`
	JwtExpireInMins         int      `yaml:"jwt_expire_in_mins"`
	VerificationExpireMins  int      `yaml:"verification_code_expire_in_mins"`
	MaxVerificationAttempts int      `yaml:"max_verification_attempts"`
	CookieDomain            string   `yaml:"cookie_domain"`
	SecureCookies           bool     `yaml:"secure_cookies"`
	ExposeCodeInResponse    bool     `yaml:"expose_code_in_response"`
	AllowedOrigins          []string `yaml:"allowed_origins"`
	LogLevel                string   `yaml:"log_level"`
	LogJSON                 bool     `yaml:"log_json"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
	Email  Email  `yaml:"email"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return time.Duration(c.Public.JwtExpireInMins) * time.Minute
}

// VerificationTTL is the expiry window for forgot-password codes.
// Registration codes use their own fixed window, see service.
func (c *Config) VerificationTTL() time.Duration {
	return time.Duration(c.Public.VerificationExpireMins) * time.Minute
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder and panics on
// any missing file or required field. The result is read-only after startup;
// components receive it by injection and never reload it.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.mustValidate()
	return cfg
}

func (c *Config) mustValidate() {
	switch {
	case c.Public.Port == 0:
		panic("config: port is required")
	case c.Public.JwtExpireInMins <= 0:
		panic("config: jwt_expire_in_mins must be positive")
	case c.Public.VerificationExpireMins <= 0:
		panic("config: verification_code_expire_in_mins must be positive")
	case c.Public.MaxVerificationAttempts <= 0:
		panic("config: max_verification_attempts must be positive")
	case c.Private.JwtKey == "":
		panic("config: jwt_key is required")
	}
}
