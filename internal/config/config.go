package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Monetary policy (deployment-time configuration, not code).
	SharePrice          float64
	MinContribution     float64
	FundingDeadlineDays int
	DefaultGraceDays    int
	RefinanceMinBalance float64
	RefinanceFeePct     float64
	RefinanceMinFee     float64
	RefinanceTerms      []int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "watershed"),
		MySQLUser: getenv("MYSQL_USER", "watershed"),
		MySQLPass: getenv("MYSQL_PASS", "watershed"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		SharePrice:          getenvFloat("SHARE_PRICE", 25),
		FundingDeadlineDays: getenvInt("FUNDING_DEADLINE_DAYS", 30),
		DefaultGraceDays:    getenvInt("DEFAULT_GRACE_DAYS", 30),
		RefinanceMinBalance: getenvFloat("REFINANCE_MIN_BALANCE", 100),
		RefinanceFeePct:     getenvFloat("REFINANCE_FEE_PERCENT", 0.01),
		RefinanceMinFee:     getenvFloat("REFINANCE_MIN_FEE", 5),
		RefinanceTerms:      parseTerms(getenv("REFINANCE_TERMS", "6,9,12,18,24")),
	}
	// The minimum contribution defaults to one share.
	c.MinContribution = getenvFloat("MIN_CONTRIBUTION", c.SharePrice)
	return c
}

func parseTerms(raw string) []int {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.SharePrice <= 0 {
		return errors.New("SHARE_PRICE must be positive")
	}
	if c.MinContribution <= 0 {
		return errors.New("MIN_CONTRIBUTION must be positive")
	}
	if c.RefinanceFeePct < 0 || c.RefinanceMinFee < 0 {
		return errors.New("refinance fee config must not be negative")
	}
	if len(c.RefinanceTerms) == 0 {
		return errors.New("REFINANCE_TERMS must list at least one term")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
