package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	c := Load()

	if c.AppPort != "8080" {
		t.Fatalf("AppPort = %q", c.AppPort)
	}
	if c.SharePrice != 25 || c.MinContribution != 25 {
		t.Fatalf("share policy = %v / %v", c.SharePrice, c.MinContribution)
	}
	if !reflect.DeepEqual(c.RefinanceTerms, []int{6, 9, 12, 18, 24}) {
		t.Fatalf("terms = %v", c.RefinanceTerms)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHARE_PRICE", "10")
	t.Setenv("REFINANCE_TERMS", "12, 24")
	t.Setenv("MYSQL_HOST", "db.internal")

	c := Load()
	if c.SharePrice != 10 {
		t.Fatalf("SharePrice = %v", c.SharePrice)
	}
	// MinContribution follows the share price unless set explicitly.
	if c.MinContribution != 10 {
		t.Fatalf("MinContribution = %v", c.MinContribution)
	}
	if !reflect.DeepEqual(c.RefinanceTerms, []int{12, 24}) {
		t.Fatalf("terms = %v", c.RefinanceTerms)
	}
	if c.MySQLHost != "db.internal" {
		t.Fatalf("MySQLHost = %q", c.MySQLHost)
	}
}

func TestParseTerms_SkipsJunk(t *testing.T) {
	if got := parseTerms("6,abc,-3,0, 12 "); !reflect.DeepEqual(got, []int{6, 12}) {
		t.Fatalf("parseTerms = %v", got)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing mysql host", func(c *Config) { c.MySQLHost = "" }},
		{"bad mysql port", func(c *Config) { c.MySQLPort = "not-a-port" }},
		{"zero share price", func(c *Config) { c.SharePrice = 0 }},
		{"no refinance terms", func(c *Config) { c.RefinanceTerms = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Load()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{
		MySQLHost: "localhost", MySQLPort: "3306",
		MySQLDB: "watershed", MySQLUser: "app", MySQLPass: "secret",
	}
	want := "app:secret@tcp(localhost:3306)/watershed?multiStatements=true&parseTime=true&charset=utf8mb4,utf8"
	if got := c.MySQLDSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}
