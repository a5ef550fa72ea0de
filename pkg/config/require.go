package config

import (
	"log"
	"strings"
)

// Missing lists the required keys that are not set.
func (c Config) Missing() []string {
	var out []string
	if c.DatabaseURL == "" {
		out = append(out, "DATABASE_URL")
	}
	if len(c.JWTSecret) == 0 {
		out = append(out, "JWT_SECRET")
	}
	return out
}

func (c Config) MustValidate() {
	if missing := c.Missing(); len(missing) > 0 {
		log.Fatalf("missing required env %s", strings.Join(missing, ", "))
	}
}
