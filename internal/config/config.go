package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration and offset settings
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	CleanupBuffer  time.Duration  // turnaround time appended after each reservation
	FallbackTZ     *time.Location // offset assumed for naive timestamps; nil refuses them
	ReportLocation *time.Location // offset the availability grid is rendered in

	AMQPURL  string // RabbitMQ connection URL ("" disables notifications)
	MailAPI  string // mail provider endpoint URL
	MailKey  string // mail provider API key ("" logs instead of sending)
	MailFrom string // From address for notification emails
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),      // environment (dev/test/prod)
		Port:           must("APP_PORT"),     // port to bind the HTTP server
		DBUser:         must("DB_USER"),      // database user
		DBPass:         os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:         must("DB_HOST"),      // database host
		DBPort:         must("DB_PORT"),      // database port
		DBName:         must("DB_NAME"),      // database name
		JWTSecret:      must("JWT_SECRET"),   // secret used for signing JWTs
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		BcryptCost:     mustInt("BCRYPT_COST"),            // bcrypt cost factor

		CleanupBuffer:  envDur("CLEANUP_BUFFER", time.Hour),
		FallbackTZ:     envOffset("FALLBACK_TZ_OFFSET", nil),
		ReportLocation: envOffset("REPORT_TZ_OFFSET", time.FixedZone("", -5*3600)),

		AMQPURL:  os.Getenv("RABBITMQ_URL"),
		MailAPI:  envStr("MAIL_API_URL", "https://api.resend.com/emails"),
		MailKey:  os.Getenv("MAIL_API_KEY"),
		MailFrom: envStr("MAIL_FROM", "bookings@localhost"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// envOffset parses a "+HH:MM"/"-HH:MM" UTC offset into a fixed
// location.  Unset returns the default; a malformed value is fatal so
// a typo cannot silently shift every rendered slot.
func envOffset(key string, def *time.Location) *time.Location {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	t, err := time.Parse("-07:00", v)
	if err != nil {
		log.Fatalf("invalid UTC offset for %s: %q", key, v)
	}
	_, secs := t.Zone()
	return time.FixedZone("", secs)
}
