package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-access-token-ttl access token lifetime (e.g., "24h")
//	-refresh-token-ttl refresh token lifetime (e.g., "168h")
//	-hash-iterations PBKDF2 iteration count
//	-lockout-threshold consecutive failures before lockout
//	-lockout-duration lock window duration (e.g., "15m")
//	-request-timeout request timeout (e.g., "30s")
//	-audit-webhook-url audit collector endpoint
//	-production enable production-mode safety checks
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var accessTokenTTL time.Duration
	var refreshTokenTTL time.Duration
	var hashIterations int
	var lockoutThreshold int
	var lockoutDuration time.Duration
	var requestTimeout time.Duration
	var auditWebhookURL string
	var production bool

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&accessTokenTTL, "access-token-ttl", 0, "Access token lifetime (e.g., 24h)")
	flag.DurationVar(&refreshTokenTTL, "refresh-token-ttl", 0, "Refresh token lifetime (e.g., 168h)")
	flag.IntVar(&hashIterations, "hash-iterations", 0, "PBKDF2 iteration count")
	flag.IntVar(&lockoutThreshold, "lockout-threshold", 0, "Consecutive failures before lockout")
	flag.DurationVar(&lockoutDuration, "lockout-duration", 0, "Lock window duration (e.g., 15m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s)")
	flag.StringVar(&auditWebhookURL, "audit-webhook-url", "", "Audit collector endpoint")
	flag.BoolVar(&production, "production", false, "Enable production-mode safety checks")

	flag.Parse()

	return &StructuredConfig{
		Auth: Auth{
			TokenSignKey:    tokenSignKey,
			TokenIssuer:     tokenIssuer,
			AccessTokenTTL:  accessTokenTTL,
			RefreshTokenTTL: refreshTokenTTL,
			HashIterations:  hashIterations,
		},
		Lockout: Lockout{
			Threshold: lockoutThreshold,
			Duration:  lockoutDuration,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Audit: Audit{
			WebhookURL: auditWebhookURL,
		},
		Production:   production,
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
