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
//	-token-duration token duration (e.g., "1h", "30m")
//	-session-ttl login session TTL (e.g., "10m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-dimension embedding vector dimension
//	-threshold minimum similarity for identification
//	-duplicate-threshold similarity treated as a duplicate face
//	-area default attendance area label
//	-max-shift maximum open-record duration before the sweeper closes it
//	-sweep-at time of day ("HH:MM") the sweeper runs
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var sessionTTL time.Duration
	var requestTimeout time.Duration
	var dimension int
	var threshold float64
	var duplicateThreshold float64
	var area string
	var maxShift time.Duration
	var sweepAt string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.DurationVar(&sessionTTL, "session-ttl", 0, "Login session TTL (e.g., 10m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.IntVar(&dimension, "dimension", 0, "Embedding vector dimension")
	flag.Float64Var(&threshold, "threshold", 0, "Minimum similarity for identification")
	flag.Float64Var(&duplicateThreshold, "duplicate-threshold", 0, "Similarity treated as a duplicate face")
	flag.StringVar(&area, "area", "", "Default attendance area")
	flag.DurationVar(&maxShift, "max-shift", 0, "Maximum open-record duration")
	flag.StringVar(&sweepAt, "sweep-at", "", "Sweeper time of day (HH:MM)")

	flag.Parse()

	return &StructuredConfig{
		Auth: Auth{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			SessionTTL:    sessionTTL,
		},
		Recognition: Recognition{
			Dimension:          dimension,
			Threshold:          threshold,
			DuplicateThreshold: duplicateThreshold,
		},
		Attendance: Attendance{
			DefaultArea:      area,
			MaxShiftDuration: maxShift,
			SweepAt:          sweepAt,
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
