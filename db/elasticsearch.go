package db

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
)

// Bulk indexer tuning shared by the feed worker and careerctl
const NUM_WORKERS = 5
const FLUSH_BYTES = 5000000
const FLUSH_INTERVAL = time.Second * 30

const ES_MAX_RETRIES = 5

type EsConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Secure   bool
	// PEM file with the cluster CA, added to the system roots
	CACertFile string
	// Only for local clusters with self signed certificates
	SkipVerify bool
}

func (c EsConfig) address() string {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
}

func esTLSConfig(c EsConfig) (*tls.Config, error) {
	if !c.Secure {
		return nil, nil
	}
	config := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: c.SkipVerify,
	}
	if c.CACertFile == "" {
		return config, nil
	}
	pem, err := os.ReadFile(c.CACertFile)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch ca: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("elasticsearch ca: no certificate in %s", c.CACertFile)
	}
	config.RootCAs = pool
	return config, nil
}

func NewConnectionEs(esConfig EsConfig) (*elasticsearch.Client, error) {
	if esConfig.Host == "" {
		return nil, fmt.Errorf("elasticsearch host is not configured")
	}
	tlsConfig, err := esTLSConfig(esConfig)
	if err != nil {
		return nil, err
	}
	retry := backoff.NewExponentialBackOff()

	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esConfig.address()},
		Username:  esConfig.Username,
		Password:  esConfig.Password,
		Transport: &http.Transport{
			MaxIdleConns:          10,
			ResponseHeaderTimeout: time.Second * 2,
			TLSClientConfig:       tlsConfig,
		},
		RetryOnStatus: []int{
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
			http.StatusTooManyRequests,
		},
		RetryBackoff: func(attempt int) time.Duration {
			if attempt == 1 {
				retry.Reset()
			}
			return retry.NextBackOff()
		},
		MaxRetries: ES_MAX_RETRIES,
	})
}
