package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/kbukum/streamkit/errors"
)

// NewDialer builds a kafka-go dialer with optional TLS and SASL.
func NewDialer(cfg *Config) (*kafkago.Dialer, error) {
	dialer := &kafkago.Dialer{
		Timeout:   cfg.DialTimeout,
		DualStack: true,
	}

	if cfg.EnableTLS {
		tc, err := tlsConfig(cfg)
		if err != nil {
			return nil, err
		}
		dialer.TLS = tc
	}
	if cfg.EnableSASL {
		m, err := saslMechanism(cfg)
		if err != nil {
			return nil, err
		}
		dialer.SASLMechanism = m
	}
	return dialer, nil
}

func tlsConfig(cfg *Config) (*tls.Config, error) {
	tc := &tls.Config{
		InsecureSkipVerify: cfg.TLSSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}

	if cfg.TLSCAFile != "" {
		pem, err := os.ReadFile(cfg.TLSCAFile)
		if err != nil {
			return nil, errors.InvalidConfig("cannot read kafka CA file").WithCause(err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.InvalidConfig("kafka CA file holds no PEM certificate")
		}
		tc.RootCAs = pool
	}

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, errors.InvalidConfig("cannot load kafka client certificate").WithCause(err)
		}
		tc.Certificates = []tls.Certificate{cert}
	}
	return tc, nil
}

func saslMechanism(cfg *Config) (sasl.Mechanism, error) {
	var (
		m   sasl.Mechanism
		err error
	)
	switch cfg.SASLMechanism {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		m, err = scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		m, err = scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, errors.InvalidConfig("unsupported SASL mechanism " + cfg.SASLMechanism)
	}
	if err != nil {
		return nil, errors.InvalidConfig("cannot build SASL mechanism").WithCause(err)
	}
	return m, nil
}
