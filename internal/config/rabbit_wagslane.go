package config

import (
	"crypto/tls"
	"crypto/x509"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wagslane/go-rabbitmq"
)

func tlsConfig() *tls.Config {
	rootCAs, _ := x509.SystemCertPool()
	return &tls.Config{
		RootCAs:    rootCAs,
		MinVersion: tls.VersionTLS12,
	}
}

// Conexión administrada (reconexión automática)
func RabbitConn(mq MQConfig) (*rabbitmq.Conn, error) {
	cfg := rabbitmq.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(30 * time.Second),
	}
	if mq.TLS {
		cfg.TLSClientConfig = tlsConfig()
	}
	return rabbitmq.NewConn(
		mq.ConnString(),
		rabbitmq.WithConnectionOptionsConfig(cfg),
		rabbitmq.WithConnectionOptionsReconnectInterval(5*time.Second),
	)
}

// RabbitPublisher declares the durable topic exchange and returns a publisher
// with confirms on it. The caller closes both values.
func RabbitPublisher(mq MQConfig) (*rabbitmq.Conn, *rabbitmq.Publisher, error) {
	conn, err := RabbitConn(mq)
	if err != nil {
		return nil, nil, err
	}
	pub, err := rabbitmq.NewPublisher(
		conn,
		rabbitmq.WithPublisherOptionsExchangeName(mq.Exchange),
		rabbitmq.WithPublisherOptionsExchangeKind(amqp.ExchangeTopic),
		rabbitmq.WithPublisherOptionsExchangeDurable,
		rabbitmq.WithPublisherOptionsExchangeDeclare,
		rabbitmq.WithPublisherOptionsConfirm,
	)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, pub, nil
}
