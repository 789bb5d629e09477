package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// PingBrokers dials brokers in order until one answers a metadata request
// listing every topic in topics. It backs the readiness probe.
func PingBrokers(ctx context.Context, brokers []string, topics ...string) error {
	if len(brokers) == 0 {
		return errors.New("kafka: no brokers configured")
	}

	var errs []error
	for _, addr := range brokers {
		err := checkBroker(ctx, addr, topics)
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", addr, err))
	}
	return fmt.Errorf("kafka not ready: %w", errors.Join(errs...))
}

func checkBroker(ctx context.Context, addr string, topics []string) error {
	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if len(topics) == 0 {
		_, err = conn.Brokers()
		return err
	}
	partitions, err := conn.ReadPartitions(topics...)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(topics))
	for _, p := range partitions {
		seen[p.Topic] = true
	}
	for _, t := range topics {
		if !seen[t] {
			return fmt.Errorf("topic %s missing", t)
		}
	}
	return nil
}
