package kafka_client

import "github.com/spacesedan/reviewpulse/config"

type KafkaConfig struct {
	Broker       string
	GroupID      string
	Topic        string
	ResultsTopic string
}

func FromConfig(cfg config.KafkaConfig) KafkaConfig {
	return KafkaConfig{
		Broker:       cfg.Broker,
		GroupID:      cfg.GroupID,
		Topic:        cfg.InputTopic,
		ResultsTopic: cfg.ResultsTopic,
	}
}
