package export

import (
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/quantumtrio/kptsignal/internal/models"
)

// KafkaOutput publishes one message per dataset row. Topics are prefixed
// with kafka_topic_prefix so several environments can share a cluster.
type KafkaOutput struct {
	producer    sarama.SyncProducer
	topicPrefix string
}

func NewKafkaOutput(cfg *models.Config) (*KafkaOutput, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokerList := strings.Split(cfg.KafkaBrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, eris.Wrap(err, "create Sarama producer")
	}

	zap.L().Info("sarama producer created", zap.Strings("brokers", brokerList))
	return &KafkaOutput{producer: producer, topicPrefix: cfg.KafkaTopicPrefix}, nil
}

func (k *KafkaOutput) WriteMessage(topic string, msg []byte) error {
	if k.producer == nil {
		return eris.New("sarama producer is not initialized")
	}

	full := topic
	if k.topicPrefix != "" {
		full = k.topicPrefix + "_" + topic
	}
	_, _, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: full,
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		return eris.Wrapf(err, "send message to topic %s", full)
	}
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer != nil {
		return k.producer.Close()
	}
	return nil
}
