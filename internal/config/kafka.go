package config

// Kafka is optional: without addresses catalog change events are not published.
type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES" envSeparator:","`
	Group     string   `env:"KAFKA_GROUP" envDefault:"techstore-catalog"`
}

func (k Kafka) Enabled() bool {
	return len(k.Addresses) > 0
}
