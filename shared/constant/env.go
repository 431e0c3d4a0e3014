package constant

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	EventBrokerKafka    = "kafka"
	EventBrokerRabbitMQ = "rabbitmq"
)
