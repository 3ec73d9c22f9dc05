package logfields

import "go.uber.org/zap"

func Event(val string) zap.Field {
	return zap.String("event", val)
}

func Topic(val string) zap.Field {
	return zap.String("bus.topic", val)
}
