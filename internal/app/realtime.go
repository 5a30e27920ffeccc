package app

import "github.com/uptrack-app/uptrack/internal/realtime"

var globalHub *realtime.Hub

func InitRealtimeHub() {
	globalHub = realtime.NewHub(globalLogger)
	globalLogger.Info().Msg("initialized realtime hub")
}
