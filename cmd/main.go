package main

import "github.com/uptrack-app/uptrack/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.MustInitMailer()
	app.InitRealtimeHub()

	app.MustListenAndServeHTTP()
}
