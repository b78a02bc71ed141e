package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-bmsd-camera-driver/bmsddriver"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	bmsddriver.INFOLogger.Println("bmsd: motor control app")

	settings, err := bmsddriver.LoadSettings()
	if err != nil {
		bmsddriver.ERRORLogger.Println(err)
		return 1
	}

	portName, err := bmsddriver.ReadPortIdentifier(settings.ConfigFile)
	if err != nil {
		bmsddriver.ERRORLogger.Printf("Error opening configuration: %v", err)
		return 1
	}

	table := bmsddriver.BuildCommandTable()

	transport, err := bmsddriver.OpenTransport(portName)
	if err != nil {
		bmsddriver.ERRORLogger.Println(err)
		return 1
	}
	defer transport.Close()

	stop := make(chan struct{}, 1)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		bmsddriver.RaiseStop(stop)
	}()

	var telemetry bmsddriver.Telemetry = bmsddriver.NopTelemetry{}
	if settings.MQTTBroker != "" {
		client, err := bmsddriver.NewMQTTClient(settings.MQTTBroker, settings.MQTTClientID)
		if err != nil {
			bmsddriver.WARNINGLogger.Printf("Telemetry disabled: %v", err)
		} else {
			mqttTelemetry, err := bmsddriver.NewMQTTTelemetry(client, settings.MQTTTopicPrefix, stop)
			if err != nil {
				bmsddriver.WARNINGLogger.Printf("Telemetry disabled: %v", err)
				client.Disconnect(bmsddriver.MQTT_DISCONNECT_QUIESCE_MS)
			} else {
				telemetry = mqttTelemetry
			}
		}
	}
	defer telemetry.Close()

	dispatcher := bmsddriver.NewDispatcher(table, transport)
	dispatcher.Bootstrap(bmsddriver.BOOTSTRAP_BURST_SIZE)

	camera, err := bmsddriver.OpenCamera(settings.CameraDevice)
	if err != nil {
		bmsddriver.ERRORLogger.Println(err)
		return 1
	}

	var display bmsddriver.Display = bmsddriver.HeadlessDisplay{}
	if !settings.Headless {
		display = bmsddriver.NewWindowDisplay()
	}
	defer display.Close()

	loop := &bmsddriver.Loop{
		Camera:     camera,
		Display:    display,
		Tracker:    bmsddriver.NewTracker(dispatcher, bmsddriver.FileSpeedLog{Path: settings.SpeedLog}, telemetry),
		Telemetry:  telemetry,
		Stop:       stop,
		Scale:      settings.CameraScale,
		ImageEvery: settings.MQTTImageEvery,
	}
	if err := loop.Run(); err != nil {
		bmsddriver.ERRORLogger.Println(err)
		return 1
	}

	bmsddriver.INFOLogger.Println("application terminated.")
	return 0
}
