package bmsddriver

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

const (
	MQTT_EDGES_TOPIC   = "edges"
	MQTT_IMAGE_TOPIC   = "images/overlay"
	MQTT_CONTROL_TOPIC = "control"

	MQTT_STOP_PAYLOAD = "stop"

	MQTT_DISCONNECT_QUIESCE_MS = 250
)

// Telemetry receives measurements and frames as the loop runs.
type Telemetry interface {
	PublishEdge(event EdgeEvent, cursor int) error
	PublishFrame(mat gocv.Mat) error
	Close()
}

// NopTelemetry is used when no broker is configured.
type NopTelemetry struct{}

func (NopTelemetry) PublishEdge(EdgeEvent, int) error { return nil }
func (NopTelemetry) PublishFrame(gocv.Mat) error      { return nil }
func (NopTelemetry) Close()                           {}

type EdgeMessage struct {
	EdgeEvent
	Cursor int `json:"cursor"`
}

var defaultPublishHandler mqtt.MessageHandler = func(client mqtt.Client, msg mqtt.Message) {
	DEBUGLogger.Printf("TOPIC: %s MSG: %s", msg.Topic(), msg.Payload())
}

func NewMQTTClient(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	opts.SetKeepAlive(2 * time.Second)
	opts.SetDefaultPublishHandler(defaultPublishHandler)
	opts.SetPingTimeout(1 * time.Second)

	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "connecting to %s", broker)
	}
	INFOLogger.Printf("Connected to MQTT broker %s as %s", broker, clientID)
	return c, nil
}

type MQTTTelemetry struct {
	client mqtt.Client
	prefix string
}

// NewMQTTTelemetry publishes under prefix. When stop is not nil a "stop"
// message on <prefix>/control raises it.
func NewMQTTTelemetry(client mqtt.Client, prefix string, stop chan<- struct{}) (*MQTTTelemetry, error) {
	t := &MQTTTelemetry{client: client, prefix: prefix}

	if stop != nil {
		topic := t.topic(MQTT_CONTROL_TOPIC)
		if token := client.Subscribe(topic, 1, controlHandler(stop)); token.Wait() && token.Error() != nil {
			return nil, errors.Wrapf(token.Error(), "subscribing to %s", topic)
		}
	}
	return t, nil
}

func controlHandler(stop chan<- struct{}) mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		payload := strings.TrimSpace(string(msg.Payload()))
		if !strings.EqualFold(payload, MQTT_STOP_PAYLOAD) {
			WARNINGLogger.Printf("Ignoring control message on %s: %q", msg.Topic(), payload)
			return
		}
		INFOLogger.Printf("Stop requested over %s", msg.Topic())
		RaiseStop(stop)
	}
}

func (t *MQTTTelemetry) topic(name string) string {
	return t.prefix + "/" + name
}

func (t *MQTTTelemetry) PublishEdge(event EdgeEvent, cursor int) error {
	return publishJsonMsg(t.topic(MQTT_EDGES_TOPIC), EdgeMessage{EdgeEvent: event, Cursor: cursor}, t.client)
}

func (t *MQTTTelemetry) PublishFrame(mat gocv.Mat) error {
	return publishImage(t.topic(MQTT_IMAGE_TOPIC), mat, t.client)
}

func (t *MQTTTelemetry) Close() {
	t.client.Disconnect(MQTT_DISCONNECT_QUIESCE_MS)
}

func publishImage(topic string, mat gocv.Mat, mqttClient mqtt.Client) error {
	// Publish image (jpg/base64)
	imgBuf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return errors.Wrap(err, "encoding frame")
	}
	defer imgBuf.Close()

	imgBytes := imgBuf.GetBytes()
	b64bytes := make([]byte, base64.StdEncoding.EncodedLen(len(imgBytes)))
	base64.StdEncoding.Encode(b64bytes, imgBytes)
	mqttClient.Publish(topic, 0, false, b64bytes)
	return nil
}

func publishJsonMsg(topic string, obj interface{}, mqttClient mqtt.Client) error {
	msg, err := json.Marshal(obj)
	if err != nil {
		return errors.Wrapf(err, "marshalling message for %s", topic)
	}
	mqttClient.Publish(topic, 1, false, msg)
	return nil
}
