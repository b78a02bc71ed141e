package bmsddriver

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestMQTTTelemetryControl(t *testing.T) {
	client := newFakeMQTTClient()
	stop := make(chan struct{}, 1)

	_, err := NewMQTTTelemetry(client, "bmsd", stop)
	require.NoError(t, err)

	handler, ok := client.subscriptions["bmsd/control"]
	require.True(t, ok, "control topic must be subscribed")

	handler(client, &fakeMessage{topic: "bmsd/control", payload: []byte("start")})
	assert.Len(t, stop, 0, "unknown payloads are ignored")

	handler(client, &fakeMessage{topic: "bmsd/control", payload: []byte(" STOP\n")})
	assert.Len(t, stop, 1)

	// a second stop does not block the client goroutine
	handler(client, &fakeMessage{topic: "bmsd/control", payload: []byte("stop")})
	assert.Len(t, stop, 1)
}

func TestMQTTTelemetryWithoutStop(t *testing.T) {
	client := newFakeMQTTClient()

	_, err := NewMQTTTelemetry(client, "bmsd", nil)
	require.NoError(t, err)
	assert.Empty(t, client.subscriptions)
}

func TestMQTTTelemetrySubscribeFailure(t *testing.T) {
	client := newFakeMQTTClient()
	client.subscribeErr = errors.New("not authorized")

	_, err := NewMQTTTelemetry(client, "bmsd", make(chan struct{}, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bmsd/control")
}

func TestMQTTTelemetryPublishEdge(t *testing.T) {
	client := newFakeMQTTClient()
	telemetry, err := NewMQTTTelemetry(client, "rig1", nil)
	require.NoError(t, err)

	event := EdgeEvent{Entry: testEpoch, ElapsedMs: 200, Omega: 7.854}
	require.NoError(t, telemetry.PublishEdge(event, 42))

	require.Len(t, client.published, 1)
	msg := client.published[0]
	assert.Equal(t, "rig1/edges", msg.topic)

	var decoded struct {
		Entry     time.Time `json:"entry"`
		ElapsedMs int64     `json:"elapsed_ms"`
		Omega     float64   `json:"omega"`
		Cursor    int       `json:"cursor"`
	}
	require.NoError(t, json.Unmarshal(msg.payload, &decoded))
	assert.True(t, testEpoch.Equal(decoded.Entry))
	assert.Equal(t, int64(200), decoded.ElapsedMs)
	assert.Equal(t, 7.854, decoded.Omega)
	assert.Equal(t, 42, decoded.Cursor)
}

func TestMQTTTelemetryPublishFrame(t *testing.T) {
	client := newFakeMQTTClient()
	telemetry, err := NewMQTTTelemetry(client, "bmsd", nil)
	require.NoError(t, err)

	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), 16, 16, gocv.MatTypeCV8UC3)
	defer mat.Close()

	require.NoError(t, telemetry.PublishFrame(mat))

	require.Len(t, client.published, 1)
	assert.Equal(t, "bmsd/images/overlay", client.published[0].topic)

	jpeg, err := base64.StdEncoding.DecodeString(string(client.published[0].payload))
	require.NoError(t, err)
	require.Greater(t, len(jpeg), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, jpeg[:2])
}

func TestMQTTTelemetryClose(t *testing.T) {
	client := newFakeMQTTClient()
	telemetry, err := NewMQTTTelemetry(client, "bmsd", nil)
	require.NoError(t, err)

	telemetry.Close()
	assert.True(t, client.disconnected)
}
