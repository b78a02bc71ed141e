package bmsddriver

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"gocv.io/x/gocv"
)

// fakePort replays scripted reads; an exhausted script behaves like a read timeout.
type fakePort struct {
	written     [][]byte
	reads       [][]byte
	writeErr    error
	shortWrite  bool
	readTimeout time.Duration
	timeoutErr  error
	closed      bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, nil
	}
	n := copy(b, p.reads[0])
	if n < len(p.reads[0]) {
		p.reads[0] = p.reads[0][n:]
	} else {
		p.reads = p.reads[1:]
	}
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.written = append(p.written, append([]byte(nil), b...))
	if p.shortWrite {
		return len(b) - 1, nil
	}
	return len(b), nil
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.readTimeout = t
	return p.timeoutErr
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

type recordingPoller struct {
	polled []Command
}

func (p *recordingPoller) Poll(cmd Command) ([]byte, error) {
	p.polled = append(p.polled, cmd)
	return nil, nil
}

type memorySpeedLog struct {
	events []EdgeEvent
	err    error
}

func (l *memorySpeedLog) Append(event EdgeEvent) error {
	l.events = append(l.events, event)
	return l.err
}

type recordingTelemetry struct {
	edges  []EdgeMessage
	frames int
}

func (t *recordingTelemetry) PublishEdge(event EdgeEvent, cursor int) error {
	t.edges = append(t.edges, EdgeMessage{EdgeEvent: event, Cursor: cursor})
	return nil
}

func (t *recordingTelemetry) PublishFrame(gocv.Mat) error {
	t.frames++
	return nil
}

func (t *recordingTelemetry) Close() {}

// steppingClock returns a time step later on every call.
type steppingClock struct {
	t    time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testTable(n int) CommandTable {
	commands := make([]Command, n)
	for i := range commands {
		commands[i] = SweepCommand(byte(2 * i))
	}
	return CommandTable{commands: commands}
}

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type publishedMessage struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeMQTTClient struct {
	mqtt.Client
	published     []publishedMessage
	subscriptions map[string]mqtt.MessageHandler
	subscribeErr  error
	disconnected  bool
}

func newFakeMQTTClient() *fakeMQTTClient {
	return &fakeMQTTClient{subscriptions: map[string]mqtt.MessageHandler{}}
}

func (c *fakeMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.published = append(c.published, publishedMessage{topic: topic, qos: qos, payload: payload.([]byte)})
	return &fakeToken{}
}

func (c *fakeMQTTClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	if c.subscribeErr != nil {
		return &fakeToken{err: c.subscribeErr}
	}
	c.subscriptions[topic] = callback
	return &fakeToken{}
}

func (c *fakeMQTTClient) Disconnect(quiesce uint) {
	c.disconnected = true
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

// fakeFrames yields uniform frames of the given brightness.
type fakeFrames struct {
	brightness []int
	w, h       int
	next       int
	closed     int
}

func (f *fakeFrames) Read(mat *gocv.Mat) bool {
	if f.next >= len(f.brightness) {
		return false
	}
	v := float64(f.brightness[f.next])
	f.next++

	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), f.h, f.w, gocv.MatTypeCV8UC3)
	defer src.Close()
	src.CopyTo(mat)
	return true
}

func (f *fakeFrames) Close() error {
	f.closed++
	return nil
}

type fakeDisplay struct {
	shown  int
	quitAt int
}

func (d *fakeDisplay) Show(gocv.Mat) int {
	d.shown++
	if d.quitAt > 0 && d.shown >= d.quitAt {
		return STOP_KEY
	}
	return NO_KEY
}

func (d *fakeDisplay) Close() error { return nil }
