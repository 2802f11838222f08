package stream_test

import (
	"errors"
	"testing"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/ledscene/mobject"
	"github.com/matt-g-everett/ledscene/stream"
)

type doneToken struct {
	err error
}

func (t *doneToken) Wait() bool                     { return true }
func (t *doneToken) WaitTimeout(time.Duration) bool { return true }
func (t *doneToken) Error() error                   { return t.err }

func (t *doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeClient struct {
	sent []published
	err  error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return &doneToken{err: c.err}
}

func testConfig() stream.Config {
	c := stream.DefaultConfig()
	c.Scene.Pixels = 4
	c.Scene.Realtime = false
	return c
}

func TestStreamerPublishesFrames(t *testing.T) {
	client := new(fakeClient)
	s, err := stream.NewStreamer(testConfig(), client)
	require.NoError(t, err)
	defer s.Stop()

	dot := mobject.New("dot", mobject.Point{X: 0})
	require.NoError(t, s.Render(0.1, []*mobject.Mobject{dot}))
	require.NoError(t, s.Render(0.2, nil))
	assert.Equal(t, 2, s.Frames())

	require.Len(t, client.sent, 2)
	assert.Equal(t, "home/xmastree/stream", client.sent[0].topic)
	assert.Equal(t, byte(2), client.sent[0].qos)
	assert.Len(t, client.sent[0].payload, 2+4*3)
	assert.Equal(t, []byte{255, 255, 255}, client.sent[0].payload[2:5])
	// The background is #000005.
	assert.Equal(t, []byte{0, 0, 5}, client.sent[1].payload[2:5])
}

func TestStreamerPublishError(t *testing.T) {
	client := &fakeClient{err: errors.New("not connected")}
	s, err := stream.NewStreamer(testConfig(), client)
	require.NoError(t, err)
	err = s.Render(1.5, nil)
	assert.ErrorIs(t, err, client.err)
	assert.ErrorContains(t, err, "1.500s")
	assert.Equal(t, 0, s.Frames())
}

func TestStreamerRealtime(t *testing.T) {
	c := testConfig()
	c.Scene.Realtime = true
	c.Scene.FrameRate = 1000
	client := new(fakeClient)
	s, err := stream.NewStreamer(c, client)
	require.NoError(t, err)
	defer s.Stop()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Render(float64(i), nil))
	}
	assert.Len(t, client.sent, 3)
}

func TestStreamerBadBackground(t *testing.T) {
	c := testConfig()
	c.Scene.Background = "navy"
	_, err := stream.NewStreamer(c, new(fakeClient))
	assert.ErrorContains(t, err, "scene.background")
}
