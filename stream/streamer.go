package stream

import (
	"fmt"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledscene/mobject"
)

// Publisher is the part of an MQTT client the Streamer needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Streamer renders scene frames and streams them as RGB data to an ledrx
// device over MQTT.
type Streamer struct {
	client     Publisher
	topic      string
	pixels     int
	background colorful.Color
	ticker     *time.Ticker
	frames     int
}

// NewStreamer creates a Streamer from config. With config.Scene.Realtime set
// it publishes at most one frame per frame period.
func NewStreamer(config Config, client Publisher) (*Streamer, error) {
	background, err := colorful.Hex(config.Scene.Background)
	if err != nil {
		return nil, fmt.Errorf("scene.background: %w", err)
	}

	s := new(Streamer)
	s.client = client
	s.topic = config.Mqtt.Topics.Stream
	s.pixels = config.Scene.Pixels
	s.background = background
	if config.Scene.Realtime {
		period := time.Duration(float64(time.Second) / config.Scene.FrameRate)
		s.ticker = time.NewTicker(period)
	}
	return s, nil
}

// Frame rasterizes mobs onto a fresh frame.
func (s *Streamer) Frame(mobs []*mobject.Mobject) *Frame {
	f := NewFrame(s.pixels, s.background)
	f.Draw(mobs)
	return f
}

// Render sends the frame for mobs as binary over MQTT. It implements
// scene.Renderer.
func (s *Streamer) Render(t float64, mobs []*mobject.Mobject) error {
	b, err := s.Frame(mobs).MarshalBinary()
	if err != nil {
		return err
	}
	if s.ticker != nil {
		<-s.ticker.C
	}

	token := s.client.Publish(s.topic, 2, false, b)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish frame at %.3fs: %w", t, err)
	}
	s.frames++
	return nil
}

// Frames returns the number of frames published.
func (s *Streamer) Frames() int {
	return s.frames
}

// Stop releases the frame pacing ticker.
func (s *Streamer) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
}
