package stream

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

// Config is read from YAML and then overridden from the environment.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url" env:"LEDSCENE_MQTT_URL"`
		Username string `yaml:"username" env:"LEDSCENE_MQTT_USERNAME"`
		Password string `yaml:"password" env:"LEDSCENE_MQTT_PASSWORD"`
		ClientID string `yaml:"clientID" env:"LEDSCENE_MQTT_CLIENT_ID"`
		Topics   struct {
			Stream string `yaml:"stream" env:"LEDSCENE_MQTT_TOPIC_STREAM"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Scene struct {
		FrameRate  float64 `yaml:"frameRate" env:"LEDSCENE_FRAME_RATE"`
		Pixels     int     `yaml:"pixels" env:"LEDSCENE_PIXELS"`
		Background string  `yaml:"background" env:"LEDSCENE_BACKGROUND"`
		RateFunc   string  `yaml:"rateFunc" env:"LEDSCENE_RATE_FUNC"`
		Realtime   bool    `yaml:"realtime" env:"LEDSCENE_REALTIME"`
	} `yaml:"scene"`
}

// DefaultConfig returns the settings used for anything the file and the
// environment leave unset.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.ClientID = "ledscene"
	c.Mqtt.Topics.Stream = "home/xmastree/stream"
	c.Scene.FrameRate = 30
	c.Scene.Pixels = 500
	c.Scene.Background = "#000005"
	c.Scene.RateFunc = "smooth"
	c.Scene.Realtime = true
	return c
}

// LoadConfig reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return c, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&c); err != nil {
			return c, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	if c.Scene.FrameRate <= 0 {
		return c, fmt.Errorf("scene.frameRate must be > 0, got %v", c.Scene.FrameRate)
	}
	if c.Scene.Pixels <= 0 || c.Scene.Pixels > 0xffff {
		return c, fmt.Errorf("scene.pixels must be in [1, 65535], got %d", c.Scene.Pixels)
	}
	return c, nil
}
