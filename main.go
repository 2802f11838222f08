package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/ledscene/rate"
	"github.com/matt-g-everett/ledscene/scene"
	"github.com/matt-g-everett/ledscene/stream"
)

type app struct {
	Config   stream.Config
	Client   mqtt.Client
	Streamer *stream.Streamer
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)
	defer a.Streamer.Stop()

	rateFunc, err := rate.ByName(a.Config.Scene.RateFunc)
	if err != nil {
		return err
	}

	for ctx.Err() == nil {
		s := scene.New(
			scene.WithFrameRate(a.Config.Scene.FrameRate),
			scene.WithRenderer(a.Streamer),
			scene.WithLogger(log.Default()),
		)
		if err := playShow(ctx, s, rateFunc); err != nil && ctx.Err() == nil {
			return err
		}
		log.Printf("Show finished after %.1fs, %d frames streamed", s.Time(), a.Streamer.Frames())
	}
	return nil
}

func main() {
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	a := newApp()
	config, err := stream.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	a.Config = config
	log.Printf("Config: %+v", a.Config.Scene)

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	a.Streamer, err = stream.NewStreamer(a.Config, a.Client)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := a.run(ctx); err != nil {
		log.Fatal(err)
	}
}
