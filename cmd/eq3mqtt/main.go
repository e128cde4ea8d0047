// eq3mqtt bridges one EQ3 Bluetooth radiator thermostat to an MQTT broker.
// It polls the device on a fixed interval, publishes the state as retained
// JSON, and accepts set commands over MQTT.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/chaz8081/eq3go/internal/ble"
	"github.com/chaz8081/eq3go/internal/config"
	"github.com/chaz8081/eq3go/internal/thermostat"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "Config file path")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if env := os.Getenv("EQ3_MAC"); env != "" {
		cfg.MAC = env
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker must be set for the bridge")
	}
	setupLogging(cfg.LogLevel)

	if cfg.Adapter != "" && cfg.Adapter != "hci0" {
		slog.Warn("adapter selection is best-effort, using the default adapter", "requested", cfg.Adapter)
	}

	adapter := ble.NewNativeAdapter()
	if err := adapter.Enable(); err != nil {
		return fmt.Errorf("enabling bluetooth: %w", err)
	}
	conn := ble.NewConn(adapter, cfg.MAC, time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer conn.Close()

	bridge := &bridge{
		dev:   thermostat.New(conn),
		topic: topicBase(cfg.MQTT.TopicPrefix, cfg.MAC),
		poll:  time.Duration(cfg.MQTT.PollIntervalSeconds) * time.Second,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.Broker)
	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.SetClientID("eq3mqtt-" + strings.ReplaceAll(cfg.MAC, ":", ""))
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		slog.Info("connected to mqtt broker", "broker", cfg.MQTT.Broker)
		c.Subscribe(bridge.topic+"/set/+", 0, bridge.handleSet)
	})

	bridge.client = mqtt.NewClient(opts)
	if token := bridge.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to mqtt broker: %w", token.Error())
	}
	defer bridge.client.Disconnect(250)

	slog.Info("bridge started", "device", cfg.MAC, "topic", bridge.topic, "poll", bridge.poll)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return bridge.loop(ctx)
}

func setupLogging(level string) {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// topicBase builds "<prefix>/<device>" with the address normalized so the
// topic contains no separators that trip MQTT wildcard matching.
func topicBase(prefix, mac string) string {
	device := strings.ToLower(strings.ReplaceAll(mac, ":", ""))
	return prefix + "/" + device
}

type bridge struct {
	dev    *thermostat.Thermostat
	client mqtt.Client
	topic  string
	poll   time.Duration
}

// stateMessage is the retained JSON document published after every poll and
// every accepted command.
type stateMessage struct {
	Mode              string   `json:"mode"`
	TargetTemperature float64  `json:"target_temperature"`
	ValvePosition     int      `json:"valve_position"`
	Locked            bool     `json:"locked"`
	LowBattery        bool     `json:"low_battery"`
	WindowOpen        bool     `json:"window_open"`
	AwayEnd           string   `json:"away_end,omitempty"`
	ComfortPreset     *float64 `json:"comfort_preset,omitempty"`
	EcoPreset         *float64 `json:"eco_preset,omitempty"`
	Offset            *float64 `json:"offset,omitempty"`
}

// loop polls the device until the context is cancelled. The first poll runs
// immediately so the retained state appears without waiting a full interval.
func (b *bridge) loop(ctx context.Context) error {
	ticker := time.NewTicker(b.poll)
	defer ticker.Stop()

	b.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return nil
		case <-ticker.C:
			b.refresh(ctx)
		}
	}
}

// refresh polls the device and publishes the resulting state. Poll failures
// are logged and retried on the next tick; the retained message keeps the
// last good state in the meantime.
func (b *bridge) refresh(ctx context.Context) {
	if err := b.dev.Update(ctx); err != nil {
		slog.Error("poll failed", "error", err)
		return
	}
	b.publishState()
}

func (b *bridge) publishState() {
	st, ok := b.dev.Status()
	if !ok {
		return
	}

	msg := stateMessage{
		Mode:              b.dev.Mode().String(),
		TargetTemperature: st.TargetTemperature,
		ValvePosition:     st.ValvePosition,
		Locked:            st.Mode.Locked(),
		LowBattery:        st.Mode.LowBattery(),
		WindowOpen:        st.Mode.WindowOpen(),
	}
	if st.AwayEnd != nil {
		msg.AwayEnd = st.AwayEnd.Format(time.RFC3339)
	}
	if st.Presets != nil {
		msg.ComfortPreset = &st.Presets.Comfort
		msg.EcoPreset = &st.Presets.Eco
	}
	if st.Offset != nil {
		msg.Offset = st.Offset
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling state", "error", err)
		return
	}
	topic := b.topic + "/state"
	token := b.client.Publish(topic, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		slog.Error("publishing state", "topic", topic, "error", token.Error())
		return
	}
	slog.Debug("published state", "topic", topic, "payload", string(payload))
}

// handleSet dispatches "<topic>/set/<command>" messages. Every accepted
// command ends with a state publish so subscribers see the effect.
func (b *bridge) handleSet(_ mqtt.Client, msg mqtt.Message) {
	parts := strings.Split(msg.Topic(), "/")
	command := parts[len(parts)-1]
	payload := strings.TrimSpace(string(msg.Payload()))
	slog.Info("received command", "command", command, "payload", payload)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch command {
	case "temperature":
		var temp float64
		if temp, err = strconv.ParseFloat(payload, 64); err != nil {
			err = fmt.Errorf("invalid temperature %q", payload)
			break
		}
		err = b.dev.SetTargetTemperature(ctx, temp)
	case "mode":
		var mode thermostat.Mode
		if mode, err = thermostat.ParseMode(payload); err != nil {
			break
		}
		err = b.dev.SetMode(ctx, mode)
	case "boost":
		var on bool
		if on, err = parseBool(payload); err != nil {
			break
		}
		err = b.dev.SetBoost(ctx, on)
	case "lock":
		var on bool
		if on, err = parseBool(payload); err != nil {
			break
		}
		err = b.dev.SetLocked(ctx, on)
	default:
		slog.Warn("unknown command topic", "topic", msg.Topic())
		return
	}

	if err != nil {
		slog.Error("command failed", "command", command, "error", err)
		return
	}
	b.publishState()
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
