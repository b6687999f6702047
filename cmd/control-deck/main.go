// Command control-deck polls GPIO buttons, turns them into gestures, and
// drives a MIDI-over-MQTT bridge through context-registered bindings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/control-deck/internal/app"
	"github.com/sweeney/control-deck/internal/gpio"
	"github.com/sweeney/control-deck/internal/input"
	"github.com/sweeney/control-deck/internal/midi"
	"github.com/sweeney/control-deck/internal/status"
	"github.com/sweeney/control-deck/internal/web"
)

func main() {
	poll := flag.Duration("poll", 10*time.Millisecond, "GPIO polling interval")
	debounce := flag.Duration("debounce", input.DefaultDebounce, "Debounce duration")
	longPress := flag.Duration("long-press", input.DefaultLongPress, "Long-press threshold")
	doubleTap := flag.Duration("double-tap", input.DefaultDoubleTapWindow, "Double-tap window")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address for the MIDI bridge")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	pinB1 := flag.Int("pin-b1", gpio.DefaultPinButton1, "BCM pin number for button 1")
	pinB2 := flag.Int("pin-b2", gpio.DefaultPinButton2, "BCM pin number for button 2")
	printState := flag.Bool("print-state", false, "Print current raw button levels and exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)

	flag.Parse()

	ws := resolveWSBroker(*wsBroker, *broker)
	cfg := runConfig{
		poll:       *poll,
		debounce:   *debounce,
		longPress:  *longPress,
		doubleTap:  *doubleTap,
		broker:     *broker,
		heartbeat:  *heartbeat,
		pins:       []int{*pinB1, *pinB2},
		printState: *printState,
		httpAddr:   *httpAddr,
		wsBroker:   ws,
	}
	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

type runConfig struct {
	poll       time.Duration
	debounce   time.Duration
	longPress  time.Duration
	doubleTap  time.Duration
	broker     string
	heartbeat  time.Duration
	pins       []int
	printState bool
	httpAddr   string
	wsBroker   string
}

func run(cfg runConfig) error {
	// Initialize GPIO
	gpioReader, err := gpio.NewRealReader(cfg.pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer gpioReader.Close()

	// Print state mode
	if cfg.printState {
		levels, err := gpioReader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		for i, pin := range cfg.pins {
			fmt.Printf("button %d (pin %d): %s\n", i+1, pin, levelString(levels[i]))
		}
		return nil
	}

	// Initialize the MIDI bridge
	out, err := midi.NewRealOutput(cfg.broker)
	if err != nil {
		return fmt.Errorf("init midi output: %w", err)
	}
	defer out.Close()

	// Assemble the app: drivers, timing, contexts
	defs := []input.ButtonDef{
		{ID: 1, Pin: cfg.pins[0], ActiveLow: true},
		{ID: 2, Pin: cfg.pins[1], ActiveLow: true},
	}
	deck := app.NewBuilder().
		MIDI(out).
		Buttons(gpioReader, defs, cfg.debounce).
		InputConfig(input.Timing{LongPress: cfg.longPress, DoubleTapWindow: cfg.doubleTap}).
		Build()

	if err := deck.RegisterContext(ctxPerform, "Perform", NewPerformContext()); err != nil {
		return fmt.Errorf("register context: %w", err)
	}

	if err := deck.Begin(time.Now()); err != nil {
		// Configuration errors are fatal: never enter the tick loop.
		return fmt.Errorf("begin: %w", err)
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      cfg.poll.Milliseconds(),
		DebounceMs:  cfg.debounce.Milliseconds(),
		LongPressMs: cfg.longPress.Milliseconds(),
		DoubleTapMs: cfg.doubleTap.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
		WSBroker:    cfg.wsBroker,
	})
	tracker.Update(buttonStates(deck), deck.ActiveContextName(), true, deck.Counts())
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := midi.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := out.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	log.Printf("started: poll=%v debounce=%v long-press=%v double-tap=%v broker=%s heartbeat=%v",
		cfg.poll, cfg.debounce, cfg.longPress, cfg.doubleTap, cfg.broker, cfg.heartbeat)

	ticker := time.NewTicker(cfg.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(deck, out, out, tracker, cfg.heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(deck *app.App, out midi.Output, midiStatus midi.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := midi.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if midiStatus != nil {
					tracker.SetMIDIConnected(midiStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := out.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			if err := deck.Update(t); err != nil {
				log.Printf("tick error: %v", err)
				continue
			}

			// Check for heartbeat
			if hbData := deck.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v press=%d release=%d long_press=%d double_tap=%d",
					hbData.Uptime, hbData.Counts.Press, hbData.Counts.Release, hbData.Counts.LongPress, hbData.Counts.DoubleTap)

				hbEvent := midi.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if midiStatus != nil {
						tracker.SetMIDIConnected(midiStatus.IsConnected())
					}
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					tracker.Update(buttonStates(deck), deck.ActiveContextName(), true, deck.Counts())
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := out.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(buttonStates(deck), deck.ActiveContextName(), true, deck.Counts())
				if midiStatus != nil {
					tracker.SetMIDIConnected(midiStatus.IsConnected())
				}
			}
		}
	}
}

// buttonStates pairs the configured buttons with their current stable levels.
func buttonStates(deck *app.App) []status.ButtonState {
	defs := deck.Buttons()
	levels := deck.ButtonLevels()
	states := make([]status.ButtonState, len(defs))
	for i, def := range defs {
		states[i] = status.ButtonState{ID: def.ID, Pin: def.Pin}
		if i < len(levels) {
			states[i].Pressed = levels[i]
		}
	}
	return states
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func levelString(level int) string {
	if level == 0 {
		return "LOW (pressed)"
	}
	return "HIGH (released)"
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; "off" disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
