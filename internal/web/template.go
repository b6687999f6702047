package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/control-deck/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"buttonState": func(pressed bool) string {
		return status.ButtonStateString(pressed)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Control Deck</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.pressed { color: green; font-weight: bold; }
.released { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Control Deck{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Buttons</h2>
<table>
{{range .Buttons}}<tr><th>Button {{.ID}} (pin {{.Pin}})</th><td id="btn-{{.ID}}" class="{{if .Pressed}}pressed{{else}}released{{end}}">{{buttonState .Pressed}}</td></tr>
{{end}}<tr><th>Active context</th><td>{{if .ActiveContext}}{{.ActiveContext}}{{else}}none{{end}}</td></tr>
<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MIDI bridge</th><td class="{{if .MIDIConnected}}connected{{else}}disconnected{{end}}">{{if .MIDIConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} / {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Gesture Counts</h2>
<table>
<tr><th>Press</th><td>{{.Counts.Press}}</td></tr>
<tr><th>Release</th><td>{{.Counts.Release}}</td></tr>
<tr><th>Long press</th><td>{{.Counts.LongPress}}</td></tr>
<tr><th>Double tap</th><td>{{.Counts.DoubleTap}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Long press</th><td>{{.Config.LongPressMs}}ms</td></tr>
<tr><th>Double tap</th><td>{{.Config.DoubleTapMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Config.WSBroker}}
<script src="/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "control/deck/midi/cc";
  var dot = document.getElementById("live-dot");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function() {
    // Any CC traffic means the deck is alive; refresh the page state.
    fetch("/index.json").then(function(r) { return r.json(); }).then(function(s) {
      (s.status.buttons || []).forEach(function(b) {
        var el = document.getElementById("btn-" + b.id);
        if (el) {
          el.textContent = b.state;
          el.className = b.state === "PRESSED" ? "pressed" : "released";
        }
      });
    }).catch(function() {});
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
